package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveDecision(t *testing.T) {
	m := New()

	m.ObserveDecision("GET /cases/:id", true, nil)
	m.ObserveDecision("GET /cases/:id", false, nil)
	m.ObserveDecision("GET /cases/:id", true, errors.New("lookup failed"))
	m.ObserveDecision("GET /cases/:id", false, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("GET /cases/:id", OutcomePermitted)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("GET /cases/:id", OutcomeBlocked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gateDecisions.WithLabelValues("GET /cases/:id", OutcomeError)))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/cases/:id", http.StatusForbidden, 20*time.Millisecond)
	m.ObserveRuleLoad(nil)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `casework_http_requests_total{method="GET",route="/cases/:id",status="403"} 1`)
	assert.Contains(t, body, `casework_rule_set_loads_total{result="ok"} 1`)
}

func TestMetrics_InstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveDecision("r", true, nil)

	assert.Equal(t, 0.0, testutil.ToFloat64(b.gateDecisions.WithLabelValues("r", OutcomePermitted)))
}
