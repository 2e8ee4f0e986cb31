package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/infrastructure/auth"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type mockVerifier struct {
	VerifyFunc func(token string) (*auth.Claims, error)
}

func (m *mockVerifier) Verify(token string) (*auth.Claims, error) {
	return m.VerifyFunc(token)
}

func TestAuthMiddleware_RequireAuth(t *testing.T) {
	verifier := &mockVerifier{
		VerifyFunc: func(token string) (*auth.Claims, error) {
			if token != "good" {
				return nil, apperrors.NewTokenInvalidError("signature")
			}
			c := &auth.Claims{AccountSID: "AC1", Roles: []string{permission.RoleSupervisor}}
			c.Subject = "W1"
			return c, nil
		},
	}

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"empty token", "Bearer ", http.StatusUnauthorized},
		{"invalid token", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "Bearer good", http.StatusOK},
		{"scheme is case insensitive", "bearer good", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var user permission.User
			engine := gin.New()
			engine.GET("/me", NewAuthMiddleware(verifier, logger.NewNop()).RequireAuth(), func(c *gin.Context) {
				user, _ = UserFrom(c)
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, "W1", user.WorkerSID)
				assert.True(t, user.IsSupervisor())
			}
		})
	}
}

func TestAuthMiddleware_LogsOnlySecurityEventsAsWarnings(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantWarn bool
	}{
		{"expired token", apperrors.NewTokenExpiredError(), false},
		{"forged token", apperrors.NewTokenInvalidError("signature"), true},
		{"verifier failure", errors.New("key set unavailable"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := logger.FromSlog(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
			verifier := &mockVerifier{VerifyFunc: func(string) (*auth.Claims, error) { return nil, tt.err }}

			engine := gin.New()
			engine.GET("/me", NewAuthMiddleware(verifier, log).RequireAuth(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer token")
			engine.ServeHTTP(w, req)

			assert.NotEqual(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.wantWarn, strings.Contains(buf.String(), "level=WARN"), buf.String())
		})
	}
}
