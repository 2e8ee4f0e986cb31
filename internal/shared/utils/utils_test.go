package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/shared/constants"
	"github.com/casework-hq/casework/internal/shared/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNormalizeLimitOffset(t *testing.T) {
	tests := []struct {
		name          string
		limit, offset int
		want          LimitOffset
	}{
		{name: "as given", limit: 10, offset: 5, want: LimitOffset{Limit: 10, Offset: 5}},
		{name: "zero limit uses default", limit: 0, offset: 0, want: LimitOffset{Limit: constants.DefaultLimit}},
		{name: "limit capped", limit: 5000, offset: 0, want: LimitOffset{Limit: 200}},
		{name: "negative offset", limit: 10, offset: -3, want: LimitOffset{Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLimitOffset(tt.limit, tt.offset, constants.DefaultLimit, 200))
		})
	}
}

func TestParseLimitOffset(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/cases/1/timeline?limit=1&offset=1", nil)

	assert.Equal(t, LimitOffset{Limit: 1, Offset: 1}, ParseLimitOffset(c, 100))

	c.Request = httptest.NewRequest(http.MethodGet, "/cases/1/timeline?limit=abc", nil)
	assert.Equal(t, LimitOffset{Limit: constants.DefaultLimit}, ParseLimitOffset(c, 100))
}

func TestParseUintParam(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, err := ParseUintParam(c, "id", "case")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		c.Params = gin.Params{{Key: "id", Value: raw}}
		_, err = ParseUintParam(c, "id", "case")
		assert.True(t, errors.IsValidationError(err), raw)
	}
}

func TestErrorResponseWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{name: "app error", err: errors.NewForbiddenError("denied"), wantStatus: http.StatusForbidden, wantType: "forbidden"},
		{name: "plain error hides details", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantType: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			ErrorResponseWithError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.NotContains(t, w.Body.String(), assert.AnError.Error())
		})
	}
}

func TestValidateStruct(t *testing.T) {
	type body struct {
		Status string `json:"status" validate:"required,oneof=open inProgress closed"`
	}

	assert.NoError(t, ValidateStruct(body{Status: "open"}))

	err := ValidateStruct(body{Status: "archived"})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, errors.GetAppError(err).Details, "status must be one of")
}
