package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		wantCode int
	}{
		{"validation", NewValidationError("bad"), ErrorTypeValidation, http.StatusBadRequest},
		{"not found", NewNotFoundError("missing", "case 7"), ErrorTypeNotFound, http.StatusNotFound},
		{"forbidden", NewForbiddenError("no"), ErrorTypeForbidden, http.StatusForbidden},
		{"internal", NewInternalError("boom"), ErrorTypeInternal, http.StatusInternalServerError},
		{"unauthorized", NewUnauthorizedError("who"), ErrorTypeUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.wantCode, tt.err.Code)
		})
	}

	assert.Equal(t, "not_found: missing (case 7)", NewNotFoundError("missing", "case 7").Error())
}

func TestTypePredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("guard: %w", NewForbiddenError("denied"))

	assert.True(t, IsForbiddenError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.True(t, IsNotFoundError(fmt.Errorf("load: %w", NewNotFoundError("case"))))
	assert.False(t, IsInternalError(errors.New("plain")))
	assert.Nil(t, GetAppError(nil))
}

func TestWrapInternal(t *testing.T) {
	cause := errors.New("unknown condition")
	err := WrapInternal("permission configuration error", cause)

	assert.True(t, IsInternalError(err))
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Error(), "unknown condition")
}

func TestAuthErrors(t *testing.T) {
	err := fmt.Errorf("verify: %w", NewTokenInvalidError("signature"))

	authErr := GetAuthError(err)
	if assert.NotNil(t, authErr) {
		assert.True(t, authErr.SecurityEvent)
		assert.Equal(t, http.StatusUnauthorized, authErr.Code)
	}
	assert.True(t, IsAppError(err))
	assert.Nil(t, GetAuthError(NewInternalError("x")))
	assert.Equal(t, ErrorTypeTokenExpired, NewTokenExpiredError().Type)
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(errors.New("Error 1062: Duplicate entry 'x' for key 'y'")))
	assert.True(t, IsDuplicateError(errors.New("UNIQUE constraint failed: case_sections.section_id")))
	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(errors.New("timeout")))
}
