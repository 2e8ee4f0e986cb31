package errors

import (
	stderrors "errors"
	"net/http"
)

// Authentication-specific error types
const (
	ErrorTypeTokenExpired ErrorType = "token_expired"
	ErrorTypeTokenInvalid ErrorType = "token_invalid"
)

// AuthError is an authentication failure. SecurityEvent marks failures worth
// tracking, such as forged signatures.
type AuthError struct {
	*AppError
	SecurityEvent bool
}

func (e *AuthError) Error() string {
	return e.AppError.Error()
}

func (e *AuthError) Unwrap() error {
	return e.AppError
}

func NewTokenExpiredError() *AuthError {
	return &AuthError{
		AppError: &AppError{
			Type:    ErrorTypeTokenExpired,
			Message: "Token has expired",
			Code:    http.StatusUnauthorized,
		},
	}
}

func NewTokenInvalidError(details ...string) *AuthError {
	return &AuthError{
		AppError:      newAppError(ErrorTypeTokenInvalid, http.StatusUnauthorized, "Invalid token", details),
		SecurityEvent: true,
	}
}

// GetAuthError returns the AuthError in err's chain, or nil.
func GetAuthError(err error) *AuthError {
	var authErr *AuthError
	if stderrors.As(err, &authErr) {
		return authErr
	}
	return nil
}
