package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/infrastructure/auth"
	"github.com/casework-hq/casework/internal/shared/constants"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/utils"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// RequireAuth resolves the caller identity from the Authorization header and
// stores it for the authorization gate.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("missing authorization token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			utils.AbortWithError(c, errors.NewUnauthorizedError("invalid authorization header format"))
			return
		}

		claims, err := m.verifier.Verify(parts[1])
		if err != nil {
			if authErr := errors.GetAuthError(err); authErr != nil && !authErr.SecurityEvent {
				m.logger.Debugw("token rejected", "reason", authErr.Type, "client_ip", c.ClientIP())
			} else {
				m.logger.Warnw("failed to verify token", "error", err, "client_ip", c.ClientIP())
			}
			utils.AbortWithError(c, err)
			return
		}

		c.Set(constants.ContextKeyUser, claims.User())
		c.Next()
	}
}

// UserFrom returns the identity stored by RequireAuth.
func UserFrom(c *gin.Context) (permission.User, bool) {
	v, ok := c.Get(constants.ContextKeyUser)
	if !ok {
		return permission.User{}, false
	}
	user, ok := v.(permission.User)
	return user, ok
}
