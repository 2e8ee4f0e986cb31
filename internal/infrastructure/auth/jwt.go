// Package auth verifies the bearer tokens issued to helpline workers.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/biztime"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

// Claims identify a worker of one helpline account. The subject is the
// worker SID.
type Claims struct {
	AccountSID   string   `json:"account_sid"`
	Roles        []string `json:"roles,omitempty"`
	IsSystemUser bool     `json:"is_system_user,omitempty"`
	jwt.RegisteredClaims
}

// User converts the claims into the caller identity used for authorization.
func (c *Claims) User() permission.User {
	return permission.NewUser(c.AccountSID, c.Subject, c.Roles, c.IsSystemUser)
}

type JWTService struct {
	secret           []byte
	issuer           string
	accessExpMinutes int
}

func NewJWTService(secret, issuer string, accessExpMinutes int) *JWTService {
	return &JWTService{
		secret:           []byte(secret),
		issuer:           issuer,
		accessExpMinutes: accessExpMinutes,
	}
}

// Generate signs an access token for user.
func (s *JWTService) Generate(user permission.User) (string, error) {
	if user.AccountSID == "" || user.WorkerSID == "" {
		return "", fmt.Errorf("account SID and worker SID are required")
	}

	now := biztime.NowUTC()
	claims := &Claims{
		AccountSID:   user.AccountSID,
		Roles:        user.Roles,
		IsSystemUser: user.IsSystemUser,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.WorkerSID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.accessExpMinutes) * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses a token. Failures are AuthErrors.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.NewTokenExpiredError()
		}
		return nil, apperrors.NewTokenInvalidError(err.Error())
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.NewTokenInvalidError("invalid claims")
	}
	if claims.AccountSID == "" || claims.Subject == "" {
		return nil, apperrors.NewTokenInvalidError("missing account or worker")
	}
	return claims, nil
}
