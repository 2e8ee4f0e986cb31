package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/casework-hq/casework/internal/shared/authorization"
	"github.com/casework-hq/casework/internal/shared/constants"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
	"github.com/casework-hq/casework/internal/shared/utils"
)

const (
	gateKey     = "authz_gate"
	requestKey  = "authz_request"
	guardErrKey = "authz_error"

	maxGuardPayloadBytes = 1 << 20
)

// DecisionRecorder observes every sealed gate.
type DecisionRecorder interface {
	ObserveDecision(route string, permitted bool, err error)
}

// GateMiddleware adapts the authorization gate to gin. A guarded route is
// OpenGate, Guard, EnforceGate, handler; the handler runs only when
// EnforceGate finds the sealed gate permitted.
type GateMiddleware struct {
	recorder DecisionRecorder
	logger   logger.Interface
}

func NewGateMiddleware(recorder DecisionRecorder, logger logger.Interface) *GateMiddleware {
	return &GateMiddleware{
		recorder: recorder,
		logger:   logger,
	}
}

// OpenGate installs a fresh, unevaluated gate for the request.
func (m *GateMiddleware) OpenGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(gateKey, authorization.NewGate())
		c.Next()
	}
}

// Guard runs guards against the request's gate. It never aborts; a guard
// error fails the gate and is kept for EnforceGate to report.
func (m *GateMiddleware) Guard(guards ...authorization.Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		gate, ok := gateFrom(c)
		if !ok {
			gate = authorization.NewGate()
			c.Set(gateKey, gate)
		}
		if _, failed := c.Get(guardErrKey); failed {
			c.Next()
			return
		}

		req, err := buildRequest(c)
		if err != nil {
			_ = gate.Fail(err.Error())
			c.Set(guardErrKey, err)
			c.Next()
			return
		}
		c.Set(requestKey, req)

		if err := authorization.Run(c.Request.Context(), req, gate, guards...); err != nil {
			c.Set(guardErrKey, err)
		}
		c.Next()
	}
}

// EnforceGate seals the gate and stops the chain unless it is permitted.
func (m *GateMiddleware) EnforceGate() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.Request.Method + " " + c.FullPath()

		gate, ok := gateFrom(c)
		if !ok {
			m.logger.Errorw("route reached enforcement without a gate", "route", route)
			m.observe(route, false, nil)
			utils.AbortWithError(c, apperrors.NewForbiddenError(constants.ErrMsgForbidden))
			return
		}

		decision := gate.Seal()
		guardErr := guardError(c)
		m.observe(route, decision.Permitted, guardErr)

		if decision.Permitted && guardErr == nil {
			c.Next()
			return
		}

		if guardErr != nil {
			m.abortWithGuardError(c, route, guardErr)
			return
		}

		user, _ := UserFrom(c)
		m.logger.Infow("request blocked",
			"route", route,
			"user", user.WorkerSID,
			"account_sid", user.AccountSID,
			"reason", decision.Reason,
		)
		utils.AbortWithError(c, apperrors.NewForbiddenError(constants.ErrMsgForbidden))
	}
}

func (m *GateMiddleware) abortWithGuardError(c *gin.Context, route string, err error) {
	switch {
	case apperrors.IsAppError(err):
		switch {
		case apperrors.IsInternalError(err):
			m.logger.Errorw("authorization guard failed", "route", route, "error", err)
		case apperrors.IsForbiddenError(err):
			m.logger.Infow("request blocked by guard", "route", route, "error", err)
		case apperrors.IsValidationError(err):
			m.logger.Debugw("guard rejected request", "route", route, "error", err)
		}
		utils.AbortWithError(c, err)
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		m.logger.Infow("request cancelled during authorization", "route", route)
		utils.AbortWithError(c, apperrors.NewForbiddenError("request cancelled"))
	default:
		m.logger.Errorw("authorization guard failed", "route", route, "error", err)
		utils.AbortWithError(c, apperrors.WrapInternal(constants.ErrMsgInternalServerError, err))
	}
}

func (m *GateMiddleware) observe(route string, permitted bool, err error) {
	if m.recorder != nil {
		m.recorder.ObserveDecision(route, permitted, err)
	}
}

// RequestFrom returns the request the guards ran against, including any
// targets they loaded.
func RequestFrom(c *gin.Context) (*authorization.Request, bool) {
	v, ok := c.Get(requestKey)
	if !ok {
		return nil, false
	}
	req, ok := v.(*authorization.Request)
	return req, ok
}

func gateFrom(c *gin.Context) (*authorization.Gate, bool) {
	v, ok := c.Get(gateKey)
	if !ok {
		return nil, false
	}
	gate, ok := v.(*authorization.Gate)
	return gate, ok
}

func guardError(c *gin.Context) error {
	v, ok := c.Get(guardErrKey)
	if !ok {
		return nil
	}
	err, _ := v.(error)
	return err
}

// buildRequest copies what guards need out of the gin context. The JSON body
// is decoded into Payload and the body is restored for the handler. A body
// that is not a JSON object leaves Payload nil.
func buildRequest(c *gin.Context) (*authorization.Request, error) {
	user, _ := UserFrom(c)

	params := make(map[string]string, len(c.Params))
	for _, p := range c.Params {
		params[p.Key] = p.Value
	}

	var payload map[string]any
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxGuardPayloadBytes+1))
		if err != nil {
			return nil, apperrors.NewBadRequestError("failed to read request body")
		}
		if len(body) > maxGuardPayloadBytes {
			return nil, apperrors.NewValidationError("request body too large")
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &payload); err != nil {
				payload = nil
			}
		}
	}

	return authorization.NewRequest(user, c.Request.Method, c.FullPath(), params, payload), nil
}
