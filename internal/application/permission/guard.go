package permission

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/authorization"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// TargetLoader fetches the entity a route acts on. A missing entity is
// reported as (nil, nil) or as a not-found AppError.
type TargetLoader interface {
	GetTargetByID(ctx context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error)
}

// Checker is the authorization query used by guards.
type Checker interface {
	Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error)
}

// TargetIDFunc extracts a target id from a request.
type TargetIDFunc func(req *authorization.Request) (string, error)

// TargetIDsFunc extracts several target ids from a request.
type TargetIDsFunc func(req *authorization.Request) ([]string, error)

// ActionFunc derives the actions a request performs on a loaded target.
// Every returned action must be permitted.
type ActionFunc func(req *authorization.Request, target permission.Target) ([]permission.Action, error)

// GuardFactory builds route guards that load a target and check the actions
// a request performs on it.
type GuardFactory struct {
	loader     TargetLoader
	authorizer Checker
	logger     logger.Interface
}

func NewGuardFactory(loader TargetLoader, authorizer Checker, logger logger.Interface) *GuardFactory {
	return &GuardFactory{
		loader:     loader,
		authorizer: authorizer,
		logger:     logger,
	}
}

// TargetKey is the request value key under which guards store loaded targets.
func TargetKey(kind permission.TargetKind) string {
	return "target:" + kind.String()
}

// TargetsKey is the request value key for targets loaded by ForTargets.
func TargetsKey(kind permission.TargetKind) string {
	return "targets:" + kind.String()
}

// ParamTargetID reads the target id from a path parameter.
func ParamTargetID(param string) TargetIDFunc {
	return func(req *authorization.Request) (string, error) {
		id := strings.TrimSpace(req.Param(param))
		if id == "" {
			return "", apperrors.NewValidationError(fmt.Sprintf("%s is required", param))
		}
		return id, nil
	}
}

// PayloadTargetID reads a target id from a JSON body field. Numbers and
// strings are accepted.
func PayloadTargetID(field string) TargetIDFunc {
	return func(req *authorization.Request) (string, error) {
		id, ok := payloadID(req.Payload[field])
		if !ok {
			return "", apperrors.NewValidationError(fmt.Sprintf("%s is required", field))
		}
		return id, nil
	}
}

// PayloadTargetIDs reads a list of target ids from a JSON body field.
// Duplicates are dropped.
func PayloadTargetIDs(field string) TargetIDsFunc {
	return func(req *authorization.Request) ([]string, error) {
		raw, ok := req.Payload[field].([]any)
		if !ok || len(raw) == 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("%s must be a non-empty list", field))
		}
		ids := make([]string, 0, len(raw))
		seen := make(map[string]bool, len(raw))
		for _, v := range raw {
			id, ok := payloadID(v)
			if !ok {
				return nil, apperrors.NewValidationError(fmt.Sprintf("%s contains an invalid id", field))
			}
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		return ids, nil
	}
}

func payloadID(v any) (string, bool) {
	switch id := v.(type) {
	case string:
		id = strings.TrimSpace(id)
		return id, id != ""
	case float64:
		if id <= 0 || id != math.Trunc(id) {
			return "", false
		}
		return strconv.FormatInt(int64(id), 10), true
	default:
		return "", false
	}
}

// ForTarget returns a guard that permits the request only when every action
// produced by actions is allowed on the target identified by targetID.
func (f *GuardFactory) ForTarget(kind permission.TargetKind, targetID TargetIDFunc, actions ActionFunc) authorization.Guard {
	return func(ctx context.Context, req *authorization.Request, gate *authorization.Gate) error {
		id, err := targetID(req)
		if err != nil {
			return err
		}

		target, err := f.loadTarget(ctx, req, kind, id)
		if err != nil {
			return err
		}

		allowed, err := f.check(ctx, req, gate, target, actions)
		if err != nil || !allowed {
			return err
		}

		req.Set(TargetKey(kind), target)
		if err := ctx.Err(); err != nil {
			return err
		}
		return gate.Permit()
	}
}

// ForTargets is ForTarget over several targets of one kind. The request is
// permitted only when every target passes.
func (f *GuardFactory) ForTargets(kind permission.TargetKind, targetIDs TargetIDsFunc, actions ActionFunc) authorization.Guard {
	return func(ctx context.Context, req *authorization.Request, gate *authorization.Gate) error {
		ids, err := targetIDs(req)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return gate.Block("no targets")
		}

		targets := make([]permission.Target, 0, len(ids))
		for _, id := range ids {
			target, err := f.loadTarget(ctx, req, kind, id)
			if err != nil {
				return err
			}
			allowed, err := f.check(ctx, req, gate, target, actions)
			if err != nil || !allowed {
				return err
			}
			targets = append(targets, target)
		}

		req.Set(TargetsKey(kind), targets)
		if err := ctx.Err(); err != nil {
			return err
		}
		return gate.Permit()
	}
}

func (f *GuardFactory) loadTarget(ctx context.Context, req *authorization.Request, kind permission.TargetKind, id string) (permission.Target, error) {
	target, err := f.loader.GetTargetByID(ctx, kind, id, req.User.AccountSID)
	if err != nil {
		if apperrors.IsNotFoundError(err) {
			f.logger.Infow("authorization target not found",
				"user", req.User.WorkerSID,
				"target_kind", kind,
				"target_id", id,
			)
			return nil, err
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		f.logger.Errorw("failed to load authorization target",
			"target_kind", kind,
			"target_id", id,
			"error", err,
		)
		return nil, apperrors.WrapInternal("failed to load target", err)
	}
	if target == nil {
		f.logger.Infow("authorization target not found",
			"user", req.User.WorkerSID,
			"target_kind", kind,
			"target_id", id,
		)
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s not found", kind), id)
	}
	return target, nil
}

// check evaluates every generated action. A denial blocks the gate and
// reports allowed=false without an error.
func (f *GuardFactory) check(
	ctx context.Context,
	req *authorization.Request,
	gate *authorization.Gate,
	target permission.Target,
	actionsFor ActionFunc,
) (bool, error) {
	actions, err := actionsFor(req, target)
	if err != nil {
		return false, err
	}
	if len(actions) == 0 {
		f.logDecision(req, "", target, false)
		return false, gate.Block("no actions derived from request")
	}

	for _, action := range actions {
		ok, err := f.authorizer.Can(ctx, req.User, action, target)
		if err != nil {
			if errors.Is(err, permission.ErrUnknownAction) {
				f.logger.Errorw("unknown action requested, denying",
					"user", req.User.WorkerSID,
					"action", action,
					"error", err,
				)
				return false, gate.Block(fmt.Sprintf("unknown action %s", action))
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return false, err
			}
			f.logger.Errorw("permission evaluation failed",
				"user", req.User.WorkerSID,
				"action", action,
				"target_kind", target.TargetKind(),
				"target_id", target.TargetID(),
				"error", err,
			)
			return false, apperrors.WrapInternal("permission evaluation failed", err)
		}
		if !ok {
			f.logDecision(req, action, target, false)
			return false, gate.Block(fmt.Sprintf("%s denied", action))
		}
		f.logDecision(req, action, target, true)
	}
	return true, nil
}

func (f *GuardFactory) logDecision(req *authorization.Request, action permission.Action, target permission.Target, allowed bool) {
	f.logger.Infow("authorization decision",
		"user", req.User.WorkerSID,
		"account_sid", req.User.AccountSID,
		"action", action,
		"target_kind", target.TargetKind(),
		"target_id", target.TargetID(),
		"allowed", allowed,
	)
}

// TargetFrom returns the target stored on the request by a ForTarget guard.
func TargetFrom[T permission.Target](req *authorization.Request, kind permission.TargetKind) (T, bool) {
	var zero T
	v, ok := req.Get(TargetKey(kind))
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// TargetsFrom returns the targets stored on the request by a ForTargets guard.
func TargetsFrom(req *authorization.Request, kind permission.TargetKind) []permission.Target {
	v, ok := req.Get(TargetsKey(kind))
	if !ok {
		return nil
	}
	targets, _ := v.([]permission.Target)
	return targets
}
