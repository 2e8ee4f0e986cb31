package permission

import (
	"fmt"
	"time"

	"github.com/casework-hq/casework/internal/shared/logger"
)

// Engine evaluates compiled rule sets. It holds no mutable state and is safe
// for concurrent use. It does not log allow/deny outcomes; callers audit their
// own decisions.
type Engine struct {
	logger logger.Interface
	now    func() time.Time
}

// NewEngine returns an engine logging condition failures to log. A nil log
// discards them.
func NewEngine(log logger.Interface) *Engine {
	if log == nil {
		log = logger.NewNop()
	}
	return &Engine{
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock returns a copy of the engine that reads time from now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	return &Engine{logger: e.logger, now: now}
}

// Can reports whether user may perform action on target under rules.
//
// The result is true iff at least one condition set of the action has every
// condition true. An action missing from rules denies. A condition that fails
// or panics counts as false for its set. Errors are returned only for
// configuration problems: an uncatalogued action or an action applied to the
// wrong kind of target.
func (e *Engine) Can(user User, rules *RuleSet, action Action, target Target) (bool, error) {
	kind, ok := actionKinds[action]
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if target == nil {
		return false, fmt.Errorf("%w: %s has no target", ErrTargetKindMismatch, action)
	}
	if target.TargetKind() != kind {
		return false, fmt.Errorf("%w: %s applies to %s, got %s", ErrTargetKindMismatch, action, kind, target.TargetKind())
	}

	cc := ConditionContext{Now: e.now()}
	for _, cs := range rules.lookup(action) {
		if e.satisfied(cs, user, target, cc, action) {
			return true, nil
		}
	}
	return false, nil
}

func (e *Engine) satisfied(cs conditionSet, user User, target Target, cc ConditionContext, action Action) bool {
	for i, cond := range cs.conditions {
		if !e.evaluate(cond, cs.names[i], user, target, cc, action) {
			return false
		}
	}
	return true
}

func (e *Engine) evaluate(cond Condition, name string, user User, target Target, cc ConditionContext, action Action) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("condition panicked, treating as false",
				"condition", name,
				"action", action,
				"target_kind", actionKinds[action],
				"target_id", safeTargetID(target),
				"panic", r,
			)
			result = false
		}
	}()

	ok, err := cond(user, target, cc)
	if err != nil {
		e.logger.Warnw("condition failed, treating as false",
			"condition", name,
			"action", action,
			"target_kind", actionKinds[action],
			"target_id", safeTargetID(target),
			"error", err,
		)
		return false
	}
	return ok
}

// safeTargetID reads the target ID for logging. A target that cannot report
// one is logged with an empty ID.
func safeTargetID(target Target) (id string) {
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	return target.TargetID()
}
