package authorization

import (
	"context"
	"errors"
	"fmt"
)

// Guard inspects a request and may Permit or Block its gate. A returned error
// blocks the request and stops the chain.
type Guard func(ctx context.Context, req *Request, gate *Gate) error

// ErrGuardPanicked wraps a recovered guard panic.
var ErrGuardPanicked = errors.New("authorization guard panicked")

// PublicGuard permits unconditionally.
func PublicGuard() Guard {
	return func(_ context.Context, _ *Request, gate *Gate) error {
		return gate.Permit()
	}
}

// AuthenticatedGuard permits any caller with a complete identity. It suits
// routes that create a new target, where there is nothing to load yet.
func AuthenticatedGuard() Guard {
	return func(_ context.Context, req *Request, gate *Gate) error {
		if req.User.AccountSID == "" || req.User.WorkerSID == "" {
			return gate.Block("unauthenticated")
		}
		return gate.Permit()
	}
}

// RequireAll combines guards that must each permit on their own. Every guard
// runs against a private gate; the shared gate is permitted only when all of
// them were, and blocked with the first denial reason otherwise. Values the
// guards store on the request are kept.
func RequireAll(guards ...Guard) Guard {
	return func(ctx context.Context, req *Request, gate *Gate) error {
		if len(guards) == 0 {
			return gate.Block(ReasonNoPermit)
		}
		for _, guard := range guards {
			d, err := Evaluate(ctx, req, guard)
			if err != nil {
				return err
			}
			if !d.Permitted {
				return gate.Block(d.Reason)
			}
		}
		return gate.Permit()
	}
}

// Evaluate runs guards against a fresh gate and seals it. A route with no
// guards is blocked. The returned error is the first guard failure, if any;
// its presence always implies a blocked decision.
func Evaluate(ctx context.Context, req *Request, guards ...Guard) (Decision, error) {
	gate := NewGate()
	err := Run(ctx, req, gate, guards...)
	return gate.Seal(), err
}

// Run executes guards in order against gate without sealing it. It stops at
// the first guard error, panic or context cancellation, failing the gate.
func Run(ctx context.Context, req *Request, gate *Gate, guards ...Guard) error {
	for _, guard := range guards {
		if err := ctx.Err(); err != nil {
			_ = gate.Fail("request cancelled")
			return err
		}
		if guard == nil {
			continue
		}
		if err := runGuard(ctx, guard, req, gate); err != nil {
			_ = gate.Fail(err.Error())
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		_ = gate.Fail("request cancelled")
		return err
	}
	return nil
}

func runGuard(ctx context.Context, guard Guard, req *Request, gate *Gate) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrGuardPanicked, r)
		}
	}()
	return guard(ctx, req, gate)
}
