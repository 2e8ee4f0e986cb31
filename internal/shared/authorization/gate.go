// Package authorization implements the fail-closed request gate. Every guarded
// request owns one Gate; the request proceeds only if a guard explicitly
// permitted it and nothing failed afterwards.
package authorization

import (
	"errors"
	"sync"
)

// State is the position of a Gate in its state machine.
type State int

const (
	StateUnevaluated State = iota
	StatePermitted
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StatePermitted:
		return "permitted"
	case StateBlocked:
		return "blocked"
	default:
		return "unevaluated"
	}
}

const (
	ReasonNoPermit = "no guard permitted the request"
	ReasonPermit   = "permitted"
)

var (
	// ErrGateSealed is returned for writes after the decision was taken.
	ErrGateSealed = errors.New("authorization gate is sealed")
	// ErrGateFailed is returned by Permit after a guard failure blocked the gate.
	ErrGateFailed = errors.New("authorization gate failed closed")
)

// Decision is the immutable outcome of a sealed Gate.
type Decision struct {
	Permitted bool
	Reason    string
}

// Gate holds the authorization state of a single request.
//
// Permit is sticky: once permitted, Block is a no-op. Fail overrides
// everything and is terminal. Seal freezes the state into a Decision; an
// unevaluated gate seals as blocked.
type Gate struct {
	mu       sync.Mutex
	state    State
	reason   string
	failed   bool
	sealed   bool
	decision Decision
}

func NewGate() *Gate {
	return &Gate{state: StateUnevaluated}
}

// Permit marks the request as allowed.
func (g *Gate) Permit() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sealed {
		return ErrGateSealed
	}
	if g.failed {
		return ErrGateFailed
	}
	g.state = StatePermitted
	g.reason = ReasonPermit
	return nil
}

// Block records an explicit denial. It does not revoke an earlier Permit.
func (g *Gate) Block(reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sealed {
		return ErrGateSealed
	}
	if g.state == StatePermitted {
		return nil
	}
	g.state = StateBlocked
	g.reason = reason
	return nil
}

// Fail blocks the request unconditionally, including one already permitted.
// Later Permit calls are rejected.
func (g *Gate) Fail(reason string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sealed {
		return ErrGateSealed
	}
	g.failed = true
	g.state = StateBlocked
	g.reason = reason
	return nil
}

func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Seal takes the decision. Calling it again returns the same decision.
func (g *Gate) Seal() Decision {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.sealed {
		return g.decision
	}

	g.sealed = true
	switch g.state {
	case StatePermitted:
		g.decision = Decision{Permitted: true, Reason: g.reason}
	default:
		reason := g.reason
		if reason == "" {
			reason = ReasonNoPermit
		}
		g.state = StateBlocked
		g.decision = Decision{Permitted: false, Reason: reason}
	}
	return g.decision
}

// Sealed reports whether the decision was taken, and returns it if so.
func (g *Gate) Sealed() (Decision, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision, g.sealed
}
