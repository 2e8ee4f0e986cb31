package permission

import (
	"context"
	"fmt"
	"slices"
	"sort"
)

// RawRules is the stored form of a policy: action name to a list of condition
// sets, each a list of condition names. Sets are ORed, names within a set are
// ANDed.
type RawRules map[string][][]string

// RuleLoader fetches the stored policy of an account.
type RuleLoader interface {
	LoadRules(ctx context.Context, accountSID string) (RawRules, error)
}

// RuleLoaderFunc adapts a function to RuleLoader.
type RuleLoaderFunc func(ctx context.Context, accountSID string) (RawRules, error)

func (f RuleLoaderFunc) LoadRules(ctx context.Context, accountSID string) (RawRules, error) {
	return f(ctx, accountSID)
}

type conditionSet struct {
	names      []string
	conditions []Condition
}

// RuleSet is a compiled policy. Every action and condition name it holds was
// resolved when it was built, so evaluation never meets an unknown name. A
// RuleSet is immutable.
type RuleSet struct {
	entries map[Action][]conditionSet
}

// CompileRules validates raw rules against the action catalogue and the
// condition catalog.
func CompileRules(raw RawRules, catalog *Catalog) (*RuleSet, error) {
	if catalog == nil {
		return nil, fmt.Errorf("%w: no condition catalog", ErrMalformedRules)
	}

	entries := make(map[Action][]conditionSet, len(raw))
	for name, sets := range raw {
		action, err := ParseAction(name)
		if err != nil {
			return nil, err
		}

		compiled := make([]conditionSet, 0, len(sets))
		for i, names := range sets {
			if len(names) == 0 {
				return nil, fmt.Errorf("%w: %s condition set %d is empty", ErrMalformedRules, name, i)
			}
			cs := conditionSet{
				names:      slices.Clone(names),
				conditions: make([]Condition, 0, len(names)),
			}
			for _, condName := range names {
				cond, err := catalog.Resolve(condName)
				if err != nil {
					return nil, fmt.Errorf("action %s: %w", name, err)
				}
				cs.conditions = append(cs.conditions, cond)
			}
			compiled = append(compiled, cs)
		}
		entries[action] = compiled
	}

	return &RuleSet{entries: entries}, nil
}

// ConditionSets returns the condition names configured for an action. A nil
// result means the action is not configured and is therefore denied.
func (r *RuleSet) ConditionSets(action Action) [][]string {
	sets, ok := r.entries[action]
	if !ok {
		return nil
	}
	out := make([][]string, len(sets))
	for i, cs := range sets {
		out[i] = slices.Clone(cs.names)
	}
	return out
}

// Actions returns the configured actions in lexical order.
func (r *RuleSet) Actions() []Action {
	actions := make([]Action, 0, len(r.entries))
	for a := range r.entries {
		actions = append(actions, a)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions
}

// Raw converts the rule set back to its stored form.
func (r *RuleSet) Raw() RawRules {
	raw := make(RawRules, len(r.entries))
	for a := range r.entries {
		raw[a.String()] = r.ConditionSets(a)
	}
	return raw
}

func (r *RuleSet) lookup(action Action) []conditionSet {
	if r == nil {
		return nil
	}
	return r.entries[action]
}
