// Package permission stores per-account rule sets outside the process: in
// the casbin policy table or in YAML files on disk.
package permission

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// conditionSeparator joins the condition names of one set in a policy line.
const conditionSeparator = "&"

// Each policy line is one condition set: (account, action, conditions, ordinal).
// The matcher is only used by ad-hoc tooling; evaluation happens in the
// permission engine.
const ruleModel = `
[request_definition]
r = acct, act

[policy_definition]
p = acct, act, cond, ord

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.acct == p.acct && r.act == p.act
`

var (
	_ permission.RuleLoader = (*CasbinRuleStore)(nil)
)

// CasbinRuleStore keeps rule sets in the casbin_rule table.
type CasbinRuleStore struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

func NewCasbinRuleStore(db *gorm.DB, log logger.Interface) (*CasbinRuleStore, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	m, err := model.NewModelFromString(ruleModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	return &CasbinRuleStore{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

// LoadRules reloads the policy table and returns the account's rules. Callers
// are expected to cache the result.
func (s *CasbinRuleStore) LoadRules(ctx context.Context, accountSID string) (permission.RawRules, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	lines, err := s.enforcer.GetFilteredPolicy(0, accountSID)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy for account %s: %w", accountSID, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", permission.ErrRulesNotFound, accountSID)
	}

	return linesToRules(lines)
}

// SaveRules replaces every policy line of the account with raw.
func (s *CasbinRuleStore) SaveRules(ctx context.Context, accountSID string, raw permission.RawRules) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if accountSID == "" {
		return fmt.Errorf("account SID is required")
	}

	lines, err := rulesToLines(accountSID, raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to load policy: %w", err)
	}
	previous, err := s.enforcer.GetFilteredPolicy(0, accountSID)
	if err != nil {
		return fmt.Errorf("failed to read policy for account %s: %w", accountSID, err)
	}
	if len(previous) > 0 {
		if _, err := s.enforcer.RemoveFilteredPolicy(0, accountSID); err != nil {
			return fmt.Errorf("failed to remove policy for account %s: %w", accountSID, err)
		}
	}
	if len(lines) > 0 {
		if _, err := s.enforcer.AddPolicies(lines); err != nil {
			s.restore(previous)
			return fmt.Errorf("failed to add policy for account %s: %w", accountSID, err)
		}
	}

	s.logger.Infow("rules saved",
		"account_sid", accountSID,
		"actions", len(raw),
		"policy_lines", len(lines),
	)
	return nil
}

func (s *CasbinRuleStore) restore(previous [][]string) {
	if len(previous) == 0 {
		return
	}
	if _, err := s.enforcer.AddPolicies(previous); err != nil {
		s.logger.Errorw("failed to restore previous policy", "error", err, "policy_lines", len(previous))
	}
}

func rulesToLines(accountSID string, raw permission.RawRules) ([][]string, error) {
	actions := make([]string, 0, len(raw))
	for action := range raw {
		actions = append(actions, action)
	}
	slices.Sort(actions)

	var lines [][]string
	for _, action := range actions {
		seen := make(map[string]bool)
		for i, set := range raw[action] {
			if len(set) == 0 {
				return nil, fmt.Errorf("%w: %s condition set %d is empty", permission.ErrMalformedRules, action, i)
			}
			for _, name := range set {
				if name == "" || strings.Contains(name, conditionSeparator) {
					return nil, fmt.Errorf("%w: %s has invalid condition name %q", permission.ErrMalformedRules, action, name)
				}
			}
			joined := strings.Join(set, conditionSeparator)
			if seen[joined] {
				continue
			}
			seen[joined] = true
			lines = append(lines, []string{accountSID, action, joined, strconv.Itoa(i)})
		}
	}
	return lines, nil
}

func linesToRules(lines [][]string) (permission.RawRules, error) {
	type orderedSet struct {
		ord   int
		names []string
	}
	grouped := make(map[string][]orderedSet)
	for _, line := range lines {
		if len(line) < 3 || line[2] == "" {
			return nil, fmt.Errorf("%w: policy line %v", permission.ErrMalformedRules, line)
		}
		ord := 0
		if len(line) > 3 && line[3] != "" {
			n, err := strconv.Atoi(line[3])
			if err != nil {
				return nil, fmt.Errorf("%w: policy line %v has invalid ordinal", permission.ErrMalformedRules, line)
			}
			ord = n
		}
		grouped[line[1]] = append(grouped[line[1]], orderedSet{
			ord:   ord,
			names: strings.Split(line[2], conditionSeparator),
		})
	}

	raw := make(permission.RawRules, len(grouped))
	for action, sets := range grouped {
		slices.SortStableFunc(sets, func(a, b orderedSet) int { return a.ord - b.ord })
		out := make([][]string, len(sets))
		for i, set := range sets {
			out[i] = set.names
		}
		raw[action] = out
	}
	return raw, nil
}
