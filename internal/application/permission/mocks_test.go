package permission

import (
	"context"
	"sync/atomic"

	"github.com/casework-hq/casework/internal/domain/permission"
)

type mockRuleLoader struct {
	LoadRulesFunc func(ctx context.Context, accountSID string) (permission.RawRules, error)
	calls         atomic.Int32
}

func (m *mockRuleLoader) LoadRules(ctx context.Context, accountSID string) (permission.RawRules, error) {
	m.calls.Add(1)
	if m.LoadRulesFunc != nil {
		return m.LoadRulesFunc(ctx, accountSID)
	}
	return permission.RawRules{}, nil
}

type mockTargetLoader struct {
	GetTargetByIDFunc func(ctx context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error)
}

func (m *mockTargetLoader) GetTargetByID(ctx context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error) {
	if m.GetTargetByIDFunc != nil {
		return m.GetTargetByIDFunc(ctx, kind, id, accountSID)
	}
	return nil, nil
}

type mockChecker struct {
	CanFunc func(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error)
	checked []permission.Action
}

func (m *mockChecker) Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error) {
	m.checked = append(m.checked, action)
	if m.CanFunc != nil {
		return m.CanFunc(ctx, user, action, target)
	}
	return false, nil
}

type mockRuleProvider struct {
	GetFunc func(ctx context.Context, accountSID string) (*permission.RuleSet, error)
}

func (m *mockRuleProvider) Get(ctx context.Context, accountSID string) (*permission.RuleSet, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, accountSID)
	}
	return nil, permission.ErrRulesNotFound
}

type mockRuleWriter struct {
	SaveRulesFunc func(ctx context.Context, accountSID string, raw permission.RawRules) error
}

func (m *mockRuleWriter) SaveRules(ctx context.Context, accountSID string, raw permission.RawRules) error {
	if m.SaveRulesFunc != nil {
		return m.SaveRulesFunc(ctx, accountSID, raw)
	}
	return nil
}

type mockInvalidator struct {
	invalidated []string
}

func (m *mockInvalidator) InvalidateRules(_ context.Context, accountSID string) error {
	m.invalidated = append(m.invalidated, accountSID)
	return nil
}

type stubTarget struct {
	kind   permission.TargetKind
	id     string
	status string
}

func (t *stubTarget) TargetKind() permission.TargetKind { return t.kind }
func (t *stubTarget) TargetID() string                  { return t.id }
func (t *stubTarget) StatusValue() string               { return t.status }
