package history

import (
	"context"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/permission"
)

type mockSectionLister struct {
	ListFunc func(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error)
}

func (m *mockSectionLister) List(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockContactLister struct {
	ListConnectedFunc func(ctx context.Context, filter contact.ListFilter) ([]*contact.Summary, int64, error)
}

func (m *mockContactLister) ListConnected(ctx context.Context, filter contact.ListFilter) ([]*contact.Summary, int64, error) {
	if m.ListConnectedFunc != nil {
		return m.ListConnectedFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockAuditLister struct {
	ListByCaseIDFunc func(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error)
}

func (m *mockAuditLister) ListByCaseID(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error) {
	if m.ListByCaseIDFunc != nil {
		return m.ListByCaseIDFunc(ctx, caseID)
	}
	return nil, nil
}

type mockContactGetter struct {
	GetByIDsFunc func(ctx context.Context, ids []uint) ([]*contact.Summary, error)
}

func (m *mockContactGetter) GetByIDs(ctx context.Context, ids []uint) ([]*contact.Summary, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type mockChecker struct {
	CanFunc func(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error)
}

func (m *mockChecker) Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error) {
	if m.CanFunc != nil {
		return m.CanFunc(ctx, user, action, target)
	}
	return false, nil
}
