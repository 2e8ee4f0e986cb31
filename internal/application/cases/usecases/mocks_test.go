package usecases

import (
	"context"

	apphistory "github.com/casework-hq/casework/internal/application/history"
	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type mockCaseRepository struct {
	CreateFunc   func(ctx context.Context, c *cases.Case) error
	UpdateFunc   func(ctx context.Context, c *cases.Case, actorID string) error
	GetByIDFunc  func(ctx context.Context, id uint) (*cases.Case, error)
	GetByIDsFunc func(ctx context.Context, ids []uint) ([]*cases.Case, error)
	updates      int
}

func (m *mockCaseRepository) Create(ctx context.Context, c *cases.Case) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	return c.SetID(1)
}

func (m *mockCaseRepository) Update(ctx context.Context, c *cases.Case, actorID string) error {
	m.updates++
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c, actorID)
	}
	return nil
}

func (m *mockCaseRepository) GetByID(ctx context.Context, id uint) (*cases.Case, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCaseRepository) GetByIDs(ctx context.Context, ids []uint) ([]*cases.Case, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

type mockSectionRepository struct {
	CreateFunc func(ctx context.Context, section *cases.CaseSection) error
	UpdateFunc func(ctx context.Context, section *cases.CaseSection) error
	DeleteFunc func(ctx context.Context, caseID uint, sectionType, sectionID string) error
	GetFunc    func(ctx context.Context, caseID uint, sectionType, sectionID string) (*cases.CaseSection, error)
	ListFunc   func(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error)
}

func (m *mockSectionRepository) Create(ctx context.Context, section *cases.CaseSection) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, section)
	}
	return nil
}

func (m *mockSectionRepository) Update(ctx context.Context, section *cases.CaseSection) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, section)
	}
	return nil
}

func (m *mockSectionRepository) Delete(ctx context.Context, caseID uint, sectionType, sectionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, caseID, sectionType, sectionID)
	}
	return nil
}

func (m *mockSectionRepository) Get(ctx context.Context, caseID uint, sectionType, sectionID string) (*cases.CaseSection, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, caseID, sectionType, sectionID)
	}
	return nil, nil
}

func (m *mockSectionRepository) List(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type mockContactRepository struct {
	GetByIDFunc   func(ctx context.Context, id uint) (*contact.Summary, error)
	SetCaseIDFunc func(ctx context.Context, contactID uint, caseID *uint) error
}

func (m *mockContactRepository) GetByID(ctx context.Context, id uint) (*contact.Summary, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockContactRepository) SetCaseID(ctx context.Context, contactID uint, caseID *uint) error {
	if m.SetCaseIDFunc != nil {
		return m.SetCaseIDFunc(ctx, contactID, caseID)
	}
	return nil
}

type txMarker struct{}

// mockTransactionRunner marks the context so tests can see which calls ran
// inside the transaction.
type mockTransactionRunner struct {
	runs int
}

func (m *mockTransactionRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	return fn(context.WithValue(ctx, txMarker{}, true))
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txMarker{}).(bool)
	return v
}

type mockActivityReader struct {
	ActivitiesFunc func(ctx context.Context, caseID uint) ([]*history.Activity, error)
}

func (m *mockActivityReader) Activities(ctx context.Context, caseID uint) ([]*history.Activity, error) {
	if m.ActivitiesFunc != nil {
		return m.ActivitiesFunc(ctx, caseID)
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

type mockTimeline struct {
	AssembleFunc func(ctx context.Context, q apphistory.TimelineQuery, viewer permission.User) (*history.TimelinePage, error)
}

func (m *mockTimeline) Assemble(ctx context.Context, q apphistory.TimelineQuery, viewer permission.User) (*history.TimelinePage, error) {
	if m.AssembleFunc != nil {
		return m.AssembleFunc(ctx, q, viewer)
	}
	return &history.TimelinePage{}, nil
}

type mockRenderer struct{}

func (mockRenderer) ToHTMLSanitized(markdown string) (string, error) {
	return "<p>" + markdown + "</p>", nil
}

func testLogger() logger.Interface {
	return logger.NewNop()
}
