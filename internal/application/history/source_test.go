package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/logger"
)

func TestSectionSource_PassesWindowAndFilter(t *testing.T) {
	var got cases.SectionFilter
	lister := &mockSectionLister{
		ListFunc: func(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error) {
			got = filter
			return nil, 42, nil
		},
	}

	_, total, err := NewSectionSource(lister).Entries(context.Background(), TimelineQuery{
		CaseIDs:      []uint{1, 2},
		SectionTypes: []string{"note"},
	}, 15)
	require.NoError(t, err)

	assert.Equal(t, 42, total)
	assert.Equal(t, cases.SectionFilter{CaseIDs: []uint{1, 2}, SectionTypes: []string{"note"}, Limit: 15}, got)
}

func TestContactSource_Applies(t *testing.T) {
	src := NewContactSource(&mockContactLister{})
	assert.True(t, src.Applies(TimelineQuery{IncludeContacts: true}))
	assert.False(t, src.Applies(TimelineQuery{}))
}

func snap(contactIDs []uint, noteTexts ...string) *cases.CaseSnapshot {
	s := &cases.CaseSnapshot{Status: "open", ContactIDs: contactIDs}
	for _, text := range noteTexts {
		s.Info.Notes = append(s.Info.Notes, cases.Note{Text: text, TwilioWorkerID: "W1"})
	}
	return s
}

func TestSnapshotSource(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	records := []*cases.AuditRecord{
		{ID: 1, CaseID: 1, New: snap(nil), ActorID: "W1", CreatedAt: base},
		{ID: 2, CaseID: 1, Previous: snap(nil), New: snap(nil, "first"), ActorID: "W1", CreatedAt: base.Add(time.Hour)},
		{ID: 3, CaseID: 1, Previous: snap(nil, "first"), New: snap([]uint{77}, "first"), ActorID: "W1", CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, CaseID: 1, Previous: snap([]uint{77}, "first"), New: snap([]uint{77, 78}, "first"), ActorID: "W1", CreatedAt: base.Add(3 * time.Hour)},
	}
	var requested []uint
	src := NewSnapshotSource(
		&mockAuditLister{ListByCaseIDFunc: func(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error) {
			return records, nil
		}},
		&mockContactGetter{GetByIDsFunc: func(ctx context.Context, ids []uint) ([]*contact.Summary, error) {
			requested = ids
			// Contact 78 was deleted.
			return []*contact.Summary{{ID: 77, Channel: "sms", TimeOfContact: base.Add(90 * time.Minute)}}, nil
		}},
		logger.NewNop(),
	)

	entries, total, err := src.Entries(context.Background(), TimelineQuery{CaseIDs: []uint{1}}, 10)
	require.NoError(t, err)

	assert.ElementsMatch(t, []uint{77, 78}, requested)
	assert.Equal(t, 3, total)
	require.Len(t, entries, 3)
	assert.Equal(t, "connectContact", entries[0].ActivityType)
	assert.Equal(t, "sms", entries[0].Activity.Subtype)
	assert.Equal(t, "create", entries[2].ActivityType)

	limited, total, err := src.Entries(context.Background(), TimelineQuery{CaseIDs: []uint{1}}, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, limited, 1)
	assert.Equal(t, entries[0], limited[0])
}

func TestAssembler_WithSnapshotSource(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	audits := &mockAuditLister{ListByCaseIDFunc: func(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error) {
		return []*cases.AuditRecord{{ID: caseID, CaseID: caseID, New: snap(nil), ActorID: "W1", CreatedAt: base.Add(time.Duration(caseID) * time.Hour)}}, nil
	}}
	a := NewAssembler(allowContacts(true), logger.NewNop(), NewSnapshotSource(audits, &mockContactGetter{}, logger.NewNop()))

	page, err := a.Assemble(context.Background(), TimelineQuery{CaseIDs: []uint{1, 2}, Page: history.Page{Limit: 10}}, viewer)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, uint(2), page.Entries[0].CaseID)
	assert.Equal(t, uint(1), page.Entries[1].CaseID)
}

func TestAssembler_RedactsConnectedContactActivities(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	audits := &mockAuditLister{ListByCaseIDFunc: func(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error) {
		return []*cases.AuditRecord{
			{ID: 1, CaseID: 1, New: snap(nil), ActorID: "W1", CreatedAt: base},
			{ID: 2, CaseID: 1, Previous: snap(nil), New: snap([]uint{77}), ActorID: "W1", CreatedAt: base.Add(time.Hour)},
		}, nil
	}}
	stored := &contact.Summary{
		ID:            77,
		Channel:       "voice",
		CallType:      "Child calling about self",
		TaskID:        "WT77",
		RawJSON:       map[string]any{"childInformation": map[string]any{"firstName": "A"}},
		TimeOfContact: base.Add(30 * time.Minute),
	}
	contacts := &mockContactGetter{GetByIDsFunc: func(ctx context.Context, ids []uint) ([]*contact.Summary, error) {
		return []*contact.Summary{stored}, nil
	}}

	var checked []string
	checker := &mockChecker{CanFunc: func(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error) {
		checked = append(checked, target.TargetID())
		return false, nil
	}}
	a := NewAssembler(checker, logger.NewNop(), NewSnapshotSource(audits, contacts, logger.NewNop()))

	page, err := a.Assemble(context.Background(), TimelineQuery{CaseIDs: []uint{1}, Page: history.Page{Limit: 10}}, viewer)
	require.NoError(t, err)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, []string{"77"}, checked)

	connect := page.Entries[0].Activity
	require.NotNil(t, connect)
	assert.Equal(t, history.ActivityConnectContact, connect.Type)
	assert.Empty(t, connect.Text)
	assert.Equal(t, "voice", connect.Subtype)

	c, ok := connect.Payload.(*contact.Summary)
	require.True(t, ok)
	assert.True(t, c.Redacted)
	assert.Empty(t, c.TaskID)
	assert.Empty(t, c.CallType)
	assert.Nil(t, c.RawJSON)

	assert.Equal(t, "Case created", page.Entries[1].Activity.Text)
	assert.False(t, stored.Redacted)
	assert.Equal(t, "WT77", stored.TaskID)
}
