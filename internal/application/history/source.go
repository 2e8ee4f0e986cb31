package history

import (
	"context"
	"fmt"
	"slices"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// TimelineQuery selects the timeline of one or more cases.
type TimelineQuery struct {
	CaseIDs []uint
	// SectionTypes restricts section entries; empty means every type.
	SectionTypes    []string
	IncludeContacts bool
	Page            history.Page
}

// HistorySource produces timeline entries of one kind. Entries returns at
// most window entries, newest first, plus the total number the source holds
// for the query.
type HistorySource interface {
	Name() string
	Applies(q TimelineQuery) bool
	Entries(ctx context.Context, q TimelineQuery, window int) ([]history.TimelineEntry, int, error)
}

// SectionSource reads typed case sections.
type SectionSource struct {
	sections SectionLister
}

func NewSectionSource(sections SectionLister) *SectionSource {
	return &SectionSource{sections: sections}
}

func (s *SectionSource) Name() string { return "sections" }

func (s *SectionSource) Applies(TimelineQuery) bool { return true }

func (s *SectionSource) Entries(ctx context.Context, q TimelineQuery, window int) ([]history.TimelineEntry, int, error) {
	sections, total, err := s.sections.List(ctx, cases.SectionFilter{
		CaseIDs:      q.CaseIDs,
		SectionTypes: q.SectionTypes,
		Limit:        window,
		Offset:       0,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list sections: %w", err)
	}

	entries := make([]history.TimelineEntry, 0, len(sections))
	for _, section := range sections {
		entries = append(entries, history.SectionEntry(section))
	}
	return entries, int(total), nil
}

// ContactSource reads contacts connected to the cases.
type ContactSource struct {
	contacts ContactLister
}

func NewContactSource(contacts ContactLister) *ContactSource {
	return &ContactSource{contacts: contacts}
}

func (s *ContactSource) Name() string { return "contacts" }

func (s *ContactSource) Applies(q TimelineQuery) bool { return q.IncludeContacts }

func (s *ContactSource) Entries(ctx context.Context, q TimelineQuery, window int) ([]history.TimelineEntry, int, error) {
	summaries, total, err := s.contacts.ListConnected(ctx, contact.ListFilter{
		CaseIDs: q.CaseIDs,
		Limit:   window,
		Offset:  0,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list connected contacts: %w", err)
	}

	entries := make([]history.TimelineEntry, 0, len(summaries))
	for _, c := range summaries {
		var caseID uint
		if c.CaseID != nil {
			caseID = *c.CaseID
		}
		entries = append(entries, history.ContactEntry(caseID, c))
	}
	return entries, int(total), nil
}

// SnapshotSource derives activities from audit snapshot pairs. Records that
// reference contacts which no longer exist are skipped and logged.
type SnapshotSource struct {
	audits   AuditLister
	contacts ContactGetter
	logger   logger.Interface
}

func NewSnapshotSource(audits AuditLister, contacts ContactGetter, logger logger.Interface) *SnapshotSource {
	return &SnapshotSource{
		audits:   audits,
		contacts: contacts,
		logger:   logger,
	}
}

func (s *SnapshotSource) Name() string { return "snapshots" }

func (s *SnapshotSource) Applies(TimelineQuery) bool { return true }

func (s *SnapshotSource) Entries(ctx context.Context, q TimelineQuery, window int) ([]history.TimelineEntry, int, error) {
	var entries []history.TimelineEntry
	for _, caseID := range q.CaseIDs {
		activities, err := s.Activities(ctx, caseID)
		if err != nil {
			return nil, 0, err
		}
		for _, a := range activities {
			entries = append(entries, history.ActivityEntry(caseID, a))
		}
	}

	history.SortTimeline(entries)
	total := len(entries)
	if len(entries) > window {
		entries = entries[:window]
	}
	return entries, total, nil
}

// Activities derives the activities of one case, newest first.
func (s *SnapshotSource) Activities(ctx context.Context, caseID uint) ([]*history.Activity, error) {
	records, err := s.audits.ListByCaseID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("list audit records of case %d: %w", caseID, err)
	}

	related, err := s.relatedContacts(ctx, records)
	if err != nil {
		return nil, err
	}

	activities, skipped := history.BuildActivities(records, related)
	for _, skipErr := range skipped {
		s.logger.Warnw("skipping inconsistent audit record",
			"case_id", caseID,
			"error", skipErr,
		)
	}
	return activities, nil
}

func (s *SnapshotSource) relatedContacts(ctx context.Context, records []*cases.AuditRecord) (map[uint]*contact.Summary, error) {
	var ids []uint
	for _, r := range records {
		if r == nil || r.New == nil {
			continue
		}
		for _, id := range r.New.ContactIDs {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		return map[uint]*contact.Summary{}, nil
	}

	summaries, err := s.contacts.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load related contacts: %w", err)
	}

	related := make(map[uint]*contact.Summary, len(summaries))
	for _, c := range summaries {
		related[c.ID] = c
	}
	return related, nil
}
