package cases

import (
	"slices"
	"time"
)

// CaseSnapshot is a value copy of a case at one point in time.
type CaseSnapshot struct {
	Status         string    `json:"status"`
	TwilioWorkerID string    `json:"twilioWorkerId"`
	Info           CaseInfo  `json:"info"`
	ContactIDs     []uint    `json:"contactIds,omitempty"`
	CreatedBy      string    `json:"createdBy"`
	UpdatedBy      string    `json:"updatedBy,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SameContent reports whether two snapshots describe the same case state,
// ignoring who last touched it and when.
func (s *CaseSnapshot) SameContent(other *CaseSnapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Status == other.Status &&
		s.TwilioWorkerID == other.TwilioWorkerID &&
		s.CreatedBy == other.CreatedBy &&
		s.CreatedAt.Equal(other.CreatedAt) &&
		slices.Equal(s.ContactIDs, other.ContactIDs) &&
		s.Info.Equal(other.Info)
}

func (s CaseSnapshot) clone() CaseSnapshot {
	s.Info = s.Info.Clone()
	s.ContactIDs = slices.Clone(s.ContactIDs)
	return s
}

// AuditRecord is one append-only entry of a case's change log. Previous is
// nil for the record written when the case was created.
type AuditRecord struct {
	ID         uint
	CaseID     uint
	AccountSID string
	Previous   *CaseSnapshot
	New        *CaseSnapshot
	ActorID    string
	CreatedAt  time.Time
}

// NewAuditRecord copies both snapshots so later mutations of the case cannot
// leak into the log.
func NewAuditRecord(caseID uint, accountSID string, previous, next *CaseSnapshot, actorID string, at time.Time) *AuditRecord {
	rec := &AuditRecord{
		CaseID:     caseID,
		AccountSID: accountSID,
		ActorID:    actorID,
		CreatedAt:  at,
	}
	if previous != nil {
		p := previous.clone()
		rec.Previous = &p
	}
	if next != nil {
		n := next.clone()
		rec.New = &n
	}
	return rec
}

// IsCreation reports whether the record captures the case being created.
func (r *AuditRecord) IsCreation() bool {
	return r.Previous == nil && r.New != nil
}

// SortAuditRecords orders records by creation time, then ID.
func SortAuditRecords(records []*AuditRecord) {
	slices.SortStableFunc(records, func(a, b *AuditRecord) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
