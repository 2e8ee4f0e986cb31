package history

import (
	"fmt"
	"slices"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
)

const createdText = "Case created"

// ExtractActivity derives at most one activity from an audit record. The first
// matching rule wins: creation, then an added note, an added referral and a
// connected contact. A record matching none of them yields nil.
//
// related must hold every contact the record may connect; a missing one
// returns ErrRelatedContactMissing.
func ExtractActivity(record *cases.AuditRecord, related map[uint]*contact.Summary) (*Activity, error) {
	if record == nil || record.New == nil {
		return nil, nil
	}

	if record.Previous == nil {
		return &Activity{
			Date:    record.CreatedAt,
			Type:    ActivityCreate,
			Text:    createdText,
			ActorID: record.ActorID,
			Payload: record.New,
			AuditID: record.ID,
		}, nil
	}

	prev, next := record.Previous, record.New

	if len(next.Info.Notes) > len(prev.Info.Notes) {
		note := addedElement(prev.Info.Notes, next.Info.Notes, cases.Note.Equal)
		a := &Activity{
			Date:    note.CreatedAt,
			Type:    ActivityNote,
			Text:    note.Text,
			ActorID: note.TwilioWorkerID,
			Payload: note,
			AuditID: record.ID,
		}
		if a.Date.IsZero() {
			a.Date = record.CreatedAt
		}
		if a.ActorID == "" {
			a.ActorID = record.ActorID
		}
		return a, nil
	}

	if len(next.Info.Referrals) > len(prev.Info.Referrals) {
		referral := addedElement(prev.Info.Referrals, next.Info.Referrals, cases.Referral.Equal)
		return &Activity{
			Date:    referral.Date,
			Type:    ActivityReferral,
			Text:    referral.ReferredTo,
			ActorID: record.ActorID,
			Payload: referral,
			AuditID: record.ID,
		}, nil
	}

	if len(next.ContactIDs) > len(prev.ContactIDs) {
		id := addedElement(prev.ContactIDs, next.ContactIDs, func(a, b uint) bool { return a == b })
		c, ok := related[id]
		if !ok || c == nil {
			return nil, fmt.Errorf("%w: contact %d in audit record %d", ErrRelatedContactMissing, id, record.ID)
		}
		return &Activity{
			Date:    c.TimeOfContact,
			Type:    ActivityConnectContact,
			Subtype: c.ActivityChannel(),
			Text:    c.CallType,
			ActorID: c.TwilioWorkerID,
			Payload: c,
			AuditID: record.ID,
		}, nil
	}

	return nil, nil
}

// addedElement picks the element of next that has no equal in prev. When that
// does not single out exactly one element, the last element of next is used.
// next must not be empty.
func addedElement[T any](prev, next []T, equal func(a, b T) bool) T {
	var candidates []T
	for _, n := range next {
		found := slices.ContainsFunc(prev, func(p T) bool { return equal(p, n) })
		if !found {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 1 {
		return candidates[0]
	}
	return next[len(next)-1]
}

// BuildActivities derives the activities of a case's audit log, newest first.
// Activities with the same date keep later records first. Records that cannot
// be derived are skipped and reported in the returned errors.
func BuildActivities(records []*cases.AuditRecord, related map[uint]*contact.Summary) ([]*Activity, []error) {
	ordered := slices.Clone(records)
	ordered = slices.DeleteFunc(ordered, func(r *cases.AuditRecord) bool { return r == nil })
	cases.SortAuditRecords(ordered)

	var (
		activities []*Activity
		skipped    []error
	)
	for seq, record := range ordered {
		a, err := ExtractActivity(record, related)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		if a == nil {
			continue
		}
		a.Sequence = seq
		activities = append(activities, a)
	}

	SortActivities(activities)
	return activities, skipped
}

// SortActivities orders activities by date descending, then by audit
// sequence descending.
func SortActivities(activities []*Activity) {
	slices.SortStableFunc(activities, func(a, b *Activity) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return b.Sequence - a.Sequence
	})
}
