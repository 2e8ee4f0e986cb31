package history

import (
	"cmp"
	"slices"
	"time"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
)

// ActivityTypeContact tags timeline entries built from connected contacts.
// Section entries are tagged with their section type.
const ActivityTypeContact = "contact"

// TimelineEntry is one item of a case timeline. Exactly one of Section,
// Contact and Activity is set.
type TimelineEntry struct {
	CaseID       uint
	ActivityType string
	Timestamp    time.Time
	Section      *cases.CaseSection
	Contact      *contact.Summary
	Activity     *Activity
}

func SectionEntry(s *cases.CaseSection) TimelineEntry {
	return TimelineEntry{
		CaseID:       s.CaseID(),
		ActivityType: s.SectionType(),
		Timestamp:    s.EventTimestamp(),
		Section:      s,
	}
}

func ContactEntry(caseID uint, c *contact.Summary) TimelineEntry {
	return TimelineEntry{
		CaseID:       caseID,
		ActivityType: ActivityTypeContact,
		Timestamp:    c.TimeOfContact,
		Contact:      c,
	}
}

func ActivityEntry(caseID uint, a *Activity) TimelineEntry {
	return TimelineEntry{
		CaseID:       caseID,
		ActivityType: a.Type.String(),
		Timestamp:    a.Date,
		Activity:     a,
	}
}

// ContactTarget returns the contact the entry reveals, either directly or
// through a connectContact activity.
func (e TimelineEntry) ContactTarget() *contact.Summary {
	if e.Contact != nil {
		return e.Contact
	}
	if e.Activity != nil {
		if c, ok := e.Activity.Contact(); ok {
			return c
		}
	}
	return nil
}

// RedactContact returns a copy of e whose contact is redacted. The activity is
// copied before redaction so other holders of it are unaffected.
func (e TimelineEntry) RedactContact() TimelineEntry {
	if e.Contact != nil {
		e.Contact = e.Contact.Redact()
	}
	if e.Activity != nil {
		a := *e.Activity
		a.RedactContact()
		e.Activity = &a
	}
	return e
}

// Page is a limit/offset window over a merged timeline.
type Page struct {
	Limit  int
	Offset int
}

// Window is the number of newest entries each source must supply for the
// page to be exact after merging.
func (p Page) Window() int {
	return p.Offset + p.Limit
}

// TimelinePage is one page of a timeline plus the total number of entries.
type TimelinePage struct {
	Entries []TimelineEntry
	Count   int
}

// SortTimeline orders entries newest first. Equal timestamps put sections
// before contacts before legacy activities, then order by case and identity,
// so the order never depends on which source answered first.
func SortTimeline(entries []TimelineEntry) {
	slices.SortStableFunc(entries, func(a, b TimelineEntry) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		if c := cmp.Compare(a.rank(), b.rank()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.CaseID, b.CaseID); c != 0 {
			return c
		}
		return a.compareIdentity(b)
	})
}

func (e TimelineEntry) rank() int {
	switch {
	case e.Section != nil:
		return 0
	case e.Contact != nil:
		return 1
	default:
		return 2
	}
}

func (e TimelineEntry) compareIdentity(o TimelineEntry) int {
	switch {
	case e.Section != nil && o.Section != nil:
		if c := cmp.Compare(e.Section.SectionType(), o.Section.SectionType()); c != 0 {
			return c
		}
		return cmp.Compare(e.Section.SectionID(), o.Section.SectionID())
	case e.Contact != nil && o.Contact != nil:
		return cmp.Compare(o.Contact.ID, e.Contact.ID)
	case e.Activity != nil && o.Activity != nil:
		return cmp.Compare(o.Activity.Sequence, e.Activity.Sequence)
	}
	return 0
}

// Paginate returns the page of an already sorted timeline.
func Paginate(entries []TimelineEntry, page Page) []TimelineEntry {
	if page.Offset < 0 || page.Limit <= 0 || page.Offset >= len(entries) {
		return []TimelineEntry{}
	}
	end := min(page.Offset+page.Limit, len(entries))
	return slices.Clone(entries[page.Offset:end])
}
