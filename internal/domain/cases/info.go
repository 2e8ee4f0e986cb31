package cases

import (
	"maps"
	"slices"
	"time"
)

// Note is a free-text entry on a case.
type Note struct {
	Text           string    `json:"text"`
	TwilioWorkerID string    `json:"twilioWorkerId"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Equal compares notes by value.
func (n Note) Equal(other Note) bool {
	return n.Text == other.Text &&
		n.TwilioWorkerID == other.TwilioWorkerID &&
		n.CreatedAt.Equal(other.CreatedAt)
}

// Referral records a referral to an outside service.
type Referral struct {
	Date       time.Time `json:"date"`
	ReferredTo string    `json:"referredTo"`
	Comments   string    `json:"comments"`
}

// Equal compares referrals by their date, destination and comments.
func (r Referral) Equal(other Referral) bool {
	return r.Date.Equal(other.Date) &&
		r.ReferredTo == other.ReferredTo &&
		r.Comments == other.Comments
}

// CaseInfo is the free-form document carried by a case.
type CaseInfo struct {
	Notes         []Note         `json:"notes,omitempty"`
	Referrals     []Referral     `json:"referrals,omitempty"`
	Summary       string         `json:"summary,omitempty"`
	ChildIsAtRisk bool           `json:"childIsAtRisk"`
	FollowUpDate  *time.Time     `json:"followUpDate,omitempty"`
	Extra         map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy that shares no slices or maps with i. Values inside
// Extra are copied shallowly.
func (i CaseInfo) Clone() CaseInfo {
	out := CaseInfo{
		Notes:         slices.Clone(i.Notes),
		Referrals:     slices.Clone(i.Referrals),
		Summary:       i.Summary,
		ChildIsAtRisk: i.ChildIsAtRisk,
		Extra:         maps.Clone(i.Extra),
	}
	if i.FollowUpDate != nil {
		d := *i.FollowUpDate
		out.FollowUpDate = &d
	}
	return out
}

// Equal compares two info documents field by field. Extra is compared by key
// set and shallow value equality of comparable values.
func (i CaseInfo) Equal(other CaseInfo) bool {
	if i.Summary != other.Summary || i.ChildIsAtRisk != other.ChildIsAtRisk {
		return false
	}
	if !timePtrEqual(i.FollowUpDate, other.FollowUpDate) {
		return false
	}
	if !slices.EqualFunc(i.Notes, other.Notes, Note.Equal) {
		return false
	}
	if !slices.EqualFunc(i.Referrals, other.Referrals, Referral.Equal) {
		return false
	}
	if len(i.Extra) != len(other.Extra) {
		return false
	}
	for k, v := range i.Extra {
		ov, ok := other.Extra[k]
		if !ok || !shallowEqual(v, ov) {
			return false
		}
	}
	return true
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func shallowEqual(a, b any) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}
