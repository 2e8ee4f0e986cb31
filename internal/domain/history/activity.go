// Package history derives case history. Activities come from diffing audit
// snapshot pairs; timeline entries come from typed sections and connected
// contacts. Everything here is pure and safe for concurrent use.
package history

import (
	"errors"
	"time"

	"github.com/casework-hq/casework/internal/domain/contact"
)

type ActivityType string

const (
	ActivityCreate         ActivityType = "create"
	ActivityNote           ActivityType = "note"
	ActivityReferral       ActivityType = "referral"
	ActivityConnectContact ActivityType = "connectContact"
	ActivityUnknown        ActivityType = "unknown"
)

func (t ActivityType) String() string {
	return string(t)
}

// ErrRelatedContactMissing means an audit record connects a contact that was
// not supplied. The record is skipped.
var ErrRelatedContactMissing = errors.New("related contact missing")

// Activity is one displayable event derived from an audit record.
type Activity struct {
	Date    time.Time
	Type    ActivityType
	Subtype string
	Text    string
	ActorID string
	// Payload is the cases.Note, cases.Referral, *contact.Summary or
	// *cases.CaseSnapshot the activity was derived from.
	Payload any
	AuditID uint
	// Sequence is the position of the source record in the case's audit log.
	Sequence int
}

// Contact returns the contact a connectContact activity was derived from.
func (a *Activity) Contact() (*contact.Summary, bool) {
	c, ok := a.Payload.(*contact.Summary)
	return c, ok && c != nil
}

// RedactContact replaces the contact payload with its redacted copy and drops
// the text derived from it. Activities without a contact are left as is.
func (a *Activity) RedactContact() {
	c, ok := a.Contact()
	if !ok {
		return
	}
	a.Payload = c.Redact()
	a.Text = ""
}
