// Package contact holds the read model of helpline contacts as seen from a
// case: a summary carrying enough to order, display and authorize it.
package contact

import (
	"context"
	"maps"
	"strconv"
	"time"

	"github.com/casework-hq/casework/internal/domain/permission"
)

// Channel values as recorded on contacts.
const (
	ChannelVoice     = "voice"
	ChannelWhatsApp  = "whatsapp"
	ChannelWeb       = "web"
	ChannelSMS       = "sms"
	ChannelFacebook  = "facebook"
	ChannelTwitter   = "twitter"
	ChannelInstagram = "instagram"
	ChannelLine      = "line"
	ChannelModica    = "modica"
	ChannelDefault   = "default"
)

var activityChannels = map[string]bool{
	ChannelVoice:     true,
	ChannelWhatsApp:  true,
	ChannelWeb:       true,
	ChannelSMS:       true,
	ChannelFacebook:  true,
	ChannelTwitter:   true,
	ChannelInstagram: true,
	ChannelLine:      true,
	ChannelModica:    true,
}

// Summary is a contact connected to a case.
type Summary struct {
	ID                     uint
	AccountSID             string
	CaseID                 *uint
	TwilioWorkerID         string
	Creator                string
	Channel                string
	ContactlessTaskChannel string
	TimeOfContact          time.Time
	CallType               string
	TaskID                 string
	ConversationDuration   int
	RawJSON                map[string]any
	Redacted               bool
}

func (s *Summary) TargetKind() permission.TargetKind {
	return permission.TargetKindContact
}

func (s *Summary) TargetID() string {
	return strconv.FormatUint(uint64(s.ID), 10)
}

func (s *Summary) CreatorID() string {
	return s.Creator
}

// OwnerID is the worker who handled the contact.
func (s *Summary) OwnerID() string {
	return s.TwilioWorkerID
}

// CreatedAt is the time of contact; time-based conditions measure from it.
func (s *Summary) CreatedAt() time.Time {
	return s.TimeOfContact
}

// ActivityChannel maps the recorded channel to the channel shown in case
// history. "default" contacts were logged offline and carry their real
// channel in ContactlessTaskChannel. Unrecognised channels map to "default".
func (s *Summary) ActivityChannel() string {
	if s.Channel == ChannelDefault {
		if activityChannels[s.ContactlessTaskChannel] {
			return s.ContactlessTaskChannel
		}
		return ChannelDefault
	}
	if activityChannels[s.Channel] {
		return s.Channel
	}
	return ChannelDefault
}

// Redact returns a copy without identifying payload. Ordering and display
// fields are kept so the entry still has its place in a timeline.
func (s *Summary) Redact() *Summary {
	out := *s
	out.RawJSON = nil
	out.TaskID = ""
	out.CallType = ""
	out.Redacted = true
	return &out
}

// Clone returns a copy that shares no maps with s.
func (s *Summary) Clone() *Summary {
	out := *s
	out.RawJSON = maps.Clone(s.RawJSON)
	if s.CaseID != nil {
		id := *s.CaseID
		out.CaseID = &id
	}
	return &out
}

// ListFilter selects contacts connected to any of CaseIDs, newest first.
type ListFilter struct {
	CaseIDs []uint
	Limit   int
	Offset  int
}

// Repository reads contact summaries. GetByID returns (nil, nil) for an
// unknown id.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Summary, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Summary, error)
	ListConnected(ctx context.Context, filter ListFilter) ([]*Summary, int64, error)
	// SetCaseID connects a contact to a case, or disconnects it when caseID
	// is nil.
	SetCaseID(ctx context.Context, contactID uint, caseID *uint) error
}
