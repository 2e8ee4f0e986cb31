package dto

import (
	"time"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/shared/mapper"
)

// Renderer turns user-entered markdown into safe HTML.
type Renderer interface {
	ToHTMLSanitized(markdown string) (string, error)
}

type CaseDTO struct {
	ID             uint        `json:"id"`
	AccountSID     string      `json:"account_sid"`
	Status         string      `json:"status"`
	TwilioWorkerID string      `json:"twilio_worker_id"`
	CreatedBy      string      `json:"created_by"`
	UpdatedBy      string      `json:"updated_by,omitempty"`
	Info           CaseInfoDTO `json:"info"`
	ContactIDs     []uint      `json:"contact_ids"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

type CaseInfoDTO struct {
	Summary       string        `json:"summary"`
	SummaryHTML   string        `json:"summary_html,omitempty"`
	ChildIsAtRisk bool          `json:"child_is_at_risk"`
	FollowUpDate  *time.Time    `json:"follow_up_date,omitempty"`
	Notes         []NoteDTO     `json:"notes"`
	Referrals     []ReferralDTO `json:"referrals"`
}

type NoteDTO struct {
	Text           string    `json:"text"`
	TextHTML       string    `json:"text_html,omitempty"`
	TwilioWorkerID string    `json:"twilio_worker_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type ReferralDTO struct {
	Date       time.Time `json:"date"`
	ReferredTo string    `json:"referred_to"`
	Comments   string    `json:"comments,omitempty"`
}

type SectionDTO struct {
	CaseID         uint           `json:"case_id"`
	SectionType    string         `json:"section_type"`
	SectionID      string         `json:"section_id"`
	EventTimestamp time.Time      `json:"event_timestamp"`
	CreatedBy      string         `json:"created_by"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedBy      *string        `json:"updated_by,omitempty"`
	UpdatedAt      *time.Time     `json:"updated_at,omitempty"`
	Payload        map[string]any `json:"payload"`
}

type ContactSummaryDTO struct {
	ID                   uint           `json:"id"`
	CaseID               *uint          `json:"case_id,omitempty"`
	TwilioWorkerID       string         `json:"twilio_worker_id"`
	Channel              string         `json:"channel"`
	TimeOfContact        time.Time      `json:"time_of_contact"`
	CallType             string         `json:"call_type,omitempty"`
	TaskID               string         `json:"task_id,omitempty"`
	ConversationDuration int            `json:"conversation_duration"`
	RawJSON              map[string]any `json:"raw_json,omitempty"`
	Redacted             bool           `json:"redacted"`
}

type ActivityDTO struct {
	Date           time.Time `json:"date"`
	Type           string    `json:"type"`
	Subtype        string    `json:"subtype,omitempty"`
	Text           string    `json:"text"`
	TextHTML       string    `json:"text_html,omitempty"`
	TwilioWorkerID string    `json:"twilio_worker_id"`
	AuditID        uint      `json:"audit_id"`
}

type TimelineEntryDTO struct {
	CaseID       uint               `json:"case_id"`
	ActivityType string             `json:"activity_type"`
	Timestamp    time.Time          `json:"timestamp"`
	Section      *SectionDTO        `json:"section,omitempty"`
	Contact      *ContactSummaryDTO `json:"contact,omitempty"`
	Activity     *ActivityDTO       `json:"activity,omitempty"`
}

func ToCaseDTO(c *cases.Case, md Renderer) *CaseDTO {
	if c == nil {
		return nil
	}
	info := c.Info()

	notes := mapper.MapSlice(info.Notes, func(n cases.Note) NoteDTO {
		return NoteDTO{
			Text:           n.Text,
			TextHTML:       render(md, n.Text),
			TwilioWorkerID: n.TwilioWorkerID,
			CreatedAt:      n.CreatedAt,
		}
	})
	referrals := mapper.MapSlice(info.Referrals, func(r cases.Referral) ReferralDTO {
		return ReferralDTO{Date: r.Date, ReferredTo: r.ReferredTo, Comments: r.Comments}
	})
	if notes == nil {
		notes = []NoteDTO{}
	}
	if referrals == nil {
		referrals = []ReferralDTO{}
	}

	return &CaseDTO{
		ID:             c.ID(),
		AccountSID:     c.AccountSID(),
		Status:         c.Status().String(),
		TwilioWorkerID: c.TwilioWorkerID(),
		CreatedBy:      c.CreatedBy(),
		UpdatedBy:      c.UpdatedBy(),
		Info: CaseInfoDTO{
			Summary:       info.Summary,
			SummaryHTML:   render(md, info.Summary),
			ChildIsAtRisk: info.ChildIsAtRisk,
			FollowUpDate:  info.FollowUpDate,
			Notes:         notes,
			Referrals:     referrals,
		},
		ContactIDs: c.ContactIDs(),
		CreatedAt:  c.CreatedAt(),
		UpdatedAt:  c.UpdatedAt(),
	}
}

func ToSectionDTO(s *cases.CaseSection) *SectionDTO {
	if s == nil {
		return nil
	}
	return &SectionDTO{
		CaseID:         s.CaseID(),
		SectionType:    s.SectionType(),
		SectionID:      s.SectionID(),
		EventTimestamp: s.EventTimestamp(),
		CreatedBy:      s.CreatedBy(),
		CreatedAt:      s.CreatedAt(),
		UpdatedBy:      s.UpdatedBy(),
		UpdatedAt:      s.UpdatedAt(),
		Payload:        s.Payload(),
	}
}

func ToContactSummaryDTO(c *contact.Summary) *ContactSummaryDTO {
	if c == nil {
		return nil
	}
	return &ContactSummaryDTO{
		ID:                   c.ID,
		CaseID:               c.CaseID,
		TwilioWorkerID:       c.TwilioWorkerID,
		Channel:              c.Channel,
		TimeOfContact:        c.TimeOfContact,
		CallType:             c.CallType,
		TaskID:               c.TaskID,
		ConversationDuration: c.ConversationDuration,
		RawJSON:              c.RawJSON,
		Redacted:             c.Redacted,
	}
}

func ToActivityDTO(a *history.Activity, md Renderer) *ActivityDTO {
	if a == nil {
		return nil
	}
	out := &ActivityDTO{
		Date:           a.Date,
		Type:           a.Type.String(),
		Subtype:        a.Subtype,
		Text:           a.Text,
		TwilioWorkerID: a.ActorID,
		AuditID:        a.AuditID,
	}
	if a.Type == history.ActivityNote {
		out.TextHTML = render(md, a.Text)
	}
	return out
}

func ToActivityDTOs(activities []*history.Activity, md Renderer) []*ActivityDTO {
	return mapper.MapSlicePtr(activities, func(a *history.Activity) *ActivityDTO {
		return ToActivityDTO(a, md)
	})
}

func ToTimelineEntryDTO(e history.TimelineEntry, md Renderer) TimelineEntryDTO {
	return TimelineEntryDTO{
		CaseID:       e.CaseID,
		ActivityType: e.ActivityType,
		Timestamp:    e.Timestamp,
		Section:      ToSectionDTO(e.Section),
		Contact:      ToContactSummaryDTO(e.Contact),
		Activity:     ToActivityDTO(e.Activity, md),
	}
}

func ToTimelineEntryDTOs(entries []history.TimelineEntry, md Renderer) []TimelineEntryDTO {
	out := mapper.MapSlice(entries, func(e history.TimelineEntry) TimelineEntryDTO {
		return ToTimelineEntryDTO(e, md)
	})
	if out == nil {
		out = []TimelineEntryDTO{}
	}
	return out
}

// render returns "" when md is nil or the text cannot be rendered; callers
// always have the raw text alongside.
func render(md Renderer, text string) string {
	if md == nil || text == "" {
		return ""
	}
	html, err := md.ToHTMLSanitized(text)
	if err != nil {
		return ""
	}
	return html
}
