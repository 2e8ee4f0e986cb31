package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/casework-hq/casework/internal/domain/permission"
)

func TestSummary_ActivityChannel(t *testing.T) {
	tests := []struct {
		channel     string
		contactless string
		want        string
	}{
		{channel: "voice", want: "voice"},
		{channel: "whatsapp", want: "whatsapp"},
		{channel: "modica", want: "modica"},
		{channel: "default", contactless: "sms", want: "sms"},
		{channel: "default", contactless: "", want: "default"},
		{channel: "default", contactless: "carrierPigeon", want: "default"},
		{channel: "telegram", want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.channel+"/"+tt.contactless, func(t *testing.T) {
			s := &Summary{Channel: tt.channel, ContactlessTaskChannel: tt.contactless}
			assert.Equal(t, tt.want, s.ActivityChannel())
		})
	}
}

func TestSummary_Redact(t *testing.T) {
	at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s := &Summary{
		ID:            5,
		Channel:       "voice",
		TimeOfContact: at,
		CallType:      "Child calling about self",
		TaskID:        "WT123",
		RawJSON:       map[string]any{"childInformation": map[string]any{"firstName": "A"}},
	}

	r := s.Redact()

	assert.True(t, r.Redacted)
	assert.Nil(t, r.RawJSON)
	assert.Empty(t, r.TaskID)
	assert.Empty(t, r.CallType)
	assert.Equal(t, at, r.TimeOfContact)
	assert.Equal(t, uint(5), r.ID)

	assert.False(t, s.Redacted, "original is untouched")
	assert.NotNil(t, s.RawJSON)
}

func TestSummary_Target(t *testing.T) {
	var target permission.Target = &Summary{ID: 12, TwilioWorkerID: "W1"}
	assert.Equal(t, permission.TargetKindContact, target.TargetKind())
	assert.Equal(t, "12", target.TargetID())

	owned, ok := target.(permission.Owned)
	assert.True(t, ok)
	assert.Equal(t, "W1", owned.OwnerID())
}

func TestSummary_Clone(t *testing.T) {
	caseID := uint(3)
	s := &Summary{ID: 1, CaseID: &caseID, RawJSON: map[string]any{"k": "v"}}

	c := s.Clone()
	c.RawJSON["k"] = "changed"
	*c.CaseID = 9

	assert.Equal(t, "v", s.RawJSON["k"])
	assert.Equal(t, uint(3), *s.CaseID)
}
