package permission

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	a, err := ParseAction("closeCase")
	require.NoError(t, err)
	assert.Equal(t, ActionCloseCase, a)
	assert.Equal(t, TargetKindCase, a.Kind())

	a, err = ParseAction("viewContact")
	require.NoError(t, err)
	assert.Equal(t, TargetKindContact, a.Kind())

	_, err = ParseAction("closecase")
	assert.True(t, errors.Is(err, ErrUnknownAction))
	assert.Equal(t, TargetKind(""), Action("closecase").Kind())
}

func TestSectionAction(t *testing.T) {
	tests := []struct {
		sectionType string
		verb        SectionVerb
		want        Action
		wantErr     bool
	}{
		{sectionType: "note", verb: SectionVerbAdd, want: ActionAddNote},
		{sectionType: "note", verb: SectionVerbEdit, want: ActionEditNote},
		{sectionType: "referral", verb: SectionVerbAdd, want: ActionAddReferral},
		{sectionType: "document", verb: SectionVerbEdit, want: ActionEditDocument},
		{sectionType: "spaceship", verb: SectionVerbAdd, wantErr: true},
		{sectionType: "note", verb: SectionVerb("archive"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.sectionType+"/"+string(tt.verb), func(t *testing.T) {
			got, err := SectionAction(tt.sectionType, tt.verb)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUnknownAction))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionsForKind(t *testing.T) {
	for _, a := range ActionsForKind(TargetKindContact) {
		assert.Equal(t, TargetKindContact, a.Kind())
	}
	assert.Contains(t, ActionsForKind(TargetKindCase), ActionViewCase)
	assert.NotContains(t, ActionsForKind(TargetKindCase), ActionViewContact)
}
