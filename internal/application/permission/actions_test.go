package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/authorization"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

func requestWith(params map[string]string, payload map[string]any) *authorization.Request {
	return authorization.NewRequest(permission.NewUser("AC1", "W1", nil, false), "PATCH", "/cases/1", params, payload)
}

func TestCaseStatusActions(t *testing.T) {
	tests := []struct {
		name    string
		current string
		next    string
		want    permission.Action
	}{
		{name: "close open case", current: "open", next: "closed", want: permission.ActionCloseCase},
		{name: "close in progress case", current: "inProgress", next: "closed", want: permission.ActionCloseCase},
		{name: "reopen closed case", current: "closed", next: "open", want: permission.ActionReopenCase},
		{name: "closed to in progress", current: "closed", next: "inProgress", want: permission.ActionReopenCase},
		{name: "open to in progress", current: "open", next: "inProgress", want: permission.ActionCaseStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &stubTarget{kind: permission.TargetKindCase, id: "1", status: tt.current}
			actions, err := CaseStatusActions(requestWith(nil, map[string]any{"status": tt.next}), target)
			require.NoError(t, err)
			assert.Equal(t, []permission.Action{tt.want}, actions)
		})
	}

	_, err := CaseStatusActions(requestWith(nil, map[string]any{}), &stubTarget{kind: permission.TargetKindCase})
	assert.True(t, apperrors.IsValidationError(err))
}

func TestCaseOverviewActions(t *testing.T) {
	actions, err := CaseOverviewActions(requestWith(nil, map[string]any{
		"summary":       "s",
		"followUpDate":  "2024-01-01T00:00:00Z",
		"childIsAtRisk": true,
	}), nil)
	require.NoError(t, err)
	assert.Equal(t, []permission.Action{
		permission.ActionEditCaseOverview,
		permission.ActionEditChildIsAtRisk,
		permission.ActionEditFollowUpDate,
	}, actions)

	actions, err = CaseOverviewActions(requestWith(nil, map[string]any{"priority": "high", "summary": "x"}), nil)
	require.NoError(t, err)
	assert.Equal(t, []permission.Action{permission.ActionEditCaseOverview}, actions)

	actions, err = CaseOverviewActions(requestWith(nil, nil), nil)
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestSectionActions(t *testing.T) {
	actions, err := SectionActions(permission.SectionVerbAdd)(requestWith(map[string]string{"sectionType": "referral"}, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []permission.Action{permission.ActionAddReferral}, actions)

	actions, err = SectionActions(permission.SectionVerbEdit)(requestWith(map[string]string{"sectionType": "note"}, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []permission.Action{permission.ActionEditNote}, actions)

	_, err = SectionActions(permission.SectionVerbAdd)(requestWith(map[string]string{"sectionType": "horoscope"}, nil), nil)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestStaticAction(t *testing.T) {
	actions, err := StaticAction(permission.ActionViewCase)(requestWith(nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, []permission.Action{permission.ActionViewCase}, actions)
}
