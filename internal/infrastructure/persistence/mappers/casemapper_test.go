package mappers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/domain/cases"
	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
)

func TestCaseMapper_KeepsInfoAndContacts(t *testing.T) {
	follow := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	info := cases.CaseInfo{
		Summary:      "summary",
		FollowUpDate: &follow,
		Notes:        []cases.Note{{Text: "n", TwilioWorkerID: "WK1", CreatedAt: follow}},
	}
	c, err := cases.ReconstructCase(3, "AC1", vo.StatusInProgress, "WK1", "WK0", "WK1", info, []uint{4, 9}, follow, follow)
	require.NoError(t, err)

	mapper := NewCaseMapper()
	model, err := mapper.ToModel(c)
	require.NoError(t, err)
	assert.Equal(t, "inProgress", model.Status)
	assert.Equal(t, follow.UnixMilli(), model.CreatedAt)

	back, err := mapper.ToDomain(model)
	require.NoError(t, err)
	assert.True(t, c.Snapshot().SameContent(back.Snapshot()))
	assert.Equal(t, []uint{4, 9}, back.ContactIDs())
}

func TestCaseMapper_AuditValues(t *testing.T) {
	mapper := NewCaseMapper()

	rec, err := mapper.AuditToDomain(&models.CaseAuditModel{
		ID:            1,
		CaseID:        3,
		PreviousValue: datatypes.JSON("null"),
		NewValue:      datatypes.JSON(`{"status":"open","info":{"summary":"s","childIsAtRisk":false}}`),
		ActorID:       "WK1",
		CreatedAt:     1700000000000,
	})
	require.NoError(t, err)
	assert.True(t, rec.IsCreation())
	assert.Equal(t, "s", rec.New.Info.Summary)

	_, err = mapper.AuditToDomain(&models.CaseAuditModel{ID: 2, NewValue: datatypes.JSON("{broken")})
	assert.Error(t, err)

	_, err = mapper.AuditToModel(&cases.AuditRecord{CaseID: 3})
	assert.Error(t, err)
}
