package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/domain/cases"
	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/biztime"
)

// CaseMapper converts between cases and their rows.
type CaseMapper interface {
	ToModel(c *cases.Case) (*models.CaseModel, error)
	ToDomain(model *models.CaseModel) (*cases.Case, error)
	AuditToModel(rec *cases.AuditRecord) (*models.CaseAuditModel, error)
	AuditToDomain(model *models.CaseAuditModel) (*cases.AuditRecord, error)
}

type CaseMapperImpl struct{}

func NewCaseMapper() CaseMapper {
	return &CaseMapperImpl{}
}

func (m *CaseMapperImpl) ToModel(c *cases.Case) (*models.CaseModel, error) {
	info, err := json.Marshal(c.Info())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal case info (id=%d): %w", c.ID(), err)
	}
	contactIDs, err := json.Marshal(c.ContactIDs())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal case contact ids (id=%d): %w", c.ID(), err)
	}

	return &models.CaseModel{
		ID:             c.ID(),
		AccountSID:     c.AccountSID(),
		Status:         c.Status().String(),
		TwilioWorkerID: c.TwilioWorkerID(),
		CreatedBy:      c.CreatedBy(),
		UpdatedBy:      c.UpdatedBy(),
		Info:           datatypes.JSON(info),
		ContactIDs:     datatypes.JSON(contactIDs),
		CreatedAt:      biztime.ToMillis(c.CreatedAt()),
		UpdatedAt:      biztime.ToMillis(c.UpdatedAt()),
	}, nil
}

func (m *CaseMapperImpl) ToDomain(model *models.CaseModel) (*cases.Case, error) {
	var info cases.CaseInfo
	if len(model.Info) > 0 {
		if err := json.Unmarshal(model.Info, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal case info (id=%d): %w", model.ID, err)
		}
	}

	var contactIDs []uint
	if len(model.ContactIDs) > 0 {
		if err := json.Unmarshal(model.ContactIDs, &contactIDs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal case contact ids (id=%d): %w", model.ID, err)
		}
	}

	return cases.ReconstructCase(
		model.ID,
		model.AccountSID,
		vo.CaseStatus(model.Status),
		model.TwilioWorkerID,
		model.CreatedBy,
		model.UpdatedBy,
		info,
		contactIDs,
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
	)
}

func (m *CaseMapperImpl) AuditToModel(rec *cases.AuditRecord) (*models.CaseAuditModel, error) {
	if rec.New == nil {
		return nil, fmt.Errorf("audit record for case %d has no new value", rec.CaseID)
	}

	newValue, err := json.Marshal(rec.New)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit new value (case=%d): %w", rec.CaseID, err)
	}

	model := &models.CaseAuditModel{
		ID:         rec.ID,
		CaseID:     rec.CaseID,
		AccountSID: rec.AccountSID,
		NewValue:   datatypes.JSON(newValue),
		ActorID:    rec.ActorID,
		CreatedAt:  biztime.ToMillis(rec.CreatedAt),
	}

	if rec.Previous != nil {
		prev, err := json.Marshal(rec.Previous)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal audit previous value (case=%d): %w", rec.CaseID, err)
		}
		model.PreviousValue = datatypes.JSON(prev)
	}

	return model, nil
}

// AuditToDomain decodes a change log row. Rows whose values do not decode
// are returned as errors; the history reader decides whether to skip them.
func (m *CaseMapperImpl) AuditToDomain(model *models.CaseAuditModel) (*cases.AuditRecord, error) {
	rec := &cases.AuditRecord{
		ID:         model.ID,
		CaseID:     model.CaseID,
		AccountSID: model.AccountSID,
		ActorID:    model.ActorID,
		CreatedAt:  biztime.FromMillis(model.CreatedAt),
	}

	if isJSONValue(model.PreviousValue) {
		var prev cases.CaseSnapshot
		if err := json.Unmarshal(model.PreviousValue, &prev); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit previous value (id=%d): %w", model.ID, err)
		}
		rec.Previous = &prev
	}
	if isJSONValue(model.NewValue) {
		var next cases.CaseSnapshot
		if err := json.Unmarshal(model.NewValue, &next); err != nil {
			return nil, fmt.Errorf("failed to unmarshal audit new value (id=%d): %w", model.ID, err)
		}
		rec.New = &next
	}

	return rec, nil
}

func isJSONValue(raw datatypes.JSON) bool {
	return len(raw) > 0 && string(raw) != "null"
}
