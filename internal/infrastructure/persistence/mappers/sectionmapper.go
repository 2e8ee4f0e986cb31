package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/biztime"
)

func SectionToModel(s *cases.CaseSection) (*models.CaseSectionModel, error) {
	payload, err := json.Marshal(s.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal section payload (%s/%s): %w", s.SectionType(), s.SectionID(), err)
	}

	return &models.CaseSectionModel{
		CaseID:                  s.CaseID(),
		SectionType:             s.SectionType(),
		SectionID:               s.SectionID(),
		AccountSID:              s.AccountSID(),
		EventTimestamp:          biztime.ToMillis(s.EventTimestamp()),
		SectionTypeSpecificData: datatypes.JSON(payload),
		CreatedBy:               s.CreatedBy(),
		CreatedAt:               biztime.ToMillis(s.CreatedAt()),
		UpdatedBy:               s.UpdatedBy(),
		UpdatedAt:               biztime.ToMillisPtr(s.UpdatedAt()),
	}, nil
}

func SectionToDomain(model *models.CaseSectionModel) (*cases.CaseSection, error) {
	var payload map[string]any
	if isJSONValue(model.SectionTypeSpecificData) {
		if err := json.Unmarshal(model.SectionTypeSpecificData, &payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal section payload (%s/%s): %w", model.SectionType, model.SectionID, err)
		}
	}

	return cases.ReconstructCaseSection(
		model.CaseID,
		model.AccountSID,
		model.SectionType,
		model.SectionID,
		biztime.FromMillis(model.EventTimestamp),
		model.CreatedBy,
		biztime.FromMillis(model.CreatedAt),
		model.UpdatedBy,
		biztime.FromMillisPtr(model.UpdatedAt),
		payload,
	)
}
