package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/biztime"
)

func ContactToDomain(model *models.ContactModel) (*contact.Summary, error) {
	var raw map[string]any
	if isJSONValue(model.RawJSON) {
		if err := json.Unmarshal(model.RawJSON, &raw); err != nil {
			return nil, fmt.Errorf("failed to unmarshal contact raw json (id=%d): %w", model.ID, err)
		}
	}

	return &contact.Summary{
		ID:                     model.ID,
		AccountSID:             model.AccountSID,
		CaseID:                 model.CaseID,
		TwilioWorkerID:         model.TwilioWorkerID,
		Creator:                model.CreatedBy,
		Channel:                model.Channel,
		ContactlessTaskChannel: model.ContactlessTaskChannel,
		TimeOfContact:          biztime.FromMillis(model.TimeOfContact),
		CallType:               model.CallType,
		TaskID:                 model.TaskID,
		ConversationDuration:   model.ConversationDuration,
		RawJSON:                raw,
	}, nil
}

func ContactToModel(s *contact.Summary) (*models.ContactModel, error) {
	model := &models.ContactModel{
		ID:                     s.ID,
		AccountSID:             s.AccountSID,
		CaseID:                 s.CaseID,
		TwilioWorkerID:         s.TwilioWorkerID,
		CreatedBy:              s.Creator,
		Channel:                s.Channel,
		ContactlessTaskChannel: s.ContactlessTaskChannel,
		TimeOfContact:          biztime.ToMillis(s.TimeOfContact),
		CallType:               s.CallType,
		TaskID:                 s.TaskID,
		ConversationDuration:   s.ConversationDuration,
	}
	if s.RawJSON != nil {
		raw, err := json.Marshal(s.RawJSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal contact raw json (id=%d): %w", s.ID, err)
		}
		model.RawJSON = datatypes.JSON(raw)
	}
	return model, nil
}
