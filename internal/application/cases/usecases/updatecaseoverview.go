package usecases

import (
	"context"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type UpdateCaseOverviewCommand struct {
	CaseID     uint
	AccountSID string
	Update     cases.OverviewUpdate
	UpdatedBy  string
}

type UpdateCaseOverviewUseCase struct {
	caseRepo cases.CaseRepository
	renderer dto.Renderer
	logger   logger.Interface
}

func NewUpdateCaseOverviewUseCase(
	caseRepo cases.CaseRepository,
	renderer dto.Renderer,
	logger logger.Interface,
) *UpdateCaseOverviewUseCase {
	return &UpdateCaseOverviewUseCase{
		caseRepo: caseRepo,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *UpdateCaseOverviewUseCase) Execute(ctx context.Context, cmd UpdateCaseOverviewCommand) (*dto.CaseDTO, error) {
	uc.logger.Infow("executing update case overview use case",
		"case_id", cmd.CaseID,
		"fields", cmd.Update.ChangedFields(),
	)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid update case overview command", "error", err)
		return nil, err
	}

	c, err := loadCase(ctx, uc.caseRepo, cmd.CaseID, cmd.AccountSID)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateOverview(cmd.Update, cmd.UpdatedBy); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.caseRepo.Update(ctx, c, cmd.UpdatedBy); err != nil {
		uc.logger.Errorw("failed to update case", "case_id", cmd.CaseID, "error", err)
		return nil, errors.WrapInternal("failed to update case", err)
	}

	uc.logger.Infow("case overview updated successfully", "case_id", cmd.CaseID)
	return dto.ToCaseDTO(c, uc.renderer), nil
}

func (uc *UpdateCaseOverviewUseCase) validateCommand(cmd UpdateCaseOverviewCommand) error {
	if cmd.CaseID == 0 {
		return errors.NewValidationError("case ID is required")
	}
	if len(cmd.Update.ChangedFields()) == 0 {
		return errors.NewValidationError("no overview fields to update")
	}
	if cmd.UpdatedBy == "" {
		return errors.NewValidationError("updated by worker is required")
	}
	return nil
}
