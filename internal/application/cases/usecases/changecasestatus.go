package usecases

import (
	"context"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/domain/cases"
	vo "github.com/casework-hq/casework/internal/domain/cases/valueobjects"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type ChangeCaseStatusCommand struct {
	CaseID     uint
	AccountSID string
	NewStatus  vo.CaseStatus
	ChangedBy  string
}

type ChangeCaseStatusResult struct {
	Case      *dto.CaseDTO
	OldStatus string
	NewStatus string
}

type ChangeCaseStatusUseCase struct {
	caseRepo cases.CaseRepository
	renderer dto.Renderer
	logger   logger.Interface
}

func NewChangeCaseStatusUseCase(
	caseRepo cases.CaseRepository,
	renderer dto.Renderer,
	logger logger.Interface,
) *ChangeCaseStatusUseCase {
	return &ChangeCaseStatusUseCase{
		caseRepo: caseRepo,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *ChangeCaseStatusUseCase) Execute(ctx context.Context, cmd ChangeCaseStatusCommand) (*ChangeCaseStatusResult, error) {
	uc.logger.Infow("executing change case status use case", "case_id", cmd.CaseID, "new_status", cmd.NewStatus)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid change case status command", "error", err)
		return nil, err
	}

	c, err := loadCase(ctx, uc.caseRepo, cmd.CaseID, cmd.AccountSID)
	if err != nil {
		return nil, err
	}

	oldStatus := c.Status()
	if err := c.ChangeStatus(cmd.NewStatus, cmd.ChangedBy); err != nil {
		uc.logger.Warnw("rejected case status change", "case_id", cmd.CaseID, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.caseRepo.Update(ctx, c, cmd.ChangedBy); err != nil {
		uc.logger.Errorw("failed to update case", "case_id", cmd.CaseID, "error", err)
		return nil, errors.WrapInternal("failed to update case", err)
	}

	uc.logger.Infow("case status changed successfully",
		"case_id", cmd.CaseID,
		"old_status", oldStatus,
		"new_status", c.Status(),
	)

	return &ChangeCaseStatusResult{
		Case:      dto.ToCaseDTO(c, uc.renderer),
		OldStatus: oldStatus.String(),
		NewStatus: c.Status().String(),
	}, nil
}

func (uc *ChangeCaseStatusUseCase) validateCommand(cmd ChangeCaseStatusCommand) error {
	if cmd.CaseID == 0 {
		return errors.NewValidationError("case ID is required")
	}
	if !cmd.NewStatus.IsValid() {
		return errors.NewValidationError("invalid status")
	}
	if cmd.ChangedBy == "" {
		return errors.NewValidationError("changed by worker is required")
	}
	return nil
}
