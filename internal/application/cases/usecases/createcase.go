package usecases

import (
	"context"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type CreateCaseCommand struct {
	AccountSID     string
	TwilioWorkerID string
	CreatedBy      string
	Summary        string
	ChildIsAtRisk  bool
}

type CreateCaseUseCase struct {
	caseRepo cases.CaseRepository
	renderer dto.Renderer
	logger   logger.Interface
}

func NewCreateCaseUseCase(
	caseRepo cases.CaseRepository,
	renderer dto.Renderer,
	logger logger.Interface,
) *CreateCaseUseCase {
	return &CreateCaseUseCase{
		caseRepo: caseRepo,
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *CreateCaseUseCase) Execute(ctx context.Context, cmd CreateCaseCommand) (*dto.CaseDTO, error) {
	uc.logger.Infow("executing create case use case", "account_sid", cmd.AccountSID, "created_by", cmd.CreatedBy)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid create case command", "error", err)
		return nil, err
	}

	c, err := cases.NewCase(cmd.AccountSID, cmd.TwilioWorkerID, cmd.CreatedBy, cases.CaseInfo{
		Summary:       cmd.Summary,
		ChildIsAtRisk: cmd.ChildIsAtRisk,
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.caseRepo.Create(ctx, c); err != nil {
		uc.logger.Errorw("failed to create case", "error", err)
		return nil, errors.WrapInternal("failed to create case", err)
	}

	uc.logger.Infow("case created successfully", "case_id", c.ID(), "account_sid", c.AccountSID())
	return dto.ToCaseDTO(c, uc.renderer), nil
}

func (uc *CreateCaseUseCase) validateCommand(cmd CreateCaseCommand) error {
	if cmd.AccountSID == "" {
		return errors.NewValidationError("account SID is required")
	}
	if cmd.CreatedBy == "" {
		return errors.NewValidationError("creator is required")
	}
	return nil
}
