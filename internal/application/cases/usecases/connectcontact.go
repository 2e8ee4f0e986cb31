package usecases

import (
	"context"
	"fmt"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type ConnectContactCommand struct {
	CaseID      uint
	AccountSID  string
	ContactID   uint
	ConnectedBy string
}

type ConnectContactUseCase struct {
	caseRepo    cases.CaseRepository
	contactRepo ContactRepository
	tx          TransactionRunner
	renderer    dto.Renderer
	logger      logger.Interface
}

func NewConnectContactUseCase(
	caseRepo cases.CaseRepository,
	contactRepo ContactRepository,
	tx TransactionRunner,
	renderer dto.Renderer,
	logger logger.Interface,
) *ConnectContactUseCase {
	return &ConnectContactUseCase{
		caseRepo:    caseRepo,
		contactRepo: contactRepo,
		tx:          tx,
		renderer:    renderer,
		logger:      logger,
	}
}

func (uc *ConnectContactUseCase) Execute(ctx context.Context, cmd ConnectContactCommand) (*dto.CaseDTO, error) {
	uc.logger.Infow("executing connect contact use case", "case_id", cmd.CaseID, "contact_id", cmd.ContactID)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid connect contact command", "error", err)
		return nil, err
	}

	c, err := loadCase(ctx, uc.caseRepo, cmd.CaseID, cmd.AccountSID)
	if err != nil {
		return nil, err
	}

	ct, err := uc.contactRepo.GetByID(ctx, cmd.ContactID)
	if err != nil {
		return nil, errors.WrapInternal("failed to get contact", err)
	}
	if ct == nil || ct.AccountSID != cmd.AccountSID {
		return nil, errors.NewNotFoundError(fmt.Sprintf("contact %d not found", cmd.ContactID))
	}
	if ct.CaseID != nil && *ct.CaseID != cmd.CaseID {
		return nil, errors.NewConflictError("contact is connected to another case")
	}

	if err := c.ConnectContact(cmd.ContactID, cmd.ConnectedBy); err != nil {
		return nil, errors.NewConflictError(err.Error())
	}

	caseID := c.ID()
	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.contactRepo.SetCaseID(txCtx, cmd.ContactID, &caseID); err != nil {
			return err
		}
		return uc.caseRepo.Update(txCtx, c, cmd.ConnectedBy)
	})
	if errors.IsConflictError(err) {
		uc.logger.Warnw("contact was connected concurrently", "case_id", cmd.CaseID, "contact_id", cmd.ContactID, "error", err)
		return nil, err
	}
	if err != nil {
		uc.logger.Errorw("failed to connect contact", "case_id", cmd.CaseID, "contact_id", cmd.ContactID, "error", err)
		return nil, errors.WrapInternal("failed to connect contact", err)
	}

	uc.logger.Infow("contact connected successfully", "case_id", cmd.CaseID, "contact_id", cmd.ContactID)
	return dto.ToCaseDTO(c, uc.renderer), nil
}

func (uc *ConnectContactUseCase) validateCommand(cmd ConnectContactCommand) error {
	if cmd.CaseID == 0 {
		return errors.NewValidationError("case ID is required")
	}
	if cmd.ContactID == 0 {
		return errors.NewValidationError("contact ID is required")
	}
	if cmd.ConnectedBy == "" {
		return errors.NewValidationError("connected by worker is required")
	}
	return nil
}
