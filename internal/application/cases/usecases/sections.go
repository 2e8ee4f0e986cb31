package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/casework-hq/casework/internal/application/cases/dto"
	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/id"
	"github.com/casework-hq/casework/internal/shared/logger"
)

type AddCaseSectionCommand struct {
	CaseID         uint
	AccountSID     string
	SectionType    string
	SectionID      string
	EventTimestamp time.Time
	Payload        map[string]any
	CreatedBy      string
}

// AddCaseSectionUseCase stores a new case section. With legacy mirroring on,
// note and referral sections are also appended to the case document so that
// snapshot-derived history sees them.
type AddCaseSectionUseCase struct {
	caseRepo     cases.CaseRepository
	sectionRepo  cases.SectionRepository
	tx           TransactionRunner
	mirrorLegacy bool
	logger       logger.Interface
}

func NewAddCaseSectionUseCase(
	caseRepo cases.CaseRepository,
	sectionRepo cases.SectionRepository,
	tx TransactionRunner,
	mirrorLegacy bool,
	logger logger.Interface,
) *AddCaseSectionUseCase {
	return &AddCaseSectionUseCase{
		caseRepo:     caseRepo,
		sectionRepo:  sectionRepo,
		tx:           tx,
		mirrorLegacy: mirrorLegacy,
		logger:       logger,
	}
}

func (uc *AddCaseSectionUseCase) Execute(ctx context.Context, cmd AddCaseSectionCommand) (*dto.SectionDTO, error) {
	uc.logger.Infow("executing add case section use case",
		"case_id", cmd.CaseID,
		"section_type", cmd.SectionType,
	)

	if err := uc.validateCommand(cmd); err != nil {
		uc.logger.Errorw("invalid add case section command", "error", err)
		return nil, err
	}

	c, err := loadCase(ctx, uc.caseRepo, cmd.CaseID, cmd.AccountSID)
	if err != nil {
		return nil, err
	}

	sectionID := cmd.SectionID
	if sectionID == "" {
		sectionID = id.NewSectionID()
	}

	section, err := cases.NewCaseSection(c.ID(), c.AccountSID(), cmd.SectionType, sectionID, cmd.EventTimestamp, cmd.CreatedBy, cmd.Payload)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	mirrored := uc.mirrorLegacy && mirrorSection(c, section, cmd.CreatedBy)

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.sectionRepo.Create(txCtx, section); err != nil {
			return err
		}
		if mirrored {
			return uc.caseRepo.Update(txCtx, c, cmd.CreatedBy)
		}
		return nil
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("case section already exists", sectionID)
		}
		uc.logger.Errorw("failed to create case section", "case_id", cmd.CaseID, "error", err)
		return nil, errors.WrapInternal("failed to create case section", err)
	}

	uc.logger.Infow("case section created successfully",
		"case_id", cmd.CaseID,
		"section_type", cmd.SectionType,
		"section_id", sectionID,
		"mirrored", mirrored,
	)
	return dto.ToSectionDTO(section), nil
}

func (uc *AddCaseSectionUseCase) validateCommand(cmd AddCaseSectionCommand) error {
	if cmd.CaseID == 0 {
		return errors.NewValidationError("case ID is required")
	}
	if err := cases.ValidateSectionType(cmd.SectionType); err != nil {
		return errors.NewValidationError(err.Error())
	}
	if cmd.SectionID != "" {
		if err := id.ValidateClientID(cmd.SectionID); err != nil {
			return errors.NewValidationError("invalid section ID", err.Error())
		}
	}
	if cmd.CreatedBy == "" {
		return errors.NewValidationError("creator is required")
	}
	return nil
}

// mirrorSection appends note and referral sections to the case document. It
// reports whether the case changed.
func mirrorSection(c *cases.Case, s *cases.CaseSection, by string) bool {
	payload := s.Payload()
	switch s.SectionType() {
	case "note":
		text, _ := payload["note"].(string)
		if text == "" {
			return false
		}
		return c.AddNote(cases.Note{Text: text, TwilioWorkerID: by, CreatedAt: s.EventTimestamp()}, by) == nil
	case "referral":
		referredTo, _ := payload["referredTo"].(string)
		comments, _ := payload["comments"].(string)
		date := s.EventTimestamp()
		if raw, ok := payload["date"].(string); ok {
			if parsed, err := parseReferralDate(raw); err == nil {
				date = parsed
			}
		}
		return c.AddReferral(cases.Referral{Date: date, ReferredTo: referredTo, Comments: comments}, by) == nil
	}
	return false
}

func parseReferralDate(raw string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

type UpdateCaseSectionCommand struct {
	CaseID         uint
	AccountSID     string
	SectionType    string
	SectionID      string
	EventTimestamp time.Time
	Payload        map[string]any
	UpdatedBy      string
}

type UpdateCaseSectionUseCase struct {
	sectionRepo cases.SectionRepository
	logger      logger.Interface
}

func NewUpdateCaseSectionUseCase(sectionRepo cases.SectionRepository, logger logger.Interface) *UpdateCaseSectionUseCase {
	return &UpdateCaseSectionUseCase{
		sectionRepo: sectionRepo,
		logger:      logger,
	}
}

func (uc *UpdateCaseSectionUseCase) Execute(ctx context.Context, cmd UpdateCaseSectionCommand) (*dto.SectionDTO, error) {
	uc.logger.Infow("executing update case section use case",
		"case_id", cmd.CaseID,
		"section_type", cmd.SectionType,
		"section_id", cmd.SectionID,
	)

	if cmd.CaseID == 0 || cmd.SectionType == "" || cmd.SectionID == "" {
		return nil, errors.NewValidationError("case ID, section type and section ID are required")
	}
	if cmd.UpdatedBy == "" {
		return nil, errors.NewValidationError("updated by worker is required")
	}

	section, err := getSection(ctx, uc.sectionRepo, cmd.CaseID, cmd.AccountSID, cmd.SectionType, cmd.SectionID)
	if err != nil {
		return nil, err
	}

	if err := section.Update(cmd.Payload, cmd.EventTimestamp, cmd.UpdatedBy); err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	if err := uc.sectionRepo.Update(ctx, section); err != nil {
		uc.logger.Errorw("failed to update case section", "case_id", cmd.CaseID, "section_id", cmd.SectionID, "error", err)
		return nil, errors.WrapInternal("failed to update case section", err)
	}

	uc.logger.Infow("case section updated successfully", "case_id", cmd.CaseID, "section_id", cmd.SectionID)
	return dto.ToSectionDTO(section), nil
}

type DeleteCaseSectionCommand struct {
	CaseID      uint
	AccountSID  string
	SectionType string
	SectionID   string
	DeletedBy   string
}

type DeleteCaseSectionUseCase struct {
	sectionRepo cases.SectionRepository
	logger      logger.Interface
}

func NewDeleteCaseSectionUseCase(sectionRepo cases.SectionRepository, logger logger.Interface) *DeleteCaseSectionUseCase {
	return &DeleteCaseSectionUseCase{
		sectionRepo: sectionRepo,
		logger:      logger,
	}
}

func (uc *DeleteCaseSectionUseCase) Execute(ctx context.Context, cmd DeleteCaseSectionCommand) error {
	uc.logger.Infow("executing delete case section use case",
		"case_id", cmd.CaseID,
		"section_type", cmd.SectionType,
		"section_id", cmd.SectionID,
		"deleted_by", cmd.DeletedBy,
	)

	if cmd.CaseID == 0 || cmd.SectionType == "" || cmd.SectionID == "" {
		return errors.NewValidationError("case ID, section type and section ID are required")
	}

	if _, err := getSection(ctx, uc.sectionRepo, cmd.CaseID, cmd.AccountSID, cmd.SectionType, cmd.SectionID); err != nil {
		return err
	}

	if err := uc.sectionRepo.Delete(ctx, cmd.CaseID, cmd.SectionType, cmd.SectionID); err != nil {
		if errors.IsNotFoundError(err) {
			return err
		}
		uc.logger.Errorw("failed to delete case section", "case_id", cmd.CaseID, "section_id", cmd.SectionID, "error", err)
		return errors.WrapInternal("failed to delete case section", err)
	}

	uc.logger.Infow("case section deleted successfully", "case_id", cmd.CaseID, "section_id", cmd.SectionID)
	return nil
}

func getSection(ctx context.Context, repo cases.SectionRepository, caseID uint, accountSID, sectionType, sectionID string) (*cases.CaseSection, error) {
	section, err := repo.Get(ctx, caseID, sectionType, sectionID)
	if err != nil {
		return nil, errors.WrapInternal("failed to get case section", err)
	}
	if section == nil || section.AccountSID() != accountSID {
		return nil, errors.NewNotFoundError(fmt.Sprintf("%s section %s not found", sectionType, sectionID))
	}
	return section, nil
}
