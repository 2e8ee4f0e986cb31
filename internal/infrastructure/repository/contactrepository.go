package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/mappers"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/db"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

var _ contact.Repository = (*ContactRepository)(nil)

// ContactRepository reads contact summaries and maintains their case link.
// Contacts themselves are written by the contact intake service.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

// Create inserts a contact row. Used by seeding and tests.
func (r *ContactRepository) Create(ctx context.Context, s *contact.Summary) error {
	model, err := mappers.ContactToModel(s)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}
	s.ID = model.ID
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id uint) (*contact.Summary, error) {
	var model models.ContactModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return mappers.ContactToDomain(&model)
}

func (r *ContactRepository) GetByIDs(ctx context.Context, ids []uint) ([]*contact.Summary, error) {
	if len(ids) == 0 {
		return []*contact.Summary{}, nil
	}

	var rows []*models.ContactModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get contacts: %w", err)
	}
	return toSummaries(rows)
}

// ListConnected returns contacts connected to any of the filter's cases,
// newest contact first.
func (r *ContactRepository) ListConnected(ctx context.Context, filter contact.ListFilter) ([]*contact.Summary, int64, error) {
	if len(filter.CaseIDs) == 0 {
		return []*contact.Summary{}, 0, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.ContactModel{}).Where("case_id IN ?", filter.CaseIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count connected contacts: %w", err)
	}

	// Matches the contact order of a merged timeline.
	query = query.Order("time_of_contact DESC").Order("case_id ASC").Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*models.ContactModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list connected contacts: %w", err)
	}

	summaries, err := toSummaries(rows)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (r *ContactRepository) SetCaseID(ctx context.Context, contactID uint, caseID *uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.ContactModel{}).Where("id = ?", contactID)
	if caseID != nil {
		// A contact belongs to at most one case.
		query = query.Where("(case_id IS NULL OR case_id = ?)", *caseID)
	}
	result := query.Update("case_id", caseID)
	if result.Error != nil {
		return fmt.Errorf("failed to update contact case: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// Nothing changed: the contact is missing, already linked as asked, or
	// linked to another case.
	var row models.ContactModel
	if err := tx.Select("id", "case_id").First(&row, contactID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFoundError(fmt.Sprintf("contact %d not found", contactID))
		}
		return fmt.Errorf("failed to get contact: %w", err)
	}
	if caseID != nil && row.CaseID != nil && *row.CaseID != *caseID {
		return apperrors.NewConflictError(fmt.Sprintf("contact %d is connected to case %d", contactID, *row.CaseID))
	}
	return nil
}

func toSummaries(rows []*models.ContactModel) ([]*contact.Summary, error) {
	out := make([]*contact.Summary, 0, len(rows))
	for _, row := range rows {
		s, err := mappers.ContactToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
