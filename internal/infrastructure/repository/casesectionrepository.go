package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/mappers"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/db"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

var _ cases.SectionRepository = (*CaseSectionRepository)(nil)

type CaseSectionRepository struct {
	db *gorm.DB
}

func NewCaseSectionRepository(db *gorm.DB) *CaseSectionRepository {
	return &CaseSectionRepository{db: db}
}

func (r *CaseSectionRepository) Create(ctx context.Context, section *cases.CaseSection) error {
	model, err := mappers.SectionToModel(section)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create case section: %w", err)
	}
	return nil
}

func (r *CaseSectionRepository) Update(ctx context.Context, section *cases.CaseSection) error {
	model, err := mappers.SectionToModel(section)
	if err != nil {
		return err
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.
		Model(&models.CaseSectionModel{}).
		Where("case_id = ? AND section_type = ? AND section_id = ?", model.CaseID, model.SectionType, model.SectionID).
		Updates(map[string]any{
			"section_type_specific_data": model.SectionTypeSpecificData,
			"event_timestamp":            model.EventTimestamp,
			"updated_by":                 model.UpdatedBy,
			"updated_at":                 model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update case section: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sectionNotFound(model.SectionType, model.SectionID)
	}
	return nil
}

func (r *CaseSectionRepository) Delete(ctx context.Context, caseID uint, sectionType, sectionID string) error {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.
		Where("case_id = ? AND section_type = ? AND section_id = ?", caseID, sectionType, sectionID).
		Delete(&models.CaseSectionModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete case section: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return sectionNotFound(sectionType, sectionID)
	}
	return nil
}

func (r *CaseSectionRepository) Get(ctx context.Context, caseID uint, sectionType, sectionID string) (*cases.CaseSection, error) {
	var model models.CaseSectionModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("case_id = ? AND section_type = ? AND section_id = ?", caseID, sectionType, sectionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case section: %w", err)
	}

	return mappers.SectionToDomain(&model)
}

// List returns sections newest event first. Ties are ordered by case, type
// and id so pages are stable.
func (r *CaseSectionRepository) List(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error) {
	if len(filter.CaseIDs) == 0 {
		return []*cases.CaseSection{}, 0, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.CaseSectionModel{}).Where("case_id IN ?", filter.CaseIDs)
	if len(filter.SectionTypes) > 0 {
		query = query.Where("section_type IN ?", filter.SectionTypes)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count case sections: %w", err)
	}

	query = query.
		Order("event_timestamp DESC").
		Order("case_id ASC").
		Order("section_type ASC").
		Order("section_id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []*models.CaseSectionModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list case sections: %w", err)
	}

	sections := make([]*cases.CaseSection, 0, len(rows))
	for _, row := range rows {
		s, err := mappers.SectionToDomain(row)
		if err != nil {
			return nil, 0, err
		}
		sections = append(sections, s)
	}
	return sections, total, nil
}

func sectionNotFound(sectionType, sectionID string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("%s section %s not found", sectionType, sectionID))
}
