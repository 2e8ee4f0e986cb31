package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/mappers"
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
	"github.com/casework-hq/casework/internal/shared/db"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
	"github.com/casework-hq/casework/internal/shared/mapper"
)

var (
	_ cases.CaseRepository  = (*CaseRepository)(nil)
	_ cases.AuditRepository = (*CaseRepository)(nil)
)

// CaseRepository stores cases and their change log. Every write appends an
// audit row in the same transaction as the case row.
type CaseRepository struct {
	db     *gorm.DB
	mapper mappers.CaseMapper
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{
		db:     db,
		mapper: mappers.NewCaseMapper(),
	}
}

func (r *CaseRepository) Create(ctx context.Context, c *cases.Case) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}

	return db.Transact(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create case: %w", err)
		}
		if err := c.SetID(model.ID); err != nil {
			return err
		}

		rec := cases.NewAuditRecord(c.ID(), c.AccountSID(), nil, c.Snapshot(), c.CreatedBy(), c.CreatedAt())
		return r.appendAudit(tx, rec)
	})
}

// Update writes c and records the stored row as the previous snapshot. An
// update that changes nothing but the touch fields writes no audit row.
func (r *CaseRepository) Update(ctx context.Context, c *cases.Case, actorID string) error {
	model, err := r.mapper.ToModel(c)
	if err != nil {
		return err
	}

	return db.Transact(ctx, r.db, func(tx *gorm.DB) error {
		var stored models.CaseModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&stored, c.ID()).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError(fmt.Sprintf("case %d not found", c.ID()))
			}
			return fmt.Errorf("failed to load case for update: %w", err)
		}

		previous, err := r.mapper.ToDomain(&stored)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.CaseModel{ID: model.ID}).Select("*").Omit("id").Updates(model).Error; err != nil {
			return fmt.Errorf("failed to update case: %w", err)
		}

		prevSnap, nextSnap := previous.Snapshot(), c.Snapshot()
		if prevSnap.SameContent(nextSnap) {
			return nil
		}

		rec := cases.NewAuditRecord(c.ID(), c.AccountSID(), prevSnap, nextSnap, actorID, c.UpdatedAt())
		return r.appendAudit(tx, rec)
	})
}

func (r *CaseRepository) GetByID(ctx context.Context, id uint) (*cases.Case, error) {
	var model models.CaseModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get case: %w", err)
	}

	return r.mapper.ToDomain(&model)
}

func (r *CaseRepository) GetByIDs(ctx context.Context, ids []uint) ([]*cases.Case, error) {
	if len(ids) == 0 {
		return []*cases.Case{}, nil
	}

	var rows []*models.CaseModel
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get cases: %w", err)
	}

	return mapper.MapSliceWithError(rows, r.mapper.ToDomain)
}

// ListByCaseID returns the change log of a case, oldest first.
func (r *CaseRepository) ListByCaseID(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error) {
	var rows []*models.CaseAuditModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.
		Where("case_id = ?", caseID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list case audits: %w", err)
	}

	return mapper.MapSliceWithError(rows, r.mapper.AuditToDomain)
}

func (r *CaseRepository) appendAudit(tx *gorm.DB, rec *cases.AuditRecord) error {
	model, err := r.mapper.AuditToModel(rec)
	if err != nil {
		return err
	}
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append case audit: %w", err)
	}
	rec.ID = model.ID
	return nil
}
