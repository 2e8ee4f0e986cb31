package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/permission"
	apperrors "github.com/casework-hq/casework/internal/shared/errors"
)

// TargetRepository resolves authorization targets by kind. Entities of
// another account are reported as not found.
type TargetRepository struct {
	cases    cases.CaseRepository
	contacts contact.Repository
}

func NewTargetRepository(caseRepo cases.CaseRepository, contactRepo contact.Repository) *TargetRepository {
	return &TargetRepository{
		cases:    caseRepo,
		contacts: contactRepo,
	}
}

func (r *TargetRepository) GetTargetByID(ctx context.Context, kind permission.TargetKind, id string, accountSID string) (permission.Target, error) {
	numericID, err := strconv.ParseUint(id, 10, 0)
	if err != nil || numericID == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", kind, id))
	}

	switch kind {
	case permission.TargetKindCase:
		c, err := r.cases.GetByID(ctx, uint(numericID))
		if err != nil {
			return nil, err
		}
		if c == nil || c.AccountSID() != accountSID {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("case %s not found", id))
		}
		return c, nil

	case permission.TargetKindContact:
		s, err := r.contacts.GetByID(ctx, uint(numericID))
		if err != nil {
			return nil, err
		}
		if s == nil || s.AccountSID != accountSID {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("contact %s not found", id))
		}
		return s, nil
	}

	return nil, fmt.Errorf("%w: unsupported target kind %q", permission.ErrTargetKindMismatch, kind)
}
