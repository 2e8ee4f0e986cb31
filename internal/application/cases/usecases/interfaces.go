package usecases

import (
	"context"
	"fmt"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/history"
	"github.com/casework-hq/casework/internal/domain/permission"
	"github.com/casework-hq/casework/internal/shared/errors"
)

// TransactionRunner runs fn in a database transaction shared by every
// repository called with the ctx it receives.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ContactRepository reads contacts and links them to cases.
type ContactRepository interface {
	GetByID(ctx context.Context, id uint) (*contact.Summary, error)
	SetCaseID(ctx context.Context, contactID uint, caseID *uint) error
}

// ActivityReader derives the legacy activity list of a case.
type ActivityReader interface {
	Activities(ctx context.Context, caseID uint) ([]*history.Activity, error)
}

// Checker is the authorization query used to redact nested contacts.
type Checker interface {
	Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error)
}

// loadCase fetches a case of the given account. A case of another account
// is reported as missing.
func loadCase(ctx context.Context, repo cases.CaseRepository, caseID uint, accountSID string) (*cases.Case, error) {
	c, err := repo.GetByID(ctx, caseID)
	if err != nil {
		if errors.IsNotFoundError(err) {
			return nil, err
		}
		return nil, errors.WrapInternal("failed to get case", err)
	}
	if c == nil || c.AccountSID() != accountSID {
		return nil, errors.NewNotFoundError(fmt.Sprintf("case %d not found", caseID))
	}
	return c, nil
}
