package history

import (
	"context"

	"github.com/casework-hq/casework/internal/domain/cases"
	"github.com/casework-hq/casework/internal/domain/contact"
	"github.com/casework-hq/casework/internal/domain/permission"
)

// SectionLister lists case sections newest event first with a total count.
type SectionLister interface {
	List(ctx context.Context, filter cases.SectionFilter) ([]*cases.CaseSection, int64, error)
}

// ContactLister lists contacts connected to cases newest first with a total
// count.
type ContactLister interface {
	ListConnected(ctx context.Context, filter contact.ListFilter) ([]*contact.Summary, int64, error)
}

// AuditLister reads the audit log of a case in creation order.
type AuditLister interface {
	ListByCaseID(ctx context.Context, caseID uint) ([]*cases.AuditRecord, error)
}

// ContactGetter loads contacts by id. Unknown ids are left out of the result.
type ContactGetter interface {
	GetByIDs(ctx context.Context, ids []uint) ([]*contact.Summary, error)
}

// Checker is the authorization query used to decide contact redaction.
type Checker interface {
	Can(ctx context.Context, user permission.User, action permission.Action, target permission.Target) (bool, error)
}
