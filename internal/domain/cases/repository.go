package cases

import "context"

// CaseRepository persists cases. Create and Update append an audit record in
// the same transaction; Update always records the stored state as Previous so
// the audit log stays contiguous. GetByID returns (nil, nil) for an unknown id.
type CaseRepository interface {
	Create(ctx context.Context, c *Case) error
	Update(ctx context.Context, c *Case, actorID string) error
	GetByID(ctx context.Context, id uint) (*Case, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Case, error)
}

// AuditRepository reads the change log of a case.
type AuditRepository interface {
	// ListByCaseID returns records ordered by creation time, then ID.
	ListByCaseID(ctx context.Context, caseID uint) ([]*AuditRecord, error)
}

// SectionFilter selects sections of one or more cases. Empty SectionTypes
// matches every type. Results are ordered newest event first.
type SectionFilter struct {
	CaseIDs      []uint
	SectionTypes []string
	Limit        int
	Offset       int
}

// SectionRepository persists case sections. Delete removes the row.
type SectionRepository interface {
	Create(ctx context.Context, section *CaseSection) error
	Update(ctx context.Context, section *CaseSection) error
	Delete(ctx context.Context, caseID uint, sectionType, sectionID string) error
	Get(ctx context.Context, caseID uint, sectionType, sectionID string) (*CaseSection, error)
	List(ctx context.Context, filter SectionFilter) ([]*CaseSection, int64, error)
}
