package cases

import (
	"fmt"
	"maps"
	"regexp"
	"time"

	"github.com/casework-hq/casework/internal/shared/biztime"
)

var sectionTypePattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]{0,63}$`)

// ValidateSectionType checks the shape of a section type name.
func ValidateSectionType(sectionType string) error {
	if !sectionTypePattern.MatchString(sectionType) {
		return fmt.Errorf("invalid section type %q", sectionType)
	}
	return nil
}

// CaseSection is a typed sub-record of a case. It is identified by
// (caseID, sectionType, sectionID).
type CaseSection struct {
	caseID         uint
	accountSID     string
	sectionType    string
	sectionID      string
	eventTimestamp time.Time
	createdBy      string
	createdAt      time.Time
	updatedBy      *string
	updatedAt      *time.Time
	payload        map[string]any
}

// NewCaseSection creates a section. A zero eventTimestamp defaults to the
// creation time.
func NewCaseSection(
	caseID uint,
	accountSID string,
	sectionType string,
	sectionID string,
	eventTimestamp time.Time,
	createdBy string,
	payload map[string]any,
) (*CaseSection, error) {
	if caseID == 0 {
		return nil, fmt.Errorf("case ID is required")
	}
	if accountSID == "" {
		return nil, fmt.Errorf("account SID is required")
	}
	if err := ValidateSectionType(sectionType); err != nil {
		return nil, err
	}
	if sectionID == "" {
		return nil, fmt.Errorf("section ID is required")
	}
	if createdBy == "" {
		return nil, fmt.Errorf("creator is required")
	}

	now := biztime.NowUTC()
	if eventTimestamp.IsZero() {
		eventTimestamp = now
	}
	if payload == nil {
		payload = map[string]any{}
	}

	return &CaseSection{
		caseID:         caseID,
		accountSID:     accountSID,
		sectionType:    sectionType,
		sectionID:      sectionID,
		eventTimestamp: eventTimestamp.UTC(),
		createdBy:      createdBy,
		createdAt:      now,
		payload:        maps.Clone(payload),
	}, nil
}

func ReconstructCaseSection(
	caseID uint,
	accountSID string,
	sectionType string,
	sectionID string,
	eventTimestamp time.Time,
	createdBy string,
	createdAt time.Time,
	updatedBy *string,
	updatedAt *time.Time,
	payload map[string]any,
) (*CaseSection, error) {
	if caseID == 0 {
		return nil, fmt.Errorf("case ID cannot be zero")
	}
	if sectionType == "" || sectionID == "" {
		return nil, fmt.Errorf("section type and ID are required")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	return &CaseSection{
		caseID:         caseID,
		accountSID:     accountSID,
		sectionType:    sectionType,
		sectionID:      sectionID,
		eventTimestamp: eventTimestamp,
		createdBy:      createdBy,
		createdAt:      createdAt,
		updatedBy:      updatedBy,
		updatedAt:      updatedAt,
		payload:        payload,
	}, nil
}

func (s *CaseSection) CaseID() uint {
	return s.caseID
}

func (s *CaseSection) AccountSID() string {
	return s.accountSID
}

func (s *CaseSection) SectionType() string {
	return s.sectionType
}

func (s *CaseSection) SectionID() string {
	return s.sectionID
}

func (s *CaseSection) EventTimestamp() time.Time {
	return s.eventTimestamp
}

func (s *CaseSection) CreatedBy() string {
	return s.createdBy
}

func (s *CaseSection) CreatedAt() time.Time {
	return s.createdAt
}

func (s *CaseSection) UpdatedBy() *string {
	return s.updatedBy
}

func (s *CaseSection) UpdatedAt() *time.Time {
	return s.updatedAt
}

// Payload returns a shallow copy of the section body.
func (s *CaseSection) Payload() map[string]any {
	return maps.Clone(s.payload)
}

// Update replaces the payload. A zero eventTimestamp keeps the current one.
func (s *CaseSection) Update(payload map[string]any, eventTimestamp time.Time, updatedBy string) error {
	if updatedBy == "" {
		return fmt.Errorf("updater is required")
	}
	if payload == nil {
		payload = map[string]any{}
	}
	s.payload = maps.Clone(payload)
	if !eventTimestamp.IsZero() {
		s.eventTimestamp = eventTimestamp.UTC()
	}
	now := biztime.NowUTC()
	s.updatedBy = &updatedBy
	s.updatedAt = &now
	return nil
}
