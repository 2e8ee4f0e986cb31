package models

import (
	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/shared/constants"
)

type CaseModel struct {
	ID             uint           `gorm:"primaryKey"`
	AccountSID     string         `gorm:"column:account_sid;size:64;not null;index:idx_cases_account_status"`
	Status         string         `gorm:"size:20;not null;index:idx_cases_account_status"`
	TwilioWorkerID string         `gorm:"size:64;not null;index"`
	CreatedBy      string         `gorm:"size:64;not null"`
	UpdatedBy      string         `gorm:"size:64"`
	Info           datatypes.JSON `gorm:"not null"`
	ContactIDs     datatypes.JSON
	CreatedAt      int64 `gorm:"not null;index"`
	UpdatedAt      int64 `gorm:"not null"`
}

func (CaseModel) TableName() string {
	return constants.TableCases
}

// CaseAuditModel is an append-only row of the case change log. Values are
// JSON-encoded case snapshots; PreviousValue is null on creation.
type CaseAuditModel struct {
	ID            uint   `gorm:"primaryKey"`
	CaseID        uint   `gorm:"not null;index:idx_case_audits_case_created"`
	AccountSID    string `gorm:"column:account_sid;size:64;not null"`
	PreviousValue datatypes.JSON
	NewValue      datatypes.JSON `gorm:"not null"`
	ActorID       string         `gorm:"size:64;not null"`
	CreatedAt     int64          `gorm:"not null;index:idx_case_audits_case_created"`
}

func (CaseAuditModel) TableName() string {
	return constants.TableCaseAudits
}
