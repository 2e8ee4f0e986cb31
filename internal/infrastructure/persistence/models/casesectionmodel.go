package models

import (
	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/shared/constants"
)

type CaseSectionModel struct {
	CaseID                  uint           `gorm:"primaryKey;autoIncrement:false"`
	SectionType             string         `gorm:"primaryKey;size:64"`
	SectionID               string         `gorm:"primaryKey;size:64"`
	AccountSID              string         `gorm:"column:account_sid;size:64;not null"`
	EventTimestamp          int64          `gorm:"not null;index"`
	SectionTypeSpecificData datatypes.JSON `gorm:"not null"`
	CreatedBy               string         `gorm:"size:64;not null"`
	CreatedAt               int64          `gorm:"not null"`
	UpdatedBy               *string        `gorm:"size:64"`
	UpdatedAt               *int64
}

func (CaseSectionModel) TableName() string {
	return constants.TableCaseSections
}
