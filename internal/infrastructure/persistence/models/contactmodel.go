package models

import (
	"gorm.io/datatypes"

	"github.com/casework-hq/casework/internal/shared/constants"
)

type ContactModel struct {
	ID                     uint   `gorm:"primaryKey"`
	AccountSID             string `gorm:"column:account_sid;size:64;not null;index"`
	CaseID                 *uint  `gorm:"index:idx_contacts_case_time"`
	TwilioWorkerID         string `gorm:"size:64;not null"`
	CreatedBy              string `gorm:"size:64;not null"`
	Channel                string `gorm:"size:32;not null"`
	ContactlessTaskChannel string `gorm:"size:32"`
	TimeOfContact          int64  `gorm:"not null;index:idx_contacts_case_time"`
	CallType               string `gorm:"size:64"`
	TaskID                 string `gorm:"size:64"`
	ConversationDuration   int
	RawJSON                datatypes.JSON
	CreatedAt              int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt              int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (ContactModel) TableName() string {
	return constants.TableContacts
}
