package migration

import (
	"github.com/casework-hq/casework/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists the models created by the gorm strategy. The
// casbin_rule table is managed by the casbin adapter.
func AutoMigrateModels() []any {
	return []any{
		&models.CaseModel{},
		&models.CaseAuditModel{},
		&models.CaseSectionModel{},
		&models.ContactModel{},
	}
}
