// Package migration creates and upgrades the database schema.
package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/shared/config"
	"github.com/casework-hq/casework/internal/shared/logger"
)

// Manager runs the migration strategy matching the database driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks versioned scripts for MySQL and gorm AutoMigrate for
// sqlite.
func NewManager(driver string, log logger.Interface) *Manager {
	var strategy Strategy
	switch driver {
	case config.DriverSQLite:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		strategy = NewGolangMigrateStrategy(log)
	}
	return NewManagerWithStrategy(strategy, log)
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
