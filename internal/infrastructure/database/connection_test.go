package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/casework-hq/casework/internal/shared/config"
)

func TestOpen_SQLite(t *testing.T) {
	database, err := Open(&config.DatabaseConfig{Driver: config.DriverSQLite, Database: ":memory:"}, &gorm.Config{})
	require.NoError(t, err)

	var one int
	require.NoError(t, database.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(&config.DatabaseConfig{Driver: "postgres"}, &gorm.Config{})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestInitAndClose(t *testing.T) {
	require.NoError(t, Init(&config.DatabaseConfig{Driver: config.DriverSQLite, Database: ":memory:"}))
	assert.NotNil(t, Get())
	assert.NoError(t, Close())
}

func TestInit_SQLiteMemorySharesOneConnection(t *testing.T) {
	require.NoError(t, Init(&config.DatabaseConfig{Driver: config.DriverSQLite, Database: ":memory:", MaxOpenConns: 10}))
	defer Close()

	require.NoError(t, Get().Exec("CREATE TABLE shared_check (id INTEGER)").Error)

	sqlDB, err := Get().DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections)

	var n int64
	require.NoError(t, Get().Raw("SELECT COUNT(*) FROM shared_check").Scan(&n).Error)
	assert.Zero(t, n)
}
