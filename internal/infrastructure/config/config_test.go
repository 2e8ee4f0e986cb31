package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/casework-hq/casework/internal/shared/config"
)

func TestLoadFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("auth.jwt.secret", "a-test-secret-of-sufficient-length")

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.GetAddr())
	assert.Equal(t, sharedConfig.DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, sharedConfig.RuleSourceFile, cfg.Permissions.Source)
	assert.Equal(t, 300, cfg.Permissions.CacheTTLSeconds)
	assert.Equal(t, sharedConfig.HistoryModeSections, cfg.History.Mode)
	assert.Equal(t, 200, cfg.History.MaxPageSize)
	assert.Same(t, cfg, Get())
}

func TestLoadFromViper_Validation(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{
			name:    "unknown rule source",
			values:  map[string]any{"permissions.source": "ldap"},
			wantErr: "Permissions.Source",
		},
		{
			name:    "unknown history mode",
			values:  map[string]any{"history.mode": "both"},
			wantErr: "History.Mode",
		},
		{
			name:    "short jwt secret",
			values:  map[string]any{"auth.jwt.secret": "short"},
			wantErr: "Auth.JWT.Secret",
		},
		{
			name:    "unsupported driver",
			values:  map[string]any{"database.driver": "oracle"},
			wantErr: "Database.Driver",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set("auth.jwt.secret", "a-test-secret-of-sufficient-length")
			for k, val := range tt.values {
				v.Set(k, val)
			}

			_, err := LoadFromViper(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromViper_SQLite(t *testing.T) {
	v := viper.New()
	v.Set("auth.jwt.secret", "a-test-secret-of-sufficient-length")
	v.Set("database.driver", "sqlite")
	v.Set("database.database", ":memory:")

	cfg, err := LoadFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, ":memory:", cfg.Database.GetDSN())
}
