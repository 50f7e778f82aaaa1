package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "rpasChecklist", cfg.Storage.Slot)
	assert.Equal(t, 2*time.Second, cfg.Notifications.SavedDuration)
	assert.Equal(t, 3*time.Second, cfg.Notifications.InstalledDuration)
	assert.Equal(t, "web/public", cfg.Assets.Dir)
	assert.Equal(t, "rpas-checklist.db", cfg.Database.GetDSN())
	assert.Equal(t, "sql", cfg.Storage.Backend)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.GetAddr())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9099")
	t.Setenv("STORAGE_SLOT", "fieldKit")
	t.Setenv("NOTIFY_SAVED_DURATION", "500ms")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "fieldKit", cfg.Storage.Slot)
	assert.Equal(t, 500*time.Millisecond, cfg.Notifications.SavedDuration)
	assert.Contains(t, cfg.Database.GetDSN(), "host=db.internal")
	assert.Contains(t, cfg.Database.GetDSN(), "dbname=rpas_checklist")
	assert.Equal(t, "redis", cfg.Storage.Backend)
	assert.Equal(t, "cache.internal:6379", cfg.Storage.Redis.GetAddr())
	assert.Equal(t, 3, cfg.Storage.Redis.DB)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":      func(c *Config) { c.Database.Driver = "mysql" },
		"port":        func(c *Config) { c.Server.Port = 0 },
		"slot":        func(c *Config) { c.Storage.Slot = "" },
		"log level":   func(c *Config) { c.Logger.Level = "verbose" },
		"log file":    func(c *Config) { c.Logger.Output = "file" },
		"sqlite path": func(c *Config) { c.Database.Path = "" },
		"duration":    func(c *Config) { c.Notifications.SavedDuration = 0 },
		"backend":     func(c *Config) { c.Storage.Backend = "s3" },
		"retries":     func(c *Config) { c.Storage.Redis.MaxRetries = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
