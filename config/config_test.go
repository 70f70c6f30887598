package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"DB_DRIVER", "DATABASE_PATH", "DATABASE_DSN", "PORT", "CORS_ALLOWED_ORIGINS", "LOG_MODE",
		"REDIS_ADDR", "REDIS_DB", "HOBBY_CACHE_TTL", "ORPHAN_SWEEP_INTERVAL", "SEED_FILE"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, defaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, defaultPort, cfg.Port)
	assert.Equal(t, []string{defaultAllowedOrigins}, cfg.CORSAllowedOrigins)
	assert.Equal(t, defaultHobbyCacheTTL, cfg.HobbyCacheTTL)
	assert.Zero(t, cfg.OrphanSweepInterval)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/people")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("HOBBY_CACHE_TTL", "30s")
	t.Setenv("ORPHAN_SWEEP_INTERVAL", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.HobbyCacheTTL)
	assert.Equal(t, time.Hour, cfg.OrphanSweepInterval)
}

func TestLoadConfigInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("HOBBY_CACHE_TTL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, defaultHobbyCacheTTL, cfg.HobbyCacheTTL)
}

func TestLoadConfigRejectsBadDriver(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		dsn    string
	}{
		{name: "unknown driver", driver: "mysql"},
		{name: "postgres without dsn", driver: "postgres", dsn: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DB_DRIVER", tt.driver)
			t.Setenv("DATABASE_DSN", tt.dsn)
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}
