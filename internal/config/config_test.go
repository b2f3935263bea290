package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "a-secret-of-sixteen+")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "data/travel.db", cfg.DB.Path)
	assert.Equal(t, "travel_together_db", cfg.DB.Name)
	assert.Equal(t, "data/travel.db", cfg.DB.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SECRET_KEY", "a-secret-of-sixteen+")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("MYSQL_USER", "travel")
	t.Setenv("MYSQL_PASSWORD", "pw")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)

	dsn := cfg.DB.DSN()
	assert.True(t, strings.HasPrefix(dsn, "travel:pw@tcp(db.internal:3306)/travel_together_db?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "multiStatements=true")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Port:      8080,
		SecretKey: "0123456789abcdef",
		DB:        DB{Driver: DriverSQLite, Path: ":memory:"},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.SecretKey = "short" }},
		{"bad port", func(c *Config) { c.Port = 0 }},
		{"unknown driver", func(c *Config) { c.DB.Driver = "oracle" }},
		{"sqlite without path", func(c *Config) { c.DB.Path = "" }},
		{"mysql without db name", func(c *Config) { c.DB = DB{Driver: DriverMySQL, Host: "h"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "debug"}.Level())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "WARN"}.Level())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "chatty"}.Level())
}

func TestLoadDB_NoSecretNeeded(t *testing.T) {
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DB_PATH", "/tmp/travel-test.db")

	d, err := LoadDB()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, d.Driver)
	assert.Equal(t, "/tmp/travel-test.db", d.DSN())
}

func TestLoadDB_UnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")

	_, err := LoadDB()
	assert.Error(t, err)
}
