// Package config loads server settings from the environment.
//
// An optional .env file in the working directory is read first (variables
// already set in the process environment win), then envdecode fills the
// Config struct from `env:"..."` tags, applying the defaults declared there.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Supported DB_DRIVER values. They double as database/sql driver names.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// Config is the complete runtime configuration.
type Config struct {
	Port       int           `env:"PORT,default=8080"`
	SecretKey  string        `env:"SECRET_KEY,required"`
	SessionTTL time.Duration `env:"SESSION_TTL,default=24h"`
	BcryptCost int           `env:"BCRYPT_COST,default=12"`
	LogLevel   string        `env:"LOG_LEVEL,default=info"`

	DB DB
}

// DB selects and locates the relational store.
type DB struct {
	Driver string `env:"DB_DRIVER,default=sqlite"`

	// SQLite
	Path string `env:"DB_PATH,default=data/travel.db"`

	// MySQL
	Host     string `env:"MYSQL_HOST,default=localhost"`
	Port     int    `env:"MYSQL_PORT,default=3306"`
	User     string `env:"MYSQL_USER,default=root"`
	Password string `env:"MYSQL_PASSWORD"`
	Name     string `env:"MYSQL_DB,default=travel_together_db"`
}

// Load reads .env (if present) and decodes the environment into a Config.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Config{}, fmt.Errorf("config: decoding environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that have no safe default.
func (c Config) Validate() error {
	if len(c.SecretKey) < 16 {
		return errors.New("config: SECRET_KEY must be at least 16 characters")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config: invalid PORT %d", c.Port)
	}
	return c.DB.Validate()
}

// Validate checks the store settings for the selected driver.
func (d DB) Validate() error {
	switch d.Driver {
	case DriverSQLite:
		if d.Path == "" {
			return errors.New("config: DB_PATH is required for the sqlite driver")
		}
	case DriverMySQL:
		if d.Host == "" || d.Name == "" {
			return errors.New("config: MYSQL_HOST and MYSQL_DB are required for the mysql driver")
		}
	default:
		return fmt.Errorf("config: unsupported DB_DRIVER %q (want %q or %q)", d.Driver, DriverSQLite, DriverMySQL)
	}
	return nil
}

// LoadDB reads only the store settings. cmd/migrate uses it so schema
// changes do not need SECRET_KEY.
func LoadDB() (DB, error) {
	_ = godotenv.Load()

	var d DB
	if err := envdecode.Decode(&d); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return DB{}, fmt.Errorf("config: decoding environment: %w", err)
	}
	if err := d.Validate(); err != nil {
		return DB{}, err
	}
	return d, nil
}

// Level parses LOG_LEVEL, falling back to info for unknown values.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DSN builds the data source name for the configured driver.
//
// For MySQL, parseTime makes DATETIME columns scan into time.Time and
// multiStatements lets migration files hold several statements.
func (d DB) DSN() string {
	if d.Driver != DriverMySQL {
		return d.Path
	}

	mc := mysql.NewConfig()
	mc.User = d.User
	mc.Passwd = d.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	mc.DBName = d.Name
	mc.ParseTime = true
	mc.MultiStatements = true
	mc.Loc = time.UTC
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}
