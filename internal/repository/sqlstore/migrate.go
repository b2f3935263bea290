package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// migrationFiles holds one directory of numbered migrations per dialect.
//
//go:embed migrations
var migrationFiles embed.FS

// NewMigrator opens a dedicated connection for schema changes and returns a
// golang-migrate instance bound to it. Closing the Migrate closes that
// connection. Used by cmd/migrate.
func NewMigrator(driver, dsn string) (*migrate.Migrate, error) {
	conn, err := sql.Open(driver, prepareDSN(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening migration connection: %w", err)
	}

	m, err := newMigrate(driver, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return m, nil
}

// migrate brings the schema up to date.
func (db *DB) migrate(dsn string) error {
	if db.driver == DriverSQLite {
		// Run on the shared pool: an in-memory database exists only there.
		// m.Close is not called because the sqlite driver's Close would
		// close the pool along with it.
		m, err := newMigrate(DriverSQLite, db.conn.DB)
		if err != nil {
			return err
		}
		return up(m)
	}

	m, err := NewMigrator(db.driver, dsn)
	if err != nil {
		return err
	}
	defer m.Close()
	return up(m)
}

func newMigrate(driver string, conn *sql.DB) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFiles, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: loading %s migrations: %w", driver, err)
	}

	var target database.Driver
	switch driver {
	case DriverSQLite:
		target, err = migratesqlite.WithInstance(conn, &migratesqlite.Config{})
	case DriverMySQL:
		target, err = migratemysql.WithInstance(conn, &migratemysql.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlstore: preparing migration target: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: creating migrator: %w", err)
	}
	return m, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}
