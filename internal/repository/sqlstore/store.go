// Package sqlstore implements the repository interfaces on a relational store.
//
// Two dialects are supported behind one code path:
//   - SQLite (modernc.org/sqlite, pure Go) for development and tests
//   - MySQL (github.com/go-sql-driver/mysql) for production deployments
//
// Both accept "?" placeholders, so every query is written once. sqlx scans
// rows straight into the `db:"..."` tagged structs in internal/model.
//
// DATABASE/SQL OVERVIEW:
//   - sqlx.DB wraps sql.DB: a connection pool, NOT a single connection
//   - sqlx.Tx wraps sql.Tx: every write runs inside one (see withTx)
//   - GetContext scans one row, SelectContext scans all rows into a slice
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	// BLANK IMPORTS:
	// These packages register themselves with database/sql as the "mysql"
	// and "sqlite" drivers in their init() functions.
	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Driver names accepted by Open. They are also the database/sql driver names.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

func init() {
	// sqlx knows "sqlite3" but not modernc's "sqlite" name.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// DB wraps a sqlx connection pool and implements UserRepository,
// TripRepository and MessageRepository.
type DB struct {
	conn   *sqlx.DB
	driver string
}

// Open connects to the store, verifies the connection and applies pending
// migrations.
//
// dsn examples:
//   - sqlite: "data/travel.db" (file) or ":memory:" (tests, lost on close)
//   - mysql:  "user:pw@tcp(localhost:3306)/travel_together_db?parseTime=true&multiStatements=true"
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	if driver != DriverSQLite && driver != DriverMySQL {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	conn, err := sqlx.Open(driver, prepareDSN(driver, dsn))
	if err != nil {
		return nil, fmt.Errorf("sqlstore: opening database: %w", err)
	}

	if driver == DriverSQLite && isMemory(dsn) {
		// Every new connection to ":memory:" is a new, empty database.
		// One connection keeps the whole pool on the same one.
		conn.SetMaxOpenConns(1)
	}

	// Ping verifies the connection actually works. Without it, a bad path or
	// wrong password would only surface on the first query.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: pinging database: %w", err)
	}

	if driver == DriverSQLite && !isMemory(dsn) {
		// WAL lets readers proceed while a write is in progress.
		if _, err := conn.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlstore: setting WAL mode: %w", err)
		}
	}

	db := newDB(conn, driver)
	if err := db.migrate(dsn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlstore: running migrations: %w", err)
	}

	return db, nil
}

// newDB wraps an already-open pool without touching the schema.
func newDB(conn *sqlx.DB, driver string) *DB {
	return &DB{conn: conn, driver: driver}
}

// Ping reports whether the store is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// prepareDSN adds the per-connection settings a driver needs.
//
// SQLite pragmas are per connection, so they go into the DSN (modernc's
// _pragma parameter) rather than a one-off PRAGMA statement: every pooled
// connection then enforces foreign keys.
func prepareDSN(driver, dsn string) string {
	if driver != DriverSQLite {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func isMemory(dsn string) bool {
	return strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}
