package sqlstore

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// sqliteLower is registered on every SQLite connection. SQLite's built-in
// LOWER folds ASCII only, so "ZÜRICH" would never match "zürich".
const sqliteLower = "unicode_lower"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteLower, 1, unicodeLower)
}

// unicodeLower folds text the same way strings.ToLower folds search input.
func unicodeLower(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		// NULL and numbers pass through untouched.
		return v, nil
	}
}

// lowerFunc names the SQL function that lowercases a column in this dialect.
// MySQL's LOWER is already Unicode aware under utf8mb4.
func (db *DB) lowerFunc() string {
	if db.driver == DriverSQLite {
		return sqliteLower
	}
	return "LOWER"
}
