// Command migrate applies or rolls back the embedded schema migrations
// against the database selected by DB_DRIVER (see internal/config).
//
// The server migrates up on start, so this is for rollbacks, inspecting
// the version, and migrating a MySQL database ahead of a deploy.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/sakif/travel-together/internal/config"
	"github.com/sakif/travel-together/internal/repository/sqlstore"
)

var errUsage = errors.New("unknown or missing command")

func main() {
	flag.Usage = usage
	flag.Parse()

	if err := run(flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			usage()
		}
		fatalf("%v", err)
	}
}

// run executes one command. The migrator is closed before run returns, on
// success and failure alike.
func run(args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "up", "down", "version":
	default:
		return fmt.Errorf("%w: %q", errUsage, args[0])
	}

	db, err := config.LoadDB()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m, err := sqlstore.NewMigrator(db.Driver, db.DSN())
	if err != nil {
		return fmt.Errorf("migration init failed: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("closing migrator", slog.Any("source", srcErr), slog.Any("database", dbErr))
		}
	}()

	m.Log = &migrateLogger{}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up failed: %w", err)
		}
		slog.Info("migrations: up completed")

	case "down":
		steps := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n < 1 {
				return fmt.Errorf("down: invalid steps argument %q", args[1])
			}
			steps = n
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down failed: %w", err)
		}
		slog.Info("migrations: down completed", slog.Int("steps", steps))

	case "version":
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("version: none")
			return nil
		}
		if err != nil {
			return fmt.Errorf("version failed: %w", err)
		}
		fmt.Printf("version: %d  dirty: %v\n", v, dirty)
	}
	return nil
}

// migrateLogger routes golang-migrate's progress lines into slog.
type migrateLogger struct{}

func (l *migrateLogger) Printf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...))
}

func (l *migrateLogger) Verbose() bool { return false }

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate <command> [args]

Commands:
  up           Apply all pending migrations
  down [N]     Roll back N migrations (default: 1)
  version      Print the current migration version

Environment:
  DB_DRIVER    sqlite (default) or mysql
  DB_PATH      SQLite file (default: data/travel.db)
  MYSQL_HOST, MYSQL_PORT, MYSQL_USER, MYSQL_PASSWORD, MYSQL_DB`)
}

func fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
