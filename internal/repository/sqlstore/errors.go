package sqlstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// Constraint violations, normalised across drivers. Repository methods turn
// them into domain errors (duplicate email, already joined, unknown trip).
var (
	ErrDuplicateKey = errors.New("sqlstore: duplicate key")
	ErrForeignKey   = errors.New("sqlstore: foreign key violation")
)

// MySQL server error numbers.
const (
	mysqlDupEntry         = 1062 // ER_DUP_ENTRY
	mysqlNoReferencedRow  = 1452 // ER_NO_REFERENCED_ROW_2
	mysqlNoReferencedRow1 = 1216 // ER_NO_REFERENCED_ROW
)

// mapError wraps a driver error with ErrDuplicateKey or ErrForeignKey when
// it is one of those constraint violations. Any other error comes back
// unchanged, so connection failures keep propagating as themselves.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
		case mysqlNoReferencedRow, mysqlNoReferencedRow1:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
		return err
	}

	// modernc's error text carries SQLite's constraint message verbatim.
	s := err.Error()
	switch {
	case strings.Contains(s, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	case strings.Contains(s, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %w", ErrForeignKey, err)
	}
	return err
}
