package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `id, name, email, password_hash, city, created_at`

// CreateUser inserts a new user.
//
// The existence check and the INSERT share one transaction, and the UNIQUE
// constraint on users.email closes the remaining race: two concurrent
// registrations can both pass the check, but only one INSERT succeeds.
// Both paths report apperror.ErrDuplicateEmail.
func (db *DB) CreateUser(ctx context.Context, u *model.User) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		var taken int
		if err := tx.GetContext(ctx, &taken,
			`SELECT COUNT(*) FROM users WHERE email = ?`, u.Email,
		); err != nil {
			return fmt.Errorf("sqlstore: checking email: %w", err)
		}
		if taken > 0 {
			return apperror.ErrDuplicateEmail
		}

		u.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (name, email, password_hash, city, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			u.Name, u.Email, u.PasswordHash, u.City, u.CreatedAt,
		)
		if err != nil {
			if err = mapError(err); errors.Is(err, ErrDuplicateKey) {
				return apperror.ErrDuplicateEmail
			}
			return fmt.Errorf("sqlstore: inserting user: %w", err)
		}

		if u.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlstore: reading user id: %w", err)
		}
		return nil
	})
}

// GetUserByID retrieves a user by id.
// Returns an apperror.ErrNotFound error if no user exists with that id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlstore: getting user %d: %w", id, err)
	}
	return &u, nil
}

// GetUserByEmail retrieves a user by normalised email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := db.conn.GetContext(ctx, &u,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlstore: getting user by email: %w", err)
	}
	return &u, nil
}

// UpdateUserProfile overwrites name and city.
func (db *DB) UpdateUserProfile(ctx context.Context, id int64, name, city string) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET name = ?, city = ? WHERE id = ?`, name, city, id)
		if err != nil {
			return fmt.Errorf("sqlstore: updating user %d: %w", id, err)
		}

		// MySQL reports 0 affected rows when the values did not change,
		// so a zero count is confirmed with a lookup before calling it missing.
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			var exists int
			if err := tx.GetContext(ctx, &exists, `SELECT COUNT(*) FROM users WHERE id = ?`, id); err != nil {
				return fmt.Errorf("sqlstore: checking user %d: %w", id, err)
			}
			if exists == 0 {
				return apperror.NotFound("user", id)
			}
		}
		return nil
	})
}
