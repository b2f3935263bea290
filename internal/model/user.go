// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data: similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
//
// The `db:"..."` tags are read by sqlx when scanning rows into structs, and
// the `json:"..."` tags shape the chat API responses.
package model

import "time"

// User represents a registered account.
//
// Email is stored trimmed and lowercased; the UNIQUE constraint on the column
// is what finally guarantees one account per address.
//
// PasswordHash is tagged json:"-" so it can never leak through an API response.
type User struct {
	ID           int64     `json:"id"         db:"id"`
	Name         string    `json:"name"       db:"name"`
	Email        string    `json:"email"      db:"email"`
	PasswordHash string    `json:"-"          db:"password_hash"`
	City         string    `json:"city"       db:"city"` // empty when never set
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
