// Package repository declares the storage interfaces the service layer
// depends on. internal/repository/sqlstore implements all of them on a
// single *sqlstore.DB; service tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/travel-together/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts u and sets u.ID and u.CreatedAt.
	// Returns apperror.ErrDuplicateEmail when the email is taken.
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int64, name, city string) error
}

// TripRepository persists trips and their participants.
type TripRepository interface {
	// CreateTrip inserts t and sets t.ID and t.CreatedAt.
	CreateTrip(ctx context.Context, t *model.Trip) error
	GetTrip(ctx context.Context, id int64) (*model.Trip, error)
	ListTripsByCreator(ctx context.Context, creatorID int64) ([]model.Trip, error)
	ListTripsExcludingCreator(ctx context.Context, creatorID int64, limit int) ([]model.Trip, error)
	SearchTrips(ctx context.Context, text string) ([]model.Trip, error)

	// AddParticipant returns apperror.ErrAlreadyJoined when the pair exists
	// and an apperror.ErrNotFound error when the trip does not.
	AddParticipant(ctx context.Context, tripID, userID int64) error
	ListParticipants(ctx context.Context, tripID int64) ([]model.Participant, error)
	IsParticipant(ctx context.Context, tripID, userID int64) (bool, error)
}

// MessageRepository persists the per-trip chat log.
type MessageRepository interface {
	// CreateMessage appends m and sets m.ID and m.SentAt.
	CreateMessage(ctx context.Context, m *model.Message) error
	ListMessages(ctx context.Context, tripID int64) ([]model.Message, error)
}
