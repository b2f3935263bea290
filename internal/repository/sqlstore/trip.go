package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

var _ repository.TripRepository = (*DB)(nil)

// selectTrips reads trips joined with their creator's display name.
const selectTrips = `
	SELECT t.id, t.creator_id, u.name AS creator_name, t.title, t.destination,
	       t.details, t.start_datetime, t.transport, t.max_people, t.created_at
	FROM trips t
	JOIN users u ON u.id = t.creator_id`

// likeEscape is the LIKE escape character. "!" needs no quoting in either
// dialect, unlike the backslash.
const likeEscape = "!"

// CreateTrip inserts a trip. A creator that does not exist is reported as
// an apperror.ErrNotFound error.
func (db *DB) CreateTrip(ctx context.Context, t *model.Trip) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		t.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO trips (creator_id, title, destination, details, start_datetime, transport, max_people, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.CreatorID, t.Title, t.Destination, t.Details,
			t.StartDatetime, t.Transport, t.MaxPeople, t.CreatedAt,
		)
		if err != nil {
			if err = mapError(err); errors.Is(err, ErrForeignKey) {
				return apperror.NotFound("user", t.CreatorID)
			}
			return fmt.Errorf("sqlstore: inserting trip: %w", err)
		}

		if t.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlstore: reading trip id: %w", err)
		}
		return nil
	})
}

// GetTrip returns one trip with its creator name.
func (db *DB) GetTrip(ctx context.Context, id int64) (*model.Trip, error) {
	var t model.Trip
	if err := db.conn.GetContext(ctx, &t, selectTrips+` WHERE t.id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("trip", id)
		}
		return nil, fmt.Errorf("sqlstore: getting trip %d: %w", id, err)
	}
	return &t, nil
}

// ListTripsByCreator returns the trips a user created, soonest first.
func (db *DB) ListTripsByCreator(ctx context.Context, creatorID int64) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := db.conn.SelectContext(ctx, &trips,
		selectTrips+` WHERE t.creator_id = ? ORDER BY t.start_datetime ASC, t.id ASC`, creatorID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing trips of user %d: %w", creatorID, err)
	}
	return trips, nil
}

// ListTripsExcludingCreator returns up to limit trips created by anyone
// other than creatorID, soonest first.
func (db *DB) ListTripsExcludingCreator(ctx context.Context, creatorID int64, limit int) ([]model.Trip, error) {
	trips := []model.Trip{}
	err := db.conn.SelectContext(ctx, &trips,
		selectTrips+` WHERE t.creator_id <> ? ORDER BY t.start_datetime ASC, t.id ASC LIMIT ?`,
		creatorID, limit)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing trips excluding user %d: %w", creatorID, err)
	}
	return trips, nil
}

// SearchTrips returns trips whose destination or title contains text,
// ignoring case. LIKE wildcards in text match literally.
func (db *DB) SearchTrips(ctx context.Context, text string) ([]model.Trip, error) {
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"

	lower := db.lowerFunc()

	trips := []model.Trip{}
	err := db.conn.SelectContext(ctx, &trips,
		selectTrips+`
		WHERE `+lower+`(t.destination) LIKE ? ESCAPE '`+likeEscape+`'
		   OR `+lower+`(t.title) LIKE ? ESCAPE '`+likeEscape+`'
		ORDER BY t.start_datetime ASC, t.id ASC`,
		pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: searching trips: %w", err)
	}
	return trips, nil
}

// AddParticipant records that userID joined tripID.
//
// Only the two constraint violations are translated: the (trip_id, user_id)
// unique key means the user already joined, and the trips foreign key means
// the trip does not exist. Anything else (a dropped connection, a full disk)
// is returned as a store failure.
func (db *DB) AddParticipant(ctx context.Context, tripID, userID int64) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO trip_participants (trip_id, user_id, joined_at) VALUES (?, ?, ?)`,
			tripID, userID, time.Now().UTC().Truncate(time.Microsecond),
		)
		if err == nil {
			return nil
		}

		err = mapError(err)
		switch {
		case errors.Is(err, ErrDuplicateKey):
			return apperror.ErrAlreadyJoined
		case errors.Is(err, ErrForeignKey):
			return apperror.NotFound("trip", tripID)
		}
		return fmt.Errorf("sqlstore: adding user %d to trip %d: %w", userID, tripID, err)
	})
}

// ListParticipants returns a trip's travelers in join order.
func (db *DB) ListParticipants(ctx context.Context, tripID int64) ([]model.Participant, error) {
	participants := []model.Participant{}
	err := db.conn.SelectContext(ctx, &participants,
		`SELECT u.id AS user_id, u.name
		 FROM trip_participants p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.trip_id = ?
		 ORDER BY p.joined_at ASC, u.id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing participants of trip %d: %w", tripID, err)
	}
	return participants, nil
}

// IsParticipant reports whether userID has joined tripID.
func (db *DB) IsParticipant(ctx context.Context, tripID, userID int64) (bool, error) {
	var n int
	err := db.conn.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM trip_participants WHERE trip_id = ? AND user_id = ?`, tripID, userID)
	if err != nil {
		return false, fmt.Errorf("sqlstore: checking participation: %w", err)
	}
	return n > 0, nil
}

// escapeLike makes %, _ and the escape character itself match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(
		likeEscape, likeEscape+likeEscape,
		"%", likeEscape+"%",
		"_", likeEscape+"_",
	).Replace(s)
}
