package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

var _ repository.MessageRepository = (*DB)(nil)

// CreateMessage appends a message to a trip's chat log. SentAt is assigned
// here, in UTC, truncated to the microsecond precision of DATETIME(6).
func (db *DB) CreateMessage(ctx context.Context, m *model.Message) error {
	return db.withTx(ctx, func(tx *sqlx.Tx) error {
		m.SentAt = time.Now().UTC().Truncate(time.Microsecond)
		res, err := tx.ExecContext(ctx,
			`INSERT INTO messages (trip_id, sender_id, content, sent_at) VALUES (?, ?, ?, ?)`,
			m.TripID, m.SenderID, m.Content, m.SentAt,
		)
		if err != nil {
			if err = mapError(err); errors.Is(err, ErrForeignKey) {
				return apperror.NotFound("trip", m.TripID)
			}
			return fmt.Errorf("sqlstore: inserting message: %w", err)
		}

		if m.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("sqlstore: reading message id: %w", err)
		}
		return nil
	})
}

// ListMessages returns a trip's chat log, oldest first. Messages sharing a
// timestamp keep insertion order.
func (db *DB) ListMessages(ctx context.Context, tripID int64) ([]model.Message, error) {
	messages := []model.Message{}
	err := db.conn.SelectContext(ctx, &messages,
		`SELECT m.id, m.trip_id, m.sender_id, u.name AS sender_name, m.content, m.sent_at
		 FROM messages m
		 JOIN users u ON u.id = m.sender_id
		 WHERE m.trip_id = ?
		 ORDER BY m.sent_at ASC, m.id ASC`, tripID)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: listing messages of trip %d: %w", tripID, err)
	}
	return messages, nil
}
