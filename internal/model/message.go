package model

import "time"

// Message is one entry of a trip's chat log. Messages are append-only.
type Message struct {
	ID         int64     `json:"id"          db:"id"`
	TripID     int64     `json:"trip_id"     db:"trip_id"`
	SenderID   int64     `json:"sender_id"   db:"sender_id"`
	SenderName string    `json:"sender_name" db:"sender_name"`
	Content    string    `json:"content"     db:"content"`
	SentAt     time.Time `json:"sent_at"     db:"sent_at"`
}
