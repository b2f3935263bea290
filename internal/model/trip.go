package model

import "time"

// DefaultMaxPeople is used when a trip is created without a participant cap.
const DefaultMaxPeople = 5

// Trip is a planned journey owned by its creator.
//
// CreatorName is not a column of trips; repositories fill it from a join on
// users so list and detail views can show who organised the trip.
type Trip struct {
	ID            int64     `json:"id"             db:"id"`
	CreatorID     int64     `json:"creator_id"     db:"creator_id"`
	CreatorName   string    `json:"creator_name"   db:"creator_name"`
	Title         string    `json:"title"          db:"title"`
	Destination   string    `json:"destination"    db:"destination"`
	Details       string    `json:"details"        db:"details"`
	StartDatetime time.Time `json:"start_datetime" db:"start_datetime"`
	Transport     string    `json:"transport"      db:"transport"`
	MaxPeople     int       `json:"max_people"     db:"max_people"`
	CreatedAt     time.Time `json:"created_at"     db:"created_at"`
}

// Participant is one entry of a trip's traveler list.
type Participant struct {
	UserID int64  `json:"id"   db:"user_id"`
	Name   string `json:"name" db:"name"`
}

// TripDetail bundles everything the trip page shows for one viewer.
type TripDetail struct {
	Trip         *Trip
	Participants []Participant
	Joined       bool // whether the viewer is in Participants
}
