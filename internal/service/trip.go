package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

// DefaultOthersLimit is how many other users' trips the dashboard shows.
const DefaultOthersLimit = 10

// startLayouts are the accepted start_datetime forms: what an HTML
// datetime-local input submits, with or without seconds, and the same with
// a space instead of the "T".
var startLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02 15:04:05",
}

// ParseStartDatetime parses a trip start time. The value carries no zone
// and is read as UTC. Returns apperror.ErrInvalidDateTime for anything else.
func ParseStartDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperror.ErrInvalidDateTime
}

// CreateTripInput is the create form as submitted. Every field is raw text;
// Create parses and defaults them.
type CreateTripInput struct {
	CreatorID     int64
	Title         string
	Destination   string
	Details       string
	StartDatetime string
	Transport     string
	MaxPeople     string // blank means model.DefaultMaxPeople
}

// TripService handles trip creation, discovery and joining.
type TripService struct {
	trips  repository.TripRepository
	logger *slog.Logger
}

func NewTripService(trips repository.TripRepository, logger *slog.Logger) *TripService {
	return &TripService{trips: trips, logger: logger}
}

// Create validates the input and stores a new trip.
//
// Nothing is written when validation fails: an unparseable start time
// returns apperror.ErrInvalidDateTime, a blank destination or a non-numeric
// max_people returns a validation error for that field.
func (s *TripService) Create(ctx context.Context, in CreateTripInput) (*model.Trip, error) {
	destination := strings.TrimSpace(in.Destination)
	if destination == "" {
		return nil, apperror.ValidationFailed("destination", "Destination is required")
	}

	start, err := ParseStartDatetime(in.StartDatetime)
	if err != nil {
		return nil, err
	}

	maxPeople := model.DefaultMaxPeople
	if raw := strings.TrimSpace(in.MaxPeople); raw != "" {
		if maxPeople, err = strconv.Atoi(raw); err != nil {
			return nil, apperror.ValidationFailed("max_people", "Max people must be a whole number")
		}
	}

	trip := &model.Trip{
		CreatorID:     in.CreatorID,
		Title:         strings.TrimSpace(in.Title),
		Destination:   destination,
		Details:       strings.TrimSpace(in.Details),
		StartDatetime: start,
		Transport:     strings.TrimSpace(in.Transport),
		MaxPeople:     maxPeople,
	}

	if err := s.trips.CreateTrip(ctx, trip); err != nil {
		s.logger.Error("failed to create trip",
			slog.Int64("creatorID", in.CreatorID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/trip: creating trip: %w", err)
	}

	s.logger.Info("trip created",
		slog.Int64("tripID", trip.ID),
		slog.Int64("creatorID", trip.CreatorID),
		slog.String("destination", trip.Destination),
	)
	return trip, nil
}

// ListOwned returns the trips userID created, soonest first.
func (s *TripService) ListOwned(ctx context.Context, userID int64) ([]model.Trip, error) {
	return s.trips.ListTripsByCreator(ctx, userID)
}

// ListOthers returns up to limit trips created by other users, soonest
// first. A non-positive limit means DefaultOthersLimit.
func (s *TripService) ListOthers(ctx context.Context, excludeUserID int64, limit int) ([]model.Trip, error) {
	if limit <= 0 {
		limit = DefaultOthersLimit
	}
	return s.trips.ListTripsExcludingCreator(ctx, excludeUserID, limit)
}

// Get returns one trip, or an apperror.ErrNotFound error.
func (s *TripService) Get(ctx context.Context, tripID int64) (*model.Trip, error) {
	return s.trips.GetTrip(ctx, tripID)
}

// Search finds trips whose destination or title contains text, ignoring
// case. Blank text matches nothing.
func (s *TripService) Search(ctx context.Context, text string) ([]model.Trip, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []model.Trip{}, nil
	}
	return s.trips.SearchTrips(ctx, text)
}

// Join adds userID to the trip's travelers.
//
// apperror.ErrAlreadyJoined is returned as is; callers treat it as a soft
// warning. An unknown trip is an apperror.ErrNotFound error. Any other
// failure is a store error.
func (s *TripService) Join(ctx context.Context, tripID, userID int64) error {
	err := s.trips.AddParticipant(ctx, tripID, userID)
	switch {
	case err == nil:
		s.logger.Info("trip joined", slog.Int64("tripID", tripID), slog.Int64("userID", userID))
		return nil
	case errors.Is(err, apperror.ErrAlreadyJoined), errors.Is(err, apperror.ErrNotFound):
		return err
	}

	s.logger.Error("failed to join trip",
		slog.Int64("tripID", tripID),
		slog.Int64("userID", userID),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("service/trip: joining trip %d: %w", tripID, err)
}

// Participants returns the trip's travelers in join order.
func (s *TripService) Participants(ctx context.Context, tripID int64) ([]model.Participant, error) {
	return s.trips.ListParticipants(ctx, tripID)
}

// IsJoined reports whether userID is one of the trip's travelers.
func (s *TripService) IsJoined(ctx context.Context, tripID, userID int64) (bool, error) {
	return s.trips.IsParticipant(ctx, tripID, userID)
}

// Detail gathers what the trip page shows to viewerID.
func (s *TripService) Detail(ctx context.Context, tripID, viewerID int64) (*model.TripDetail, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	participants, err := s.Participants(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service/trip: listing participants: %w", err)
	}

	joined, err := s.IsJoined(ctx, tripID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("service/trip: checking participation: %w", err)
	}

	return &model.TripDetail{Trip: trip, Participants: participants, Joined: joined}, nil
}
