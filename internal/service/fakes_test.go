package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/model"
	"golang.org/x/crypto/bcrypt"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeStore is an in-memory implementation of all three repository
// interfaces. Using a fake (not a mock framework) keeps the behaviour under
// test visible: it enforces the same uniqueness rules as the real schema.
type fakeStore struct {
	users    map[int64]*model.User
	trips    map[int64]*model.Trip
	joins    map[[2]int64]int // (trip, user) → join order
	messages []model.Message
	nextID   int64

	// set to a non-nil error to simulate a store failure
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[int64]*model.User),
		trips: make(map[int64]*model.Trip),
		joins: make(map[[2]int64]int),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateUser(_ context.Context, u *model.User) error {
	if f.failWith != nil {
		return f.failWith
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return apperror.ErrDuplicateEmail
		}
	}
	u.ID = f.id()
	u.CreatedAt = time.Now().UTC()
	copied := *u
	f.users[u.ID] = &copied
	return nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeStore) UpdateUserProfile(_ context.Context, id int64, name, city string) error {
	u, ok := f.users[id]
	if !ok {
		return apperror.NotFound("user", id)
	}
	u.Name, u.City = name, city
	return nil
}

func (f *fakeStore) CreateTrip(_ context.Context, t *model.Trip) error {
	if f.failWith != nil {
		return f.failWith
	}
	t.ID = f.id()
	copied := *t
	f.trips[t.ID] = &copied
	return nil
}

func (f *fakeStore) GetTrip(_ context.Context, id int64) (*model.Trip, error) {
	if t, ok := f.trips[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, apperror.NotFound("trip", id)
}

func (f *fakeStore) sorted(keep func(*model.Trip) bool) []model.Trip {
	out := []model.Trip{}
	for _, t := range f.trips {
		if keep(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDatetime.Equal(out[j].StartDatetime) {
			return out[i].StartDatetime.Before(out[j].StartDatetime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (f *fakeStore) ListTripsByCreator(_ context.Context, creatorID int64) ([]model.Trip, error) {
	return f.sorted(func(t *model.Trip) bool { return t.CreatorID == creatorID }), nil
}

func (f *fakeStore) ListTripsExcludingCreator(_ context.Context, creatorID int64, limit int) ([]model.Trip, error) {
	out := f.sorted(func(t *model.Trip) bool { return t.CreatorID != creatorID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) SearchTrips(_ context.Context, text string) ([]model.Trip, error) {
	text = strings.ToLower(text)
	return f.sorted(func(t *model.Trip) bool {
		return strings.Contains(strings.ToLower(t.Destination), text) ||
			strings.Contains(strings.ToLower(t.Title), text)
	}), nil
}

func (f *fakeStore) AddParticipant(_ context.Context, tripID, userID int64) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.trips[tripID]; !ok {
		return apperror.NotFound("trip", tripID)
	}
	key := [2]int64{tripID, userID}
	if _, ok := f.joins[key]; ok {
		return apperror.ErrAlreadyJoined
	}
	f.joins[key] = len(f.joins)
	return nil
}

func (f *fakeStore) ListParticipants(_ context.Context, tripID int64) ([]model.Participant, error) {
	type joined struct {
		order int
		p     model.Participant
	}
	var rows []joined
	for key, order := range f.joins {
		if key[0] == tripID {
			rows = append(rows, joined{order, model.Participant{UserID: key[1], Name: f.users[key[1]].Name}})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].order < rows[j].order })

	out := []model.Participant{}
	for _, r := range rows {
		out = append(out, r.p)
	}
	return out, nil
}

func (f *fakeStore) IsParticipant(_ context.Context, tripID, userID int64) (bool, error) {
	_, ok := f.joins[[2]int64{tripID, userID}]
	return ok, nil
}

func (f *fakeStore) CreateMessage(_ context.Context, m *model.Message) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.trips[m.TripID]; !ok {
		return apperror.NotFound("trip", m.TripID)
	}
	m.ID = f.id()
	m.SentAt = time.Now().UTC()
	stored := *m
	stored.SenderName = f.users[m.SenderID].Name
	f.messages = append(f.messages, stored)
	return nil
}

// ListMessages returns nil for an empty log, as a driver might, so the
// service's empty-slice guarantee is exercised.
func (f *fakeStore) ListMessages(_ context.Context, tripID int64) ([]model.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []model.Message
	for _, m := range f.messages {
		if m.TripID == tripID {
			out = append(out, m)
		}
	}
	return out, nil
}

var errStoreDown = errors.New("store: connection refused")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestServices wires all three services to one fake store.
// bcrypt.MinCost keeps the password tests fast.
func newTestServices(t *testing.T) (*UserService, *TripService, *MessageService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	logger := discardLogger()
	passwords := auth.NewPasswordServiceWithCost(bcrypt.MinCost)

	return NewUserService(store, passwords, logger),
		NewTripService(store, logger),
		NewMessageService(store, logger),
		store
}

func mustRegister(t *testing.T, users *UserService, name, email string) *model.User {
	t.Helper()
	u, err := users.Register(context.Background(), name, email, "secret-pw")
	if err != nil {
		t.Fatalf("Register(%q) error = %v", email, err)
	}
	return u
}

func mustCreateTrip(t *testing.T, trips *TripService, creator *model.User, destination, start string) *model.Trip {
	t.Helper()
	trip, err := trips.Create(context.Background(), CreateTripInput{
		CreatorID:     creator.ID,
		Destination:   destination,
		StartDatetime: start,
	})
	if err != nil {
		t.Fatalf("Create(%q) error = %v", destination, err)
	}
	return trip
}
