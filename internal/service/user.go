// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses forms and JSON, writes redirects and bodies
//	Service (Business layer) → normalizes, validates, enforces rules
//	Repository (Data layer)  → reads/writes the relational store
//
// Services take repository interfaces, never *sqlstore.DB, so their tests run
// against in-memory fakes (see user_test.go) and the same code serves SQLite
// in development and MySQL in production.
//
// Services return apperror values, never HTTP status codes. The handler
// decides whether a given error becomes a flash message, a redirect or a
// JSON body.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/auth"
	"github.com/sakif/travel-together/internal/model"
	"github.com/sakif/travel-together/internal/repository"
)

// UserService handles registration, login and profile edits.
//
// DEPENDENCIES (injected via NewUserService):
//   - users      repository.UserRepository → read/write user records
//   - passwords  *auth.PasswordService     → bcrypt hashing
//   - logger     *slog.Logger              → structured logging
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger

	// dummyHash is compared against when the email is unknown, so a failed
	// login costs one bcrypt comparison whether or not the account exists.
	dummyHash string
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	// Hashing a short constant cannot fail.
	dummy, _ := passwords.Hash("travel-together-dummy-password")

	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
		dummyHash: dummy,
	}
}

// normalizeEmail is the single place emails are canonicalized, so Register
// and Authenticate can never disagree about what "the same address" means.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account.
//
// The name is trimmed, the email trimmed and lowercased. Name, email and
// password are required. Returns apperror.ErrDuplicateEmail when the
// address already has an account.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "Name is required")
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "Email is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "Password is required")
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apperror.ValidationFailed("password", "Password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("service/user: hashing password: %w", err)
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			return nil, err
		}
		s.logger.Error("failed to register user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/user: creating user: %w", err)
	}

	s.logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, nil
}

// Authenticate checks an email and password pair.
//
// An unknown email and a wrong password both return
// apperror.ErrInvalidCredentials, so the response does not reveal which
// addresses have accounts.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.passwords.Verify(s.dummyHash, password)
			return nil, apperror.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service/user: looking up user: %w", err)
	}

	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.ErrInvalidCredentials
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return user, nil
}

// UpdateProfile overwrites the display name and city. Both are stored
// exactly as given, empty and surrounding whitespace included. The updated user is returned so the caller can refresh
// the session's display name.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, name, city string) (*model.User, error) {
	if err := s.users.UpdateUserProfile(ctx, userID, name, city); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/user: updating profile of %d: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.Int64("userID", userID))
	return s.Get(ctx, userID)
}

// Get returns the user with the given id.
// Returns an apperror.ErrNotFound error when it does not exist.
func (s *UserService) Get(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
