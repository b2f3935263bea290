package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/travel-together/internal/apperror"
	"github.com/sakif/travel-together/internal/model"
)

func TestCreateUser(t *testing.T) {
	db := newTestDB(t)

	u := &model.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash", City: "Dhaka"}
	if err := db.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	if u.ID <= 0 {
		t.Error("CreateUser() did not set u.ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("CreateUser() did not set u.CreatedAt")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "Ana", "ana@example.com")

	err := db.CreateUser(context.Background(), &model.User{Name: "Other", Email: "ana@example.com", PasswordHash: "x"})
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Fatalf("CreateUser() error = %v, want ErrDuplicateEmail", err)
	}
}

func TestGetUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	created := createTestUser(t, db, "Ana", "ana@example.com")

	byID, err := db.GetUserByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if byID.Email != "ana@example.com" || byID.PasswordHash != "hash" {
		t.Errorf("GetUserByID() = %+v", byID)
	}
	if !byID.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", byID.CreatedAt, created.CreatedAt)
	}

	byEmail, err := db.GetUserByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if byEmail.ID != created.ID {
		t.Errorf("GetUserByEmail() id = %d, want %d", byEmail.ID, created.ID)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetUserByID(ctx, 404); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrNotFound", err)
	}
	if _, err := db.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByEmail() error = %v, want ErrNotFound", err)
	}
}

func TestUpdateUserProfile(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	u := createTestUser(t, db, "Ana", "ana@example.com")

	if err := db.UpdateUserProfile(ctx, u.ID, "Ana Lima", "Sylhet"); err != nil {
		t.Fatalf("UpdateUserProfile() error = %v", err)
	}

	got, _ := db.GetUserByID(ctx, u.ID)
	if got.Name != "Ana Lima" || got.City != "Sylhet" {
		t.Errorf("after update got name=%q city=%q", got.Name, got.City)
	}
	if got.Email != "ana@example.com" {
		t.Errorf("email changed to %q", got.Email)
	}

	// Writing the same values again is not a missing row.
	if err := db.UpdateUserProfile(ctx, u.ID, "Ana Lima", "Sylhet"); err != nil {
		t.Errorf("idempotent UpdateUserProfile() error = %v", err)
	}
}

func TestUpdateUserProfile_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateUserProfile(context.Background(), 999, "x", "y")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateUserProfile() error = %v, want ErrNotFound", err)
	}
}
