package store

import (
	"context"
	"errors"
	"testing"

	"github.com/martomarzo/shutupandtakemythings/internal/db"
)

func TestGetAdminUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	EnsureAdminUser(ctx, database, "admin", "hash123")
	byName, err := GetAdminUserByUsername(ctx, database, "admin")
	if err != nil {
		t.Fatalf("GetAdminUserByUsername: %v", err)
	}
	if byName.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetAdminUser(ctx, database, byName.ID)
	if err != nil {
		t.Fatalf("GetAdminUser: %v", err)
	}
	if got.Username != "admin" || got.PasswordHash != "hash123" {
		t.Errorf("unexpected user: %+v", got)
	}

	if _, err := GetAdminUser(ctx, database, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestGetAdminUserByUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	EnsureAdminUser(ctx, database, "alice", "hash")

	user, err := GetAdminUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetAdminUserByUsername: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("expected 'alice', got %q", user.Username)
	}

	_, err = GetAdminUserByUsername(ctx, database, "bob")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestEnsureAdminUserIdempotent(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	created, err := EnsureAdminUser(ctx, database, "admin", "first")
	if err != nil {
		t.Fatalf("EnsureAdminUser: %v", err)
	}
	if !created {
		t.Error("expected first call to create the account")
	}

	created, err = EnsureAdminUser(ctx, database, "admin", "second")
	if err != nil {
		t.Fatalf("EnsureAdminUser: %v", err)
	}
	if created {
		t.Error("expected second call to be a no-op")
	}

	user, _ := GetAdminUserByUsername(ctx, database, "admin")
	if user.PasswordHash != "first" {
		t.Errorf("expected original hash to be kept, got %q", user.PasswordHash)
	}
}

func TestUpdateAdminPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	EnsureAdminUser(ctx, database, "pwuser", "oldhash")
	user, _ := GetAdminUserByUsername(ctx, database, "pwuser")
	if err := UpdateAdminPassword(ctx, database, user.ID, "newhash"); err != nil {
		t.Fatalf("UpdateAdminPassword: %v", err)
	}

	got, _ := GetAdminUser(ctx, database, user.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected password hash 'newhash', got %q", got.PasswordHash)
	}

	if err := UpdateAdminPassword(ctx, database, 999, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}
}
