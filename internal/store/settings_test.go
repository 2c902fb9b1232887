package store

import (
	"context"
	"testing"

	"github.com/martomarzo/shutupandtakemythings/internal/db"
)

func TestGetJWTSecretGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := GetJWTSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestGetOrCreateSettingKeepsFirstValue(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	v, err := GetOrCreateSetting(ctx, database, "greeting", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello" {
		t.Errorf("expected 'hello', got %q", v)
	}

	v, err = GetOrCreateSetting(ctx, database, "greeting", "goodbye")
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello" {
		t.Errorf("expected stored value 'hello', got %q", v)
	}
}
