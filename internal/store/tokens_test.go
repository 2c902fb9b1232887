package store

import (
	"context"
	"testing"
	"time"

	"github.com/martomarzo/shutupandtakemythings/internal/db"
)

func TestRevokeSession(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := SessionRevoked(ctx, database, "jti-1", baseTime)
	if err != nil {
		t.Fatalf("SessionRevoked: %v", err)
	}
	if revoked {
		t.Error("expected session not to be revoked")
	}

	if err := RevokeSession(ctx, database, "jti-1", baseTime.Add(time.Hour)); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}

	revoked, err = SessionRevoked(ctx, database, "jti-1", baseTime)
	if err != nil {
		t.Fatalf("SessionRevoked: %v", err)
	}
	if !revoked {
		t.Error("expected session to be revoked")
	}

	if revoked, _ := SessionRevoked(ctx, database, "jti-2", baseTime); revoked {
		t.Error("expected a different session not to be revoked")
	}
	if revoked, _ := SessionRevoked(ctx, database, "jti-1", baseTime.Add(2*time.Hour)); revoked {
		t.Error("expected revocation to lapse once the token has expired")
	}
}

func TestRevokeSessionTwiceKeepsLaterExpiry(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := RevokeSession(ctx, database, "jti-1", baseTime.Add(2*time.Hour)); err != nil {
		t.Fatalf("first RevokeSession: %v", err)
	}
	if err := RevokeSession(ctx, database, "jti-1", baseTime.Add(time.Hour)); err != nil {
		t.Fatalf("second RevokeSession: %v", err)
	}

	revoked, _ := SessionRevoked(ctx, database, "jti-1", baseTime.Add(90*time.Minute))
	if !revoked {
		t.Error("expected the later expiry to be kept")
	}
}

func TestPruneRevokedSessions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	RevokeSession(ctx, database, "expired", baseTime.Add(-time.Hour))
	RevokeSession(ctx, database, "live", baseTime.Add(time.Hour))

	n, err := PruneRevokedSessions(ctx, database, baseTime)
	if err != nil {
		t.Fatalf("PruneRevokedSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned session, got %d", n)
	}

	var count int
	database.QueryRow(`SELECT COUNT(*) FROM revoked_tokens`).Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 remaining revocation, got %d", count)
	}
	if revoked, _ := SessionRevoked(ctx, database, "live", baseTime); !revoked {
		t.Error("expected live revocation to remain")
	}
}
