package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Logged-out admin sessions are remembered by token ID until the token would
// have expired on its own. After that the signature check rejects it and the
// row only takes up space.

// RevokeSession records that the session with the given token ID has ended.
// Revoking twice keeps the later expiry.
func RevokeSession(ctx context.Context, db *sql.DB, tokenID string, expiresAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?, ?)
		 ON CONFLICT (jti) DO UPDATE SET expires_at = MAX(expires_at, excluded.expires_at)`,
		tokenID, expiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}

// SessionRevoked reports whether a session was logged out and its token has
// not expired yet at now.
func SessionRevoked(ctx context.Context, db *sql.DB, tokenID string, now time.Time) (bool, error) {
	var revoked bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = ? AND expires_at > ?)`,
		tokenID, now.UTC(),
	).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("checking session revocation: %w", err)
	}
	return revoked, nil
}

// PruneRevokedSessions drops revocations whose tokens expired before now and
// returns how many were removed.
func PruneRevokedSessions(ctx context.Context, db *sql.DB, now time.Time) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("pruning revoked sessions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned sessions: %w", err)
	}
	return n, nil
}
