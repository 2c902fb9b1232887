package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/martomarzo/shutupandtakemythings/internal/model"
)

// EnsureAdminUser creates the account unless the username already exists.
// It reports whether a row was inserted.
func EnsureAdminUser(ctx context.Context, db *sql.DB, username, passwordHash string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_users (username, password_hash) VALUES (?, ?)`,
		username, passwordHash,
	)
	if err != nil {
		return false, fmt.Errorf("ensuring admin user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking affected rows: %w", err)
	}
	return n > 0, nil
}

// GetAdminUser returns an admin account by ID, or ErrNotFound.
func GetAdminUser(ctx context.Context, db *sql.DB, id int64) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin user: %w", err)
	}
	return u, nil
}

// GetAdminUserByUsername returns an admin account by username, or ErrNotFound.
func GetAdminUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.AdminUser, error) {
	u := &model.AdminUser{}
	err := db.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`, username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting admin user by username: %w", err)
	}
	return u, nil
}

// UpdateAdminPassword replaces an admin account's password hash.
func UpdateAdminPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = ? WHERE id = ?`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin password: %w", err)
	}
	return requireAffected(result)
}
