package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/martomarzo/shutupandtakemythings/internal/model"
	"github.com/martomarzo/shutupandtakemythings/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("access token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// Service authenticates the admin account and issues tokens.
type Service struct {
	DB     *sql.DB
	Secret string

	// HashCost is the bcrypt cost for new hashes. Zero means bcrypt.DefaultCost.
	HashCost int

	decoyOnce sync.Once
	decoyHash string
}

// Login checks credentials and returns a signed token for the account.
func (s *Service) Login(ctx context.Context, username, password string) (string, *model.AdminUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", nil, model.NewValidationError("username and password required")
	}

	user, err := store.GetAdminUserByUsername(ctx, s.DB, username)
	if errors.Is(err, store.ErrNotFound) {
		// Unknown users pay for a hash comparison too, so response times
		// do not reveal which usernames exist.
		bcrypt.CompareHashAndPassword([]byte(s.decoy()), []byte(password))
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.Secret, user.ID, user.Username)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Verify validates a bearer token and returns its claims.
func (s *Service) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := ValidateToken(s.Secret, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims.ID != "" {
		revoked, err := store.SessionRevoked(ctx, s.DB, claims.ID, time.Now())
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrInvalidToken
		}
	}

	return claims, nil
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, claims *Claims, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return model.NewValidationError("current and new passwords required")
	}
	if err := model.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := store.GetAdminUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidCredentials)
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	return store.UpdateAdminPassword(ctx, s.DB, user.ID, hash)
}

// Logout revokes the token the claims were read from.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims.ID == "" {
		return nil
	}
	expiresAt := time.Now().Add(TokenExpiry)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := store.RevokeSession(ctx, s.DB, claims.ID, expiresAt); err != nil {
		return err
	}

	pruned, err := store.PruneRevokedSessions(ctx, s.DB, time.Now())
	if err != nil {
		slog.Warn("failed to prune revoked sessions", "error", err)
	} else if pruned > 0 {
		slog.Debug("pruned revoked sessions", "count", pruned)
	}
	return nil
}

// EnsureAdmin creates the admin account with the given password if it does
// not exist yet. It reports whether the account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	if _, err := store.GetAdminUserByUsername(ctx, s.DB, username); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	return store.EnsureAdminUser(ctx, s.DB, username, hash)
}

// ResetPassword sets a new password without knowing the old one. It is meant
// for operators with direct access to the database.
func (s *Service) ResetPassword(ctx context.Context, username, newPassword string) error {
	if err := model.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := store.GetAdminUserByUsername(ctx, s.DB, username)
	if err != nil {
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	return store.UpdateAdminPassword(ctx, s.DB, user.ID, hash)
}

// decoy returns a hash at the service's cost, computed on first use.
func (s *Service) decoy() string {
	s.decoyOnce.Do(func() {
		hash, err := s.hash("unknown-admin-user")
		if err != nil {
			slog.Warn("failed to prepare decoy hash", "error", err)
			return
		}
		s.decoyHash = hash
	})
	return s.decoyHash
}

func (s *Service) hash(password string) (string, error) {
	cost := s.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
