package model

import "time"

// AdminUser is the account allowed to manage listings.
type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// MinPasswordLength is the shortest password accepted on rotation.
const MinPasswordLength = 6

// ValidatePassword checks a new password against the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("new password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
