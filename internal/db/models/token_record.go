package models

import "time"

// TokenRecord holds the AES-GCM ciphertext of a user's GitHub access token.
// The user_id primary key enforces at most one live token per user; a new
// authorization replaces the row instead of adding another.
type TokenRecord struct {
	UserID     string `gorm:"primaryKey"`
	Ciphertext string
	Scopes     string // comma-separated granted scopes
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
