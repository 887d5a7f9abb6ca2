package models

import "time"

// User is the stable identity behind a session, created on first successful
// OAuth exchange. One row per GitHub account; the handle and email are
// refreshed on every login, the row is never deleted by this service.
type User struct {
	ID        string `gorm:"primaryKey"` // UUID
	GithubID  int64  `gorm:"uniqueIndex"`
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
