package model

import "time"

// Admin is an administrator account with local password auth.
type Admin struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session is a server-side admin session. EditMode toggles the inline editing
// overlay on public pages; it lives on the session so it survives navigation.
type Session struct {
	ID        string
	AdminID   string
	EditMode  bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
