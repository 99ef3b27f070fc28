// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account created by signup. PasswordHash is a bcrypt hash; the
// plaintext password is never stored.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Permissions  []string
	Verified     bool
	CreatedAt    time.Time
}
