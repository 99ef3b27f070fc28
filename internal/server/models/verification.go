package models

import "time"

// Verification is a pending email verification for a user. UniqueStringHash
// is the bcrypt hash of the one-time string embedded in the emailed link.
type Verification struct {
	ID               string
	UserID           string
	UniqueStringHash string
	CreatedAt        time.Time
	ExpiresAt        time.Time
}

// Expired reports whether the verification can no longer be consumed at now.
func (v *Verification) Expired(now time.Time) bool {
	return !now.Before(v.ExpiresAt)
}
