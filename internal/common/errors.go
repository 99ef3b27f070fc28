// Package common defines sentinel errors and small helpers shared by the
// server layers of gophauth. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound     = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already exists")
	ErrStorage        = errors.New("storage error")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrHashing        = errors.New("hashing failure")

	// Mail delivery errors.
	ErrMailDispatch = errors.New("mail dispatch failed")
	ErrMailTimeout  = errors.New("mail dispatch timed out")

	// Session token errors.
	ErrInvalidToken          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")

	// Email verification errors.
	ErrVerificationInvalid = errors.New("verification link invalid")
	ErrVerificationExpired = errors.New("verification link expired")
	ErrAlreadyVerified     = errors.New("email already verified")
)
