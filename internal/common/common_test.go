package common

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != n*2 {
		t.Fatalf("expected hex length %d, got %d", n*2, len(s))
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("string is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error for size=0: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string for size=0, got %q", s)
	}
}

func TestValidationError_JoinsAllMessages(t *testing.T) {
	err := &ValidationError{Messages: []string{"write a valid email", "password must be at least 8 characters"}}

	want := "validation error: write a valid email; password must be at least 8 characters"
	if err.Error() != want {
		t.Fatalf("got %q want %q", err.Error(), want)
	}

	var ve *ValidationError
	wrapped := fmt.Errorf("signup: %w", err)
	if !errors.As(wrapped, &ve) || len(ve.Messages) != 2 {
		t.Fatalf("errors.As failed on wrapped validation error: %v", wrapped)
	}
}
