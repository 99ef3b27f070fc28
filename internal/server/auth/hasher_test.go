package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_RoundTrip(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)

	a, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	b, err := h.Hash("correct horse")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same input should differ")
	}
	if !h.Verify("correct horse", a) || !h.Verify("correct horse", b) {
		t.Fatal("both hashes should verify")
	}
	if h.Verify("wrong horse", a) {
		t.Fatal("wrong input verified")
	}
}

func TestBcryptHasher_MalformedHash(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("pw", "not-a-bcrypt-hash") {
		t.Fatal("malformed hash should not verify")
	}
	if h.Verify("pw", "") {
		t.Fatal("empty hash should not verify")
	}
}

func TestBcryptHasher_TooLong(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher(bcrypt.MinCost)
	_, err := h.Hash(strings.Repeat("x", 73))
	if !errors.Is(err, common.ErrHashing) {
		t.Fatalf("expected ErrHashing, got %v", err)
	}

	if _, err := h.Hash(strings.Repeat("x", 72)); err != nil {
		t.Fatalf("72 bytes should hash, got %v", err)
	}
}

func TestNewBcryptHasher_CostClamp(t *testing.T) {
	t.Parallel()

	if got := NewBcryptHasher(0).cost; got != bcrypt.DefaultCost {
		t.Fatalf("cost 0 should fall back to default, got %d", got)
	}
	if got := NewBcryptHasher(12).cost; got != 12 {
		t.Fatalf("cost 12 should be kept, got %d", got)
	}
}
