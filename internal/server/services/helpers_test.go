package services

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/mail"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/verifications"
	"golang.org/x/crypto/bcrypt"
)

var errDBDown = errors.New("db down")

// stubManager overrides single repositories of an in-memory manager.
type stubManager struct {
	*repomanager.MemoryRepositoryManager
	users         users.Repository
	verifications verifications.Repository
}

func (m *stubManager) Users(db dbx.DBTX) users.Repository {
	if m.users != nil {
		return m.users
	}
	return m.MemoryRepositoryManager.Users(db)
}

func (m *stubManager) Verifications(db dbx.DBTX) verifications.Repository {
	if m.verifications != nil {
		return m.verifications
	}
	return m.MemoryRepositoryManager.Verifications(db)
}

type failingUsers struct{}

func (failingUsers) Create(context.Context, *models.User) (*models.User, error) {
	return nil, errDBDown
}
func (failingUsers) GetUserByEmail(context.Context, string) (*models.User, error) {
	return nil, errDBDown
}
func (failingUsers) GetUserByID(context.Context, string) (*models.User, error) { return nil, errDBDown }
func (failingUsers) MarkVerified(context.Context, string) error                { return errDBDown }

type failingVerifications struct{}

func (failingVerifications) Create(context.Context, *models.Verification) (*models.Verification, error) {
	return nil, errDBDown
}
func (failingVerifications) FindByUserID(context.Context, string) ([]*models.Verification, error) {
	return nil, errDBDown
}
func (failingVerifications) Delete(context.Context, string) error { return errDBDown }
func (failingVerifications) DeleteByUserID(context.Context, string) (int64, error) {
	return 0, errDBDown
}

// recordingSender keeps every message and optionally fails.
type recordingSender struct {
	mu   sync.Mutex
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(ctx context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) last(t *testing.T) mail.Message {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("no message sent")
	}
	return s.sent[len(s.sent)-1]
}

var linkRe = regexp.MustCompile(`/auth/verify/([^/\s]+)/([^\s]+)`)

// linkParts extracts user id and unique string from a verification email.
func linkParts(t *testing.T, msg mail.Message) (string, string) {
	t.Helper()
	m := linkRe.FindStringSubmatch(msg.Body)
	if m == nil {
		t.Fatalf("no verification link in body: %q", msg.Body)
	}
	return m[1], m[2]
}

type fixture struct {
	manager      repomanager.RepositoryManager
	hasher       *auth.BcryptHasher
	issuer       *auth.TokenIssuer
	sender       *recordingSender
	auth         *AuthService
	verification *VerificationService
	now          time.Time
}

func newFixture(t *testing.T, m repomanager.RepositoryManager) *fixture {
	t.Helper()
	if m == nil {
		m = repomanager.NewMemoryRepositoryManager()
	}
	f := &fixture{
		manager: m,
		hasher:  auth.NewBcryptHasher(bcrypt.MinCost),
		issuer:  auth.NewTokenIssuer([]byte("test-secret"), time.Hour),
		sender:  &recordingSender{},
		now:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	f.auth = NewAuthService(m, f.hasher, f.issuer, []string{"user"}, logging.Nop{})
	f.verification = NewVerificationService(m, f.hasher, f.sender, 6*time.Hour,
		"http://localhost:4000/", nil, logging.Nop{})
	f.verification.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) signup(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := f.auth.Signup(context.Background(), SignupRequest{Email: email, Password: "password1"})
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	return u
}
