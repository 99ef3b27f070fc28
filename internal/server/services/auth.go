// Package services contains server-side business logic. AuthService covers
// signup, signin and token checks; VerificationService runs the email
// verification workflow.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/validation"
)

// SessionIssuer mints and checks the bearer credential handed out at signin.
type SessionIssuer interface {
	Issue(userID string, permissions []string) (string, error)
	Validate(token string) (*auth.Claims, error)
}

type AuthService struct {
	repomanager        repomanager.RepositoryManager
	hasher             auth.PasswordHasher
	sessions           SessionIssuer
	validator          *validation.Validator
	defaultPermissions []string
	logger             logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, sessions SessionIssuer,
	defaultPermissions []string, logger logging.Logger) *AuthService {
	return &AuthService{
		repomanager:        m,
		hasher:             hasher,
		sessions:           sessions,
		validator:          validation.New(),
		defaultPermissions: defaultPermissions,
		logger:             logger,
	}
}

// Signup validates the payload, hashes the password and stores a new
// unverified user with the default permissions.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.User, error) {
	req.Email = NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Permissions:  slices.Clone(s.defaultPermissions),
	}

	u, err := s.repomanager.Users(s.repomanager.Conn()).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

// Signin checks the credentials and issues a session token. An unknown
// email and a wrong password fail the same way.
func (s *AuthService) Signin(ctx context.Context, req SigninRequest) (*SigninResult, error) {
	req.Email = NormalizeEmail(req.Email)

	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn the same bcrypt work as a real comparison
			s.hasher.Verify(req.Password, s.dummy())
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}

	token, err := s.sessions.Issue(user.ID, user.Permissions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	return &SigninResult{UserID: user.ID, Token: token}, nil
}

// Authenticate returns the claims of a valid session token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	return s.sessions.Validate(token)
}

// User loads a user by id.
func (s *AuthService) User(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return u, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("gophauth-signin-placeholder")
		if err != nil {
			s.logger.Warn(context.Background(), "cannot prepare placeholder hash", "error", err)
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}
