package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/mail"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// VerificationService issues and consumes email verification links.
//
// A link carries <userID>/<uniqueString>; only the bcrypt hash of the unique
// string is stored. Issuing a new link leaves older ones usable until they
// expire or any of them is consumed.
type VerificationService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	sender      mail.Sender
	ttl         time.Duration
	baseURL     string
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
}

func NewVerificationService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, sender mail.Sender,
	ttl time.Duration, baseURL string, mt *metrics.Metrics, logger logging.Logger) *VerificationService {
	return &VerificationService{
		repomanager: m,
		hasher:      hasher,
		sender:      sender,
		ttl:         ttl,
		baseURL:     baseURL,
		metrics:     mt,
		logger:      logger,
		now:         time.Now,
	}
}

// Initiate stores a new verification record for user and mails the link.
// If the mail cannot be delivered the stored record is returned along with
// an error matching common.ErrMailDispatch; the record stays in place.
func (s *VerificationService) Initiate(ctx context.Context, user *models.User) (*models.Verification, error) {
	if user.Verified {
		return nil, common.ErrAlreadyVerified
	}

	uniqueString := uuid.NewString() + user.ID

	hash, err := s.hasher.Hash(uniqueString)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	v, err := s.repomanager.Verifications(s.repomanager.Conn()).Create(ctx, &models.Verification{
		UserID:           user.ID,
		UniqueStringHash: hash,
		CreatedAt:        now,
		ExpiresAt:        now.Add(s.ttl),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	link := mail.VerificationLink(s.baseURL, user.ID, uniqueString)
	msg, err := mail.VerificationMessage(user.Email, user.Name, link, s.ttl)
	if err != nil {
		s.metrics.VerificationEmail(metrics.ResultError)
		return v, fmt.Errorf("%w: rendering message: %v", common.ErrMailDispatch, err)
	}

	if err := s.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, common.ErrMailTimeout) {
			s.metrics.VerificationEmail(metrics.ResultTimeout)
		} else {
			s.metrics.VerificationEmail(metrics.ResultError)
		}
		if !errors.Is(err, common.ErrMailDispatch) {
			err = fmt.Errorf("%w: %w", common.ErrMailDispatch, err)
		}
		s.logger.Warn(ctx, "verification email not delivered", "user_id", user.ID, "error", err)
		return v, err
	}

	s.metrics.VerificationEmail(metrics.ResultSuccess)
	s.logger.Info(ctx, "verification email sent", "user_id", user.ID, "expires_at", v.ExpiresAt)
	return v, nil
}

// Resend issues a fresh link for an existing user.
func (s *VerificationService) Resend(ctx context.Context, userID string) (*models.Verification, error) {
	user, err := s.repomanager.Users(s.repomanager.Conn()).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrStorage, err)
	}
	return s.Initiate(ctx, user)
}

// Verify consumes a link. On success the user is marked verified and all of
// the user's pending records are removed in one transaction, so a link
// works at most once.
func (s *VerificationService) Verify(ctx context.Context, userID, uniqueString string) error {
	err := s.verify(ctx, userID, uniqueString)
	switch {
	case err == nil:
		s.metrics.Verification(metrics.ResultSuccess)
	case errors.Is(err, common.ErrVerificationExpired):
		s.metrics.Verification(metrics.ResultExpired)
	case errors.Is(err, common.ErrVerificationInvalid):
		s.metrics.Verification(metrics.ResultInvalid)
	default:
		s.metrics.Verification(metrics.ResultError)
	}
	return err
}

func (s *VerificationService) verify(ctx context.Context, userID, uniqueString string) error {
	if userID == "" || uniqueString == "" {
		return common.ErrVerificationInvalid
	}
	// user ids are uuids; anything else cannot match a stored record
	if _, err := uuid.Parse(userID); err != nil {
		return common.ErrVerificationInvalid
	}

	repo := s.repomanager.Verifications(s.repomanager.Conn())

	records, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	var match *models.Verification
	for _, r := range records {
		if s.hasher.Verify(uniqueString, r.UniqueStringHash) {
			match = r
			break
		}
	}
	if match == nil {
		return common.ErrVerificationInvalid
	}

	if match.Expired(s.now()) {
		if err := repo.Delete(ctx, match.ID); err != nil {
			s.logger.Warn(ctx, "cannot delete expired verification", "verification_id", match.ID, "error", err)
		}
		return common.ErrVerificationExpired
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Verifications(tx).DeleteByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if n == 0 {
			// consumed concurrently
			return common.ErrVerificationInvalid
		}
		return s.repomanager.Users(tx).MarkVerified(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrVerificationInvalid) || errors.Is(err, common.ErrorNotFound) {
			return common.ErrVerificationInvalid
		}
		return fmt.Errorf("%w: %w", common.ErrStorage, err)
	}

	s.logger.Info(ctx, "email verified", "user_id", userID)
	return nil
}
