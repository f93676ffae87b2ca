package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
	"github.com/faqhub/knowledge-base/internal/pkg/metrics"
)

// AuthService implements signup, login and the token-returning account
// recovery operations.
type AuthService struct {
	repo     ports.AccountRepository
	creds    ports.CredentialVerifier
	throttle ports.LoginThrottle
	log      zerolog.Logger
	now      func() time.Time
}

// NewAuthService wires the service. throttle may be nil to disable login
// throttling.
func NewAuthService(repo ports.AccountRepository, creds ports.CredentialVerifier, throttle ports.LoginThrottle, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, creds: creds, throttle: throttle, log: log, now: time.Now}
}

func (s *AuthService) Signup(ctx context.Context, name, email, password string) (*ports.Session, error) {
	hash, err := s.creds.Hash(password)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.Account{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	metrics.ResourceMutationsTotal.WithLabelValues("user", "create").Inc()
	s.log.Info().Str("account_id", created.ID).Msg("account signed up")
	return s.session(created)
}

// Login never reveals whether the email exists: unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = normalizeEmail(email)

	if s.throttle != nil {
		allowed, err := s.throttle.Allow(ctx, email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login throttle check failed, allowing attempt")
		} else if !allowed {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return nil, domain.ErrTooManyAttempts
		}
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if account == nil || !s.creds.Verify(password, account.PasswordHash) {
		s.recordFailure(ctx, email)
		return nil, domain.ErrInvalidCredentials
	}

	if s.throttle != nil {
		if err := s.throttle.Reset(ctx, email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login throttle")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return s.session(account)
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	if s.throttle == nil {
		return
	}
	if err := s.throttle.Fail(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// ChangeMyPassword verifies the current password, stores the new hash and
// stamps passwordChangedAt so every earlier token becomes stale.
func (s *AuthService) ChangeMyPassword(ctx context.Context, account *domain.Account, currentPassword, newPassword string) (*ports.Session, error) {
	if !s.creds.Verify(currentPassword, account.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}

	updated, err := setPassword(ctx, s.repo, s.creds, account.ID, newPassword, s.now())
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("password changed")
	return s.session(updated)
}

// RecoverMe reactivates a deactivated account.
func (s *AuthService) RecoverMe(ctx context.Context, account *domain.Account) (*ports.Session, error) {
	updated, err := s.repo.FindByIDAndUpdate(ctx, account.ID, ports.Patch{
		"active":     true,
		"updated_at": s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("account_id", account.ID).Msg("account recovered")
	return s.session(updated)
}

func (s *AuthService) session(account *domain.Account) (*ports.Session, error) {
	token, err := s.creds.IssueToken(account.ID)
	if err != nil {
		return nil, err
	}
	return &ports.Session{Token: token, Account: account}, nil
}

// setPassword hashes and stores a new password together with the change
// timestamp.
func setPassword(ctx context.Context, repo ports.Repository[domain.Account], creds ports.CredentialVerifier, id, password string, now time.Time) (*domain.Account, error) {
	hash, err := creds.Hash(password)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	return repo.FindByIDAndUpdate(ctx, id, ports.Patch{
		"password_hash":       hash,
		"password_changed_at": now,
		"updated_at":          now,
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
