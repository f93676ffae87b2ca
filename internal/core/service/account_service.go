package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
	"github.com/faqhub/knowledge-base/internal/pkg/metrics"
)

// AccountService backs the /users endpoints. Reads go through the generic
// resource factory; writes need hashing or field restrictions the factory
// does not know about.
type AccountService struct {
	*Resource[domain.Account]
	repo  ports.AccountRepository
	creds ports.CredentialVerifier
	log   zerolog.Logger
	now   func() time.Time
}

func NewAccountService(repo ports.AccountRepository, creds ports.CredentialVerifier, log zerolog.Logger) *AccountService {
	return &AccountService{
		Resource: NewResource[domain.Account]("user", repo, nil, log),
		repo:     repo,
		creds:    creds,
		log:      log,
		now:      time.Now,
	}
}

func (s *AccountService) List(ctx context.Context) ([]*domain.Account, error) {
	res, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *AccountService) Get(ctx context.Context, id string) (*domain.Account, error) {
	return s.GetOne(ctx, id)
}

func (s *AccountService) Create(ctx context.Context, in ports.CreateAccountInput) (*domain.Account, error) {
	hash, err := s.creds.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}

	now := s.now().UTC()
	return s.CreateOne(ctx, &domain.Account{
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// Update changes name, email and role only.
func (s *AccountService) Update(ctx context.Context, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
	return s.UpdateOne(ctx, id, s.profilePatch(in, true))
}

// Deactivate is the admin "delete": accounts are never removed.
func (s *AccountService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByIDAndUpdate(ctx, id, ports.Patch{
		"active":     false,
		"updated_at": s.now().UTC(),
	}); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("user", "deactivate").Inc()
	s.log.Info().Str("account_id", id).Msg("account deactivated")
	return nil
}

// UpdateMe changes the caller's own name and email; the role is ignored.
func (s *AccountService) UpdateMe(ctx context.Context, account *domain.Account, in ports.UpdateAccountInput) (*domain.Account, error) {
	return s.UpdateOne(ctx, account.ID, s.profilePatch(in, false))
}

// UpdateMyPassword sets a new password without asking for the current one;
// the caller already holds a valid, non-stale token.
func (s *AccountService) UpdateMyPassword(ctx context.Context, account *domain.Account, password string) (*ports.Session, error) {
	updated, err := setPassword(ctx, s.repo, s.creds, account.ID, password, s.now())
	if err != nil {
		return nil, err
	}

	token, err := s.creds.IssueToken(updated.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("account_id", account.ID).Msg("password updated")
	return &ports.Session{Token: token, Account: updated}, nil
}

func (s *AccountService) profilePatch(in ports.UpdateAccountInput, withRole bool) ports.Patch {
	patch := ports.Patch{"updated_at": s.now().UTC()}
	if in.Name != nil {
		patch["name"] = *in.Name
	}
	if in.Email != nil {
		patch["email"] = normalizeEmail(*in.Email)
	}
	if withRole && in.Role != nil {
		patch["role"] = *in.Role
	}
	return patch
}
