package ports

import (
	"context"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// CreateAccountInput carries an admin-created account.
type CreateAccountInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateAccountInput is a partial account update; nil fields are unchanged.
type UpdateAccountInput struct {
	Name  *string
	Email *string
	Role  *string
}

// AccountService implements the /users endpoints.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*domain.Account, error)
	Create(ctx context.Context, in CreateAccountInput) (*domain.Account, error)
	Update(ctx context.Context, id string, in UpdateAccountInput) (*domain.Account, error)
	Deactivate(ctx context.Context, id string) error
	UpdateMe(ctx context.Context, account *domain.Account, in UpdateAccountInput) (*domain.Account, error)
	UpdateMyPassword(ctx context.Context, account *domain.Account, password string) (*Session, error)
}
