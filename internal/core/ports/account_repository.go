package ports

import (
	"context"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// AccountRepository defines account persistence.
type AccountRepository interface {
	Repository[domain.Account]
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountFinder is the slice of AccountRepository the identity resolver needs.
type AccountFinder interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
}
