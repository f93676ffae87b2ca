package ports

import (
	"context"
	"time"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// TokenClaims is what a verified session token proves.
type TokenClaims struct {
	AccountID string
	IssuedAt  time.Time
}

// CredentialVerifier hashes passwords and issues/verifies session tokens.
type CredentialVerifier interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
	IssueToken(accountID string) (string, error)
	VerifyToken(token string) (*TokenClaims, error)
}

// IdentityResolver turns an Authorization header into a loaded account.
type IdentityResolver interface {
	Resolve(ctx context.Context, authHeader string, allowDeactivated bool) (*domain.Account, error)
}

// LoginThrottle limits failed login attempts per email.
type LoginThrottle interface {
	// Allow reports whether another attempt for key is permitted.
	Allow(ctx context.Context, key string) (bool, error)
	// Fail records a failed attempt.
	Fail(ctx context.Context, key string) error
	// Reset clears the attempt counter after a successful login.
	Reset(ctx context.Context, key string) error
}

// Session is the result of any operation that hands out a fresh token.
type Session struct {
	Token   string
	Account *domain.Account
}

// AuthService implements the /auth endpoints.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	ChangeMyPassword(ctx context.Context, account *domain.Account, currentPassword, newPassword string) (*Session, error)
	RecoverMe(ctx context.Context, account *domain.Account) (*Session, error)
}
