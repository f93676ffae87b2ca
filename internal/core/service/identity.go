package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
	"github.com/faqhub/knowledge-base/internal/pkg/metrics"
)

// IdentityResolver turns a bearer token into the account it was issued for
// and enforces the account-state rules on it.
type IdentityResolver struct {
	tokens   ports.CredentialVerifier
	accounts ports.AccountFinder
	log      zerolog.Logger
}

func NewIdentityResolver(tokens ports.CredentialVerifier, accounts ports.AccountFinder, log zerolog.Logger) *IdentityResolver {
	return &IdentityResolver{tokens: tokens, accounts: accounts, log: log}
}

// Resolve checks, in order: header present, token valid and unexpired,
// account exists, account active (unless allowDeactivated), password not
// changed since the token was issued. The last check always runs.
func (r *IdentityResolver) Resolve(ctx context.Context, authHeader string, allowDeactivated bool) (*domain.Account, error) {
	token := bearerToken(authHeader)
	if token == "" {
		return nil, r.reject(domain.ErrNoToken, "no_token")
	}

	claims, err := r.tokens.VerifyToken(token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenExpired):
			return nil, r.reject(err, "token_expired")
		case errors.Is(err, domain.ErrTokenInvalid):
			return nil, r.reject(err, "token_invalid")
		}
		return nil, err
	}

	account, err := r.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidID) {
			return nil, r.reject(domain.ErrAccountNotFound, "account_not_found")
		}
		return nil, err
	}

	// Deactivated accounts may only change their password or recover.
	if !account.Active && !allowDeactivated {
		return nil, r.reject(domain.ErrAccountDeactivated, "account_deactivated")
	}

	if account.PasswordChangedAfter(claims.IssuedAt) {
		return nil, r.reject(domain.ErrStalePassword, "stale_password")
	}

	return account, nil
}

func (r *IdentityResolver) reject(err error, reason string) error {
	metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	r.log.Debug().Str("reason", reason).Msg("request not authenticated")
	return err
}

// bearerToken extracts the token from "Bearer <token>". Any other shape
// yields "".
func bearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
