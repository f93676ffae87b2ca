package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const accountKey = "account"

type authConfig struct {
	allowDeactivated bool
}

// AuthOption tweaks a single Auth instance.
type AuthOption func(*authConfig)

// AllowDeactivated lets deactivated accounts through. Only the password
// change and account recovery routes use it.
func AllowDeactivated() AuthOption {
	return func(c *authConfig) { c.allowDeactivated = true }
}

// Auth resolves the bearer token into an account and stores it on the context.
// Failures are returned as domain errors for the HTTP error handler.
func Auth(resolver ports.IdentityResolver, opts ...AuthOption) echo.MiddlewareFunc {
	var cfg authConfig
	for _, o := range opts {
		o(&cfg)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, err := resolver.Resolve(
				c.Request().Context(),
				c.Request().Header.Get(echo.HeaderAuthorization),
				cfg.allowDeactivated,
			)
			if err != nil {
				return err
			}

			SetAccount(c, account)
			return next(c)
		}
	}
}

// SetAccount stores the resolved account on the request context.
func SetAccount(c echo.Context, account *domain.Account) {
	c.Set(accountKey, account)
}

// AccountFrom returns the account stored by Auth, or nil.
func AccountFrom(c echo.Context) *domain.Account {
	a, _ := c.Get(accountKey).(*domain.Account)
	return a
}
