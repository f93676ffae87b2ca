package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/pkg/metrics"
)

// RBAC enforces role-based access control. It must run after Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := AccountFrom(c)
			if account == nil {
				metrics.AuthFailuresTotal.WithLabelValues("no_token").Inc()
				return domain.ErrNoToken
			}
			if _, ok := allowed[account.Role]; !ok {
				metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
				return &domain.ForbiddenError{Role: account.Role}
			}
			return next(c)
		}
	}
}
