package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/api/middleware"
	"github.com/faqhub/knowledge-base/internal/core/domain"
)

// ctxAccount returns the account resolved by the Auth middleware. A route
// mounted without Auth fails here instead of running anonymously.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account := middleware.AccountFrom(c)
	if account == nil {
		return nil, domain.ErrNoToken
	}
	return account, nil
}
