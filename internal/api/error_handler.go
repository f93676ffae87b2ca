package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

const (
	statusFail  = "fail"
	statusError = "error"

	msgInternal = "Something went wrong"
)

// errorResponse is the canonical error envelope for all API errors. Detail
// carries the raw error outside production.
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"error,omitempty"`
}

// fixedErrors maps sentinel errors to their status code and client message.
var fixedErrors = []struct {
	err     error
	code    int
	message string
}{
	{domain.ErrNoToken, http.StatusUnauthorized, "Authentication failed: No token provided. Please login to access this resource."},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Authentication failed: Your session has expired. Please login again to continue."},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, "Authentication failed: Invalid token signature. Please login again with valid credentials."},
	{domain.ErrAccountNotFound, http.StatusUnauthorized, "Authentication failed: User account not found. The account associated with this token may have been deleted."},
	{domain.ErrStalePassword, http.StatusUnauthorized, "Authentication failed: Password was recently changed. For security reasons, please login again with your new password."},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Authentication failed: Invalid credentials. The email or password you entered is incorrect."},
	{domain.ErrWrongPassword, http.StatusUnauthorized, "Password change failed: Current password verification failed. Please enter your correct current password."},
	{domain.ErrAccountDeactivated, http.StatusForbidden, "Authentication failed: Your account is deactivated. Please recover your account to continue."},
	{domain.ErrTooManyAttempts, http.StatusTooManyRequests, "Too many failed login attempts. Please try again later."},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status codes and client messages.
//   - Uses "fail" for 4xx and "error" for 5xx in the envelope status.
//   - Logs unexpected errors without leaking details in production.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, c)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
		}

		resp := errorResponse{Status: statusFail, Message: msg}
		if code >= http.StatusInternalServerError {
			resp.Status = statusError
		}
		if !production {
			resp.Detail = err.Error()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, c echo.Context) (int, string) {
	var (
		ve  *domain.ValidationError
		dke *domain.DuplicateKeyError
		ide *domain.InvalidIDError
		de  *domain.DependentsError
		nfe *domain.NotFoundError
		fe  *domain.ForbiddenError
		he  *echo.HTTPError
	)

	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &dke):
		return http.StatusBadRequest, dke.Error()
	case errors.As(err, &ide):
		return http.StatusBadRequest, ide.Error()
	case errors.As(err, &de):
		return http.StatusBadRequest, de.Error()
	case errors.As(err, &nfe):
		return http.StatusNotFound, nfe.Error()
	case errors.As(err, &fe):
		return http.StatusForbidden, fe.Error()
	}

	for _, f := range fixedErrors {
		if errors.Is(err, f.err) {
			return f.code, f.message
		}
	}

	// Echo's own errors (unmatched routes, body limit, bind failures, etc.)
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, fmt.Sprintf("Can't find %s on this server!", c.Request().RequestURI)
		case http.StatusRequestEntityTooLarge:
			return he.Code, "Request body is too large"
		}
		if he.Code >= http.StatusInternalServerError {
			return he.Code, msgInternal
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	return http.StatusInternalServerError, msgInternal
}
