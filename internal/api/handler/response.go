package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const statusSuccess = "success"

// envelope is the success body shared by every endpoint.
type envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Status: statusSuccess, Data: data})
}

func respondList[T any](c echo.Context, res *ports.ListResult[T]) error {
	n := res.Count
	return c.JSON(http.StatusOK, envelope{Status: statusSuccess, Results: &n, Data: res.Items})
}

func respondSession(c echo.Context, code int, message string, s *ports.Session) error {
	return c.JSON(code, envelope{
		Status:  statusSuccess,
		Message: message,
		Token:   s.Token,
		Data:    s.Account.Profile(),
	})
}

// bind decodes and validates a request body. Malformed JSON is a 400.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}
