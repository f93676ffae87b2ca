package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/ports"
)

// UserHandler serves /users: admin account management plus the caller's
// own profile.
type UserHandler struct {
	accounts ports.AccountService
}

func NewUserHandler(accounts ports.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
	Role     string `json:"role"     validate:"omitempty,oneof=user admin manager"`
}

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=3"`
	Email *string `json:"email" validate:"omitempty,email"`
	Role  *string `json:"role"  validate:"omitempty,oneof=user admin manager"`
}

func (r updateUserRequest) toInput() ports.UpdateAccountInput {
	return ports.UpdateAccountInput{Name: r.Name, Email: r.Email, Role: r.Role}
}

type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

// List returns every account.
//
// @Summary  List users
// @Tags     users
// @Security BearerAuth
// @Produce  json
// @Success  200  {object}  envelope
// @Router   /users [get]
func (h *UserHandler) List(c echo.Context) error {
	items, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	n := len(items)
	return c.JSON(http.StatusOK, envelope{Status: statusSuccess, Results: &n, Data: items})
}

func (h *UserHandler) Get(c echo.Context) error {
	account, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, account)
}

// Create adds an account on behalf of an admin.
//
// @Summary  Create user
// @Tags     users
// @Security BearerAuth
// @Accept   json
// @Produce  json
// @Param    body  body      createUserRequest  true  "Account"
// @Success  201   {object}  envelope
// @Failure  400   {object}  map[string]string
// @Router   /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.Request().Context(), ports.CreateAccountInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, account)
}

// Update changes name, email or role. Passwords are never set here.
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, account)
}

// Delete deactivates the account.
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.accounts.Deactivate(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetMe returns the caller's stored account.
//
// @Summary  Get my account
// @Tags     users
// @Security BearerAuth
// @Produce  json
// @Success  200  {object}  envelope
// @Router   /users/getMe [get]
func (h *UserHandler) GetMe(c echo.Context) error {
	me, err := ctxAccount(c)
	if err != nil {
		return err
	}

	account, err := h.accounts.Get(c.Request().Context(), me.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, account)
}

// UpdateMe changes the caller's name or email. A role in the body is ignored.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	me, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.UpdateMe(c.Request().Context(), me, req.toInput())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, account.Profile())
}

// UpdateMyPassword sets a new password and returns a fresh token.
func (h *UserHandler) UpdateMyPassword(c echo.Context) error {
	me, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updatePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.accounts.UpdateMyPassword(c.Request().Context(), me, req.Password)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, "Password updated successfully", s)
}

// DeleteMe deactivates the caller's account.
func (h *UserHandler) DeleteMe(c echo.Context) error {
	me, err := ctxAccount(c)
	if err != nil {
		return err
	}

	if err := h.accounts.Deactivate(c.Request().Context(), me.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
