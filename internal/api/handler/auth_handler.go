package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/faqhub/knowledge-base/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type signupRequest struct {
	Name     string `json:"name"     validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,strongpassword"`
}

// Signup registers a new account with the user role.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "New account"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.authService.Signup(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusCreated, "", s)
}

// Login authenticates a user and returns a session token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, "", s)
}

// ChangeMyPassword replaces the caller's password after checking the current
// one. Deactivated accounts may call it.
//
// @Summary      Change my password
// @Tags         auth
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Current and new password"
// @Success      200   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/changeMyPassword [put]
func (h *AuthHandler) ChangeMyPassword(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	s, err := h.authService.ChangeMyPassword(c.Request().Context(), account, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, "Password changed successfully", s)
}

// RecoverMe reactivates the caller's account.
//
// @Summary      Recover my account
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  envelope
// @Failure      401  {object}  map[string]string
// @Router       /auth/recoverMe [put]
func (h *AuthHandler) RecoverMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	s, err := h.authService.RecoverMe(c.Request().Context(), account)
	if err != nil {
		return err
	}
	return respondSession(c, http.StatusOK, "Account recovered successfully", s)
}

// Logout is stateless: the client drops its token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  envelope
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	if _, err := ctxAccount(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, envelope{Status: statusSuccess, Message: "Logged out successfully"})
}
