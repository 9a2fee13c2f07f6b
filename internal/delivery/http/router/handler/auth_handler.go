// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"menshub/internal/delivery/http/response"
	"menshub/internal/usecase"
)

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	auth   usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(auth usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:   auth,
		logger: logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	account, err := h.auth.Register(c.Request().Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, account, "Account registered successfully")
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles the email/password login request.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	account, err := h.auth.Login(c.Request().Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Login successful")
}

// Logout clears the session. It succeeds even when the remote sign-out
// fails; local state is already gone by then.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// Me returns the authenticated actor's view model, or an anonymous body.
func (h *AuthHandler) Me(c echo.Context) error {
	account, err := h.auth.CurrentUser(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"authenticated": account != nil,
		"user":          account,
	}, "")
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// GoogleLogin handles the token-based Google sign-in. An empty token means
// the client-side flow was dismissed before completing.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid Google login input")
	}

	account, err := h.auth.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, account, "Login successful")
}

// GoogleRedirectURL starts the redirect-based Google flow.
func (h *AuthHandler) GoogleRedirectURL(c echo.Context) error {
	authURL, err := h.auth.BeginGoogleRedirect(newOAuthState())
	if err != nil {
		return errors.WithStack(err)
	}

	if c.QueryParam("redirect") == "true" {
		return c.Redirect(http.StatusTemporaryRedirect, authURL)
	}

	return response.Success(c, http.StatusOK, map[string]string{
		"oauthUrl": authURL,
	}, "Google OAuth URL generated successfully")
}

// newOAuthState returns an unguessable state for the redirect flow. The
// OAuth service registers it when building the authorization URL.
func newOAuthState() string {
	return uuid.NewString()
}

// GoogleCallback resolves the redirect-based Google flow. Resolution never
// fails the request: a dismissed or invalid redirect lands back on the
// login page.
func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	state := c.QueryParam("state")
	code := c.QueryParam("code")

	account, err := h.auth.CompleteGoogleRedirect(c.Request().Context(), state, code)
	if err != nil {
		return errors.WithStack(err)
	}
	if account == nil {
		return c.Redirect(http.StatusFound, "/login?error=google")
	}

	return c.Redirect(http.StatusFound, "/")
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPassword dispatches a password-reset email.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid reset input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	if err := h.auth.ResetPassword(c.Request().Context(), req.Email); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Password reset email sent")
}
