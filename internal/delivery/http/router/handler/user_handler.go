package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"menshub/internal/delivery/http/response"
	"menshub/internal/domain/entity"
	"menshub/internal/usecase"
)

// UserHandler holds dependencies for the member directory handlers.
type UserHandler struct {
	directory usecase.DirectoryUsecase
	logger    *slog.Logger
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(directory usecase.DirectoryUsecase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		directory: directory,
		logger:    logger,
	}
}

// ListUsers returns all accounts with credentials stripped.
func (h *UserHandler) ListUsers(c echo.Context) error {
	accounts, err := h.directory.ListUsers(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, accounts, "")
}

// Stats aggregates directory counts for the admin dashboard.
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.directory.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// UpdateRole changes an account's role.
func (h *UserHandler) UpdateRole(c echo.Context) error {
	uid := c.Param("uid")
	if uid == "" {
		return response.BadRequest(c, "INVALID_INPUT", "User id is required")
	}

	var req updateRoleRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid role input")
	}
	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", err.Error())
	}

	if err := h.directory.UpdateRole(c.Request().Context(), uid, entity.Role(req.Role)); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Role updated successfully")
}
