package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"menshub/internal/delivery/http/response"
	"menshub/internal/usecase"
)

// ContactHandler holds dependencies for the contact-form handler.
type ContactHandler struct {
	contact usecase.ContactUsecase
	logger  *slog.Logger
}

// NewContactHandler is the constructor for ContactHandler, injected by Fx.
func NewContactHandler(contact usecase.ContactUsecase, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contact: contact,
		logger:  logger,
	}
}

// Submit accepts a contact-form submission and dispatches it by mail.
func (h *ContactHandler) Submit(c echo.Context) error {
	var input usecase.ContactInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid contact input")
	}

	if err := h.contact.Submit(c.Request().Context(), input); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Message sent successfully")
}
