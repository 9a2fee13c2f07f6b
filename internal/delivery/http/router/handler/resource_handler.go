package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"menshub/internal/delivery/http/response"
	"menshub/internal/usecase"
)

// ResourceHandler holds dependencies for the resource catalogue handlers.
type ResourceHandler struct {
	resources usecase.ResourceUsecase
	logger    *slog.Logger
}

// NewResourceHandler is the constructor for ResourceHandler, injected by Fx.
func NewResourceHandler(resources usecase.ResourceUsecase, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{
		resources: resources,
		logger:    logger,
	}
}

// List returns resources, optionally filtered by the category query param.
func (h *ResourceHandler) List(c echo.Context) error {
	resources, err := h.resources.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, resources, "")
}

// Get returns a single resource.
func (h *ResourceHandler) Get(c echo.Context) error {
	resource, err := h.resources.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, resource, "")
}

// Create persists a new resource.
func (h *ResourceHandler) Create(c echo.Context) error {
	var input usecase.ResourceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resource input")
	}

	resource, err := h.resources.Create(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, resource, "Resource created successfully")
}

// Update replaces an existing resource.
func (h *ResourceHandler) Update(c echo.Context) error {
	var input usecase.ResourceInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid resource input")
	}

	resource, err := h.resources.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, resource, "Resource updated successfully")
}

// Delete removes a resource.
func (h *ResourceHandler) Delete(c echo.Context) error {
	if err := h.resources.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Resource deleted successfully")
}

// Stats aggregates catalogue counts.
func (h *ResourceHandler) Stats(c echo.Context) error {
	stats, err := h.resources.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}
