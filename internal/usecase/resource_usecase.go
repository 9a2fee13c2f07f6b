package usecase

import (
	"context"

	"menshub/internal/domain/entity"
)

// --- Input DTOs ---

// ResourceInput defines the data for creating or updating a resource.
type ResourceInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Category    string   `json:"category" validate:"required,max=64"`
	Description string   `json:"description" validate:"max=4000"`
	URL         string   `json:"url" validate:"omitempty,url"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	Tags        []string `json:"tags" validate:"max=16,dive,max=32"`
}

// ResourceStats aggregates the resource catalogue.
type ResourceStats struct {
	Total         int            `json:"total"`
	ByCategory    map[string]int `json:"byCategory"`
	AverageRating float64        `json:"averageRating"`
}

// ResourceUsecase covers the community resource catalogue.
type ResourceUsecase interface {
	// List returns resources, optionally filtered by category.
	List(ctx context.Context, category string) ([]*entity.Resource, error)

	// Get returns a single resource.
	Get(ctx context.Context, id string) (*entity.Resource, error)

	// Create sanitizes and persists a new resource.
	Create(ctx context.Context, input ResourceInput) (*entity.Resource, error)

	// Update sanitizes and replaces an existing resource.
	Update(ctx context.Context, id string, input ResourceInput) (*entity.Resource, error)

	// Delete removes a resource.
	Delete(ctx context.Context, id string) error

	// Stats aggregates catalogue counts.
	Stats(ctx context.Context) (*ResourceStats, error)
}
