package repository

import (
	"context"
	"errors"

	"menshub/internal/domain/entity"
)

// ErrResourceNotFound is returned when no resource exists for an id.
var ErrResourceNotFound = errors.New("resource not found")

// ResourceRepository defines the operations on the "resources" collection.
type ResourceRepository interface {
	// FindByID retrieves a single resource.
	FindByID(ctx context.Context, id string) (*entity.Resource, error)

	// List returns resources, optionally filtered by category. An empty
	// category means no filter.
	List(ctx context.Context, category string) ([]*entity.Resource, error)

	// Create persists a new resource and returns its generated id.
	Create(ctx context.Context, resource *entity.Resource) (string, error)

	// Update replaces the mutable fields of an existing resource.
	Update(ctx context.Context, resource *entity.Resource) error

	// Delete removes a resource.
	Delete(ctx context.Context, id string) error
}
