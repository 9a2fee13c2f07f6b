package localstore

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
)

// Slot key under which the fallback resource catalogue lives.
const resourceSlot = "resources"

// resourceRepository keeps the resource catalogue in a single slot,
// rewriting the whole list on change. It backs deployments that run
// without the remote document store.
type resourceRepository struct {
	store *Store
}

// NewResourceRepository is the constructor for the local resource
// repository.
func NewResourceRepository(store *Store) repository.ResourceRepository {
	return &resourceRepository{store: store}
}

// FindByID retrieves a resource by id.
func (r *resourceRepository) FindByID(_ context.Context, id string) (*entity.Resource, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}

	return nil, repository.ErrResourceNotFound
}

// List returns resources, optionally filtered by category.
func (r *resourceRepository) List(_ context.Context, category string) ([]*entity.Resource, error) {
	records, err := r.load()
	if err != nil {
		return nil, err
	}

	if category == "" {
		return records, nil
	}

	filtered := make([]*entity.Resource, 0, len(records))
	for _, record := range records {
		if record.Category == category {
			filtered = append(filtered, record)
		}
	}

	return filtered, nil
}

// Create persists a new resource and returns its generated id.
func (r *resourceRepository) Create(_ context.Context, resource *entity.Resource) (string, error) {
	records, err := r.load()
	if err != nil {
		return "", err
	}

	now := time.Now()
	stored := *resource
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	records = append(records, &stored)
	if err := r.store.Set(resourceSlot, records); err != nil {
		return "", err
	}

	return stored.ID, nil
}

// Update replaces an existing resource.
func (r *resourceRepository) Update(_ context.Context, resource *entity.Resource) error {
	records, err := r.load()
	if err != nil {
		return err
	}

	for i, record := range records {
		if record.ID == resource.ID {
			updated := *resource
			updated.CreatedAt = record.CreatedAt
			updated.UpdatedAt = time.Now()
			records[i] = &updated

			return r.store.Set(resourceSlot, records)
		}
	}

	return repository.ErrResourceNotFound
}

// Delete removes a resource. Deleting an unknown id is a no-op.
func (r *resourceRepository) Delete(_ context.Context, id string) error {
	records, err := r.load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return nil
	}

	return r.store.Set(resourceSlot, kept)
}

// load reads the catalogue, healing a corrupt slot to an empty list.
func (r *resourceRepository) load() ([]*entity.Resource, error) {
	var records []*entity.Resource
	found, err := r.store.Get(resourceSlot, &records)
	if !found {
		return nil, nil
	}
	if err != nil {
		if delErr := r.store.Delete(resourceSlot); delErr != nil {
			return nil, errors.Wrap(delErr, "heal corrupt resource slot")
		}

		return nil, nil
	}

	return records, nil
}
