package firestoredb

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"menshub/internal/domain/entity"
	"menshub/internal/domain/repository"
)

const resourcesCollection = "resources"

type resourceDoc struct {
	Title       string    `firestore:"title"`
	Category    string    `firestore:"category"`
	Description string    `firestore:"description"`
	URL         string    `firestore:"url,omitempty"`
	Rating      float64   `firestore:"rating,omitempty"`
	Tags        []string  `firestore:"tags,omitempty"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

type resourceRepository struct {
	client *firestore.Client
}

// NewResourceRepository is the constructor for the Firestore-backed
// resource repository.
func NewResourceRepository(client *firestore.Client) repository.ResourceRepository {
	return &resourceRepository{client: client}
}

// FindByID retrieves a single resource.
func (r *resourceRepository) FindByID(ctx context.Context, id string) (*entity.Resource, error) {
	snap, err := r.client.Collection(resourcesCollection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repository.ErrResourceNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get resource %s", id)
	}

	return decodeResource(id, snap)
}

// List returns resources, optionally filtered by category.
func (r *resourceRepository) List(ctx context.Context, category string) ([]*entity.Resource, error) {
	query := r.client.Collection(resourcesCollection).Query
	if category != "" {
		query = query.Where("category", "==", category)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	resources := make([]*entity.Resource, 0)
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterate resources")
		}

		resource, err := decodeResource(snap.Ref.ID, snap)
		if err != nil {
			return nil, err
		}
		resources = append(resources, resource)
	}

	return resources, nil
}

// Create persists a new resource and returns its generated id.
func (r *resourceRepository) Create(ctx context.Context, resource *entity.Resource) (string, error) {
	now := time.Now()
	doc := resourceDoc{
		Title:       resource.Title,
		Category:    resource.Category,
		Description: resource.Description,
		URL:         resource.URL,
		Rating:      resource.Rating,
		Tags:        resource.Tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	ref, _, err := r.client.Collection(resourcesCollection).Add(ctx, doc)
	if err != nil {
		return "", errors.Wrap(err, "create resource")
	}

	return ref.ID, nil
}

// Update replaces the mutable fields of an existing resource.
func (r *resourceRepository) Update(ctx context.Context, resource *entity.Resource) error {
	_, err := r.client.Collection(resourcesCollection).Doc(resource.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: resource.Title},
		{Path: "category", Value: resource.Category},
		{Path: "description", Value: resource.Description},
		{Path: "url", Value: resource.URL},
		{Path: "rating", Value: resource.Rating},
		{Path: "tags", Value: resource.Tags},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if status.Code(err) == codes.NotFound {
		return repository.ErrResourceNotFound
	}

	return errors.Wrapf(err, "update resource %s", resource.ID)
}

// Delete removes a resource.
func (r *resourceRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(resourcesCollection).Doc(id).Delete(ctx)

	return errors.Wrapf(err, "delete resource %s", id)
}

func decodeResource(id string, snap *firestore.DocumentSnapshot) (*entity.Resource, error) {
	var doc resourceDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, errors.Wrapf(err, "decode resource %s", id)
	}

	return &entity.Resource{
		ID:          id,
		Title:       doc.Title,
		Category:    doc.Category,
		Description: doc.Description,
		URL:         doc.URL,
		Rating:      doc.Rating,
		Tags:        doc.Tags,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}
