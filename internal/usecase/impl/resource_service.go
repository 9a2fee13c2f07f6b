package impl

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/repository"
	"menshub/internal/domain/service"
	"menshub/internal/usecase"
)

type resourceService struct {
	resources repository.ResourceRepository
	sanitizer service.ContentSanitizer
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewResourceService is the constructor for resourceService.
func NewResourceService(
	resources repository.ResourceRepository,
	sanitizer service.ContentSanitizer,
	logger *slog.Logger,
) usecase.ResourceUsecase {
	return &resourceService{
		resources: resources,
		sanitizer: sanitizer,
		validate:  validator.New(),
		logger:    logger,
	}
}

// List returns resources, optionally filtered by category.
func (s *resourceService) List(ctx context.Context, category string) ([]*entity.Resource, error) {
	return s.resources.List(ctx, category)
}

// Get returns a single resource.
func (s *resourceService) Get(ctx context.Context, id string) (*entity.Resource, error) {
	resource, err := s.resources.FindByID(ctx, id)
	if errors.Is(err, repository.ErrResourceNotFound) {
		return nil, domainerrors.ErrNotFound
	}

	return resource, err
}

// Create sanitizes and persists a new resource.
func (s *resourceService) Create(ctx context.Context, input usecase.ResourceInput) (*entity.Resource, error) {
	resource, err := s.prepare(input)
	if err != nil {
		return nil, err
	}

	id, err := s.resources.Create(ctx, resource)
	if err != nil {
		return nil, err
	}
	resource.ID = id

	s.logger.Info("resource created", slog.String("id", id), slog.String("category", resource.Category))

	return resource, nil
}

// Update sanitizes and replaces an existing resource.
func (s *resourceService) Update(ctx context.Context, id string, input usecase.ResourceInput) (*entity.Resource, error) {
	resource, err := s.prepare(input)
	if err != nil {
		return nil, err
	}
	resource.ID = id

	if err := s.resources.Update(ctx, resource); err != nil {
		if errors.Is(err, repository.ErrResourceNotFound) {
			return nil, domainerrors.ErrNotFound
		}

		return nil, err
	}

	return resource, nil
}

// Delete removes a resource.
func (s *resourceService) Delete(ctx context.Context, id string) error {
	return s.resources.Delete(ctx, id)
}

// Stats aggregates catalogue counts.
func (s *resourceService) Stats(ctx context.Context) (*usecase.ResourceStats, error) {
	resources, err := s.resources.List(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &usecase.ResourceStats{
		Total:      len(resources),
		ByCategory: make(map[string]int),
	}

	var ratingSum float64
	var rated int
	for _, resource := range resources {
		stats.ByCategory[resource.Category]++
		if resource.Rating > 0 {
			ratingSum += resource.Rating
			rated++
		}
	}
	if rated > 0 {
		stats.AverageRating = ratingSum / float64(rated)
	}

	return stats, nil
}

func (s *resourceService) prepare(input usecase.ResourceInput) (*entity.Resource, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if clean := s.sanitizer.Sanitize(tag); clean != "" {
			tags = append(tags, clean)
		}
	}

	return &entity.Resource{
		Title:       s.sanitizer.Sanitize(input.Title),
		Category:    s.sanitizer.Sanitize(input.Category),
		Description: s.sanitizer.Sanitize(input.Description),
		URL:         input.URL,
		Rating:      input.Rating,
		Tags:        tags,
	}, nil
}
