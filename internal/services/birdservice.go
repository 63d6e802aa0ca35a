package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/birdkeep/birdkeep/pkg/models"
	"go.uber.org/zap"
)

// BirdService orchestrates validation, filtering, and pagination over the
// bird repository. It is the only way transport adapters reach bird data.
type BirdService struct {
	birds  BirdRepository
	logger *zap.Logger
}

// NewBirdService creates a BirdService.
func NewBirdService(birds BirdRepository, logger *zap.Logger) *BirdService {
	return &BirdService{birds: birds, logger: logger}
}

// Create validates and persists a new bird, returning it with its assigned id.
func (s *BirdService) Create(ctx context.Context, bird models.Bird) (*models.Bird, error) {
	if err := validateBird(bird); err != nil {
		return nil, err
	}
	bird.ID = 0
	if err := s.birds.Create(ctx, &bird); err != nil {
		return nil, err
	}
	s.logger.Info("created bird", zap.Int64("id", bird.ID), zap.String("name", bird.Name))
	return &bird, nil
}

// Get returns a bird by id.
func (s *BirdService) Get(ctx context.Context, id int64) (*models.Bird, error) {
	return s.birds.Get(ctx, id)
}

// Update replaces all mutable fields of the bird with the given id.
func (s *BirdService) Update(ctx context.Context, id int64, bird models.Bird) (*models.Bird, error) {
	if err := validateBird(bird); err != nil {
		return nil, err
	}
	bird.ID = id
	if err := s.birds.Update(ctx, &bird); err != nil {
		return nil, err
	}
	s.logger.Info("updated bird", zap.Int64("id", id))
	return &bird, nil
}

// Delete removes a bird by id. Sightings referencing it are left in place;
// their bird snapshot degrades to absent on subsequent reads.
func (s *BirdService) Delete(ctx context.Context, id int64) error {
	if err := s.birds.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted bird", zap.Int64("id", id))
	return nil
}

// List returns one page of all birds.
func (s *BirdService) List(ctx context.Context, req PageRequest) (*models.Page[models.Bird], error) {
	return s.Search(ctx, BirdFilter{}, req)
}

// Search returns one page of birds matching the filter. An empty filter is
// the always-true predicate, so Search and List share one read path and
// produce identical page metadata for the same window.
func (s *BirdService) Search(ctx context.Context, filter BirdFilter, req PageRequest) (*models.Page[models.Bird], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	birds, total, err := s.birds.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	page := models.NewPage(birds, total, req.Page, req.Size)
	return &page, nil
}

func validateBird(bird models.Bird) error {
	if strings.TrimSpace(bird.Name) == "" {
		return fmt.Errorf("%w: bird name is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(bird.Color) == "" {
		return fmt.Errorf("%w: bird color is required", ErrInvalidArgument)
	}
	if bird.Weight <= 0 {
		return fmt.Errorf("%w: bird weight must be positive", ErrInvalidArgument)
	}
	if bird.Height <= 0 {
		return fmt.Errorf("%w: bird height must be positive", ErrInvalidArgument)
	}
	return nil
}
