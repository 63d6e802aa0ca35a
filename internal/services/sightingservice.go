package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/birdkeep/birdkeep/pkg/models"
	"go.uber.org/zap"
)

// SightingService orchestrates validation, referential checks, filtering,
// and pagination over the sighting repository.
//
// Writes verify the referenced bird exists before touching the store, so a
// rejected write never leaves partial state. Reads never fail on a dangling
// reference; the embedded bird snapshot is simply absent.
type SightingService struct {
	sightings SightingRepository
	birds     BirdRepository
	logger    *zap.Logger
}

// NewSightingService creates a SightingService.
func NewSightingService(sightings SightingRepository, birds BirdRepository, logger *zap.Logger) *SightingService {
	return &SightingService{sightings: sightings, birds: birds, logger: logger}
}

// Create validates and persists a new sighting, returning it with its
// assigned id and bird snapshot.
func (s *SightingService) Create(ctx context.Context, sighting models.Sighting) (*models.Sighting, error) {
	if err := s.validateSighting(ctx, sighting); err != nil {
		return nil, err
	}
	sighting.ID = 0
	sighting.Bird = nil
	if err := s.sightings.Create(ctx, &sighting); err != nil {
		return nil, err
	}
	s.logger.Info("created sighting",
		zap.Int64("id", sighting.ID),
		zap.Int64("bird_id", sighting.BirdID),
		zap.String("location", sighting.Location),
	)
	// Re-read to attach the bird snapshot.
	return s.sightings.Get(ctx, sighting.ID)
}

// Get returns a sighting by id with its bird snapshot, if it resolves.
func (s *SightingService) Get(ctx context.Context, id int64) (*models.Sighting, error) {
	return s.sightings.Get(ctx, id)
}

// Update replaces all mutable fields of the sighting with the given id,
// the bird reference included. The new reference must resolve.
func (s *SightingService) Update(ctx context.Context, id int64, sighting models.Sighting) (*models.Sighting, error) {
	if err := s.validateSighting(ctx, sighting); err != nil {
		return nil, err
	}
	sighting.ID = id
	sighting.Bird = nil
	if err := s.sightings.Update(ctx, &sighting); err != nil {
		return nil, err
	}
	s.logger.Info("updated sighting", zap.Int64("id", id))
	return s.sightings.Get(ctx, id)
}

// Delete removes a sighting by id.
func (s *SightingService) Delete(ctx context.Context, id int64) error {
	if err := s.sightings.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted sighting", zap.Int64("id", id))
	return nil
}

// List returns one page of all sightings.
func (s *SightingService) List(ctx context.Context, req PageRequest) (*models.Page[models.Sighting], error) {
	return s.Search(ctx, SightingFilter{}, req)
}

// Search returns one page of sightings matching the filter.
func (s *SightingService) Search(ctx context.Context, filter SightingFilter, req PageRequest) (*models.Page[models.Sighting], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sightings, total, err := s.sightings.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	page := models.NewPage(sightings, total, req.Page, req.Size)
	return &page, nil
}

// validateSighting checks field constraints and that the bird reference
// resolves right now. Runs before any mutation.
func (s *SightingService) validateSighting(ctx context.Context, sighting models.Sighting) error {
	if strings.TrimSpace(sighting.Location) == "" {
		return fmt.Errorf("%w: sighting location is required", ErrInvalidArgument)
	}
	if sighting.DateTime.IsZero() {
		return fmt.Errorf("%w: sighting date and time is required", ErrInvalidArgument)
	}
	if sighting.BirdID <= 0 {
		return fmt.Errorf("%w: sighting bird id is required", ErrInvalidArgument)
	}
	exists, err := s.birds.Exists(ctx, sighting.BirdID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: bird %d does not exist", ErrInvalidArgument, sighting.BirdID)
	}
	return nil
}
