package testutil

import (
	"time"

	"github.com/birdkeep/birdkeep/pkg/models"
)

// NewBird returns a Bird with sensible defaults, suitable for test fixtures.
// The ID is left zero so the store assigns one on create.
func NewBird(opts ...func(*models.Bird)) models.Bird {
	b := models.Bird{
		Name:   "Sparrow",
		Color:  "Brown",
		Weight: 10.5,
		Height: 12.0,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// WithName sets the bird name.
func WithName(name string) func(*models.Bird) {
	return func(b *models.Bird) { b.Name = name }
}

// WithColor sets the bird color.
func WithColor(color string) func(*models.Bird) {
	return func(b *models.Bird) { b.Color = color }
}

// WithSize sets the bird weight and height.
func WithSize(weight, height float64) func(*models.Bird) {
	return func(b *models.Bird) {
		b.Weight = weight
		b.Height = height
	}
}

// NewSighting returns a Sighting referencing birdID with sensible defaults.
func NewSighting(birdID int64, opts ...func(*models.Sighting)) models.Sighting {
	s := models.Sighting{
		BirdID:   birdID,
		Location: "Central Park",
		DateTime: models.NewDateTime(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)),
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithLocation sets the sighting location.
func WithLocation(location string) func(*models.Sighting) {
	return func(s *models.Sighting) { s.Location = location }
}

// WithDateTime sets the observation timestamp.
func WithDateTime(t time.Time) func(*models.Sighting) {
	return func(s *models.Sighting) { s.DateTime = models.NewDateTime(t) }
}
