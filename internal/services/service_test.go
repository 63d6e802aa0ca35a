package services_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/internal/testutil"
	"github.com/birdkeep/birdkeep/pkg/models"
)

type svc struct {
	birds     *services.BirdService
	sightings *services.SightingService

	birdRepo     services.BirdRepository
	sightingRepo services.SightingRepository
}

func newServices(t *testing.T) svc {
	t.Helper()
	store := testutil.NewMigratedStore(t)
	logger := testutil.Logger()
	birdRepo := services.NewSQLiteBirdRepository(store.DB())
	sightingRepo := services.NewSQLiteSightingRepository(store.DB())
	return svc{
		birds:        services.NewBirdService(birdRepo, logger),
		sightings:    services.NewSightingService(sightingRepo, birdRepo, logger),
		birdRepo:     birdRepo,
		sightingRepo: sightingRepo,
	}
}

func TestBirdService_CreateValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		bird models.Bird
	}{
		{"empty name", testutil.NewBird(testutil.WithName(""))},
		{"blank name", testutil.NewBird(testutil.WithName("   "))},
		{"empty color", testutil.NewBird(testutil.WithColor(""))},
		{"zero weight", testutil.NewBird(testutil.WithSize(0, 12))},
		{"negative height", testutil.NewBird(testutil.WithSize(10, -1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.birds.Create(ctx, tt.bird)
			if !errors.Is(err, services.ErrInvalidArgument) {
				t.Errorf("Create error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	count, err := s.birdRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d after rejected creates, want 0", count)
	}
}

func TestBirdService_CreateIgnoresClientID(t *testing.T) {
	s := newServices(t)

	in := testutil.NewBird()
	in.ID = 777
	created, err := s.birds.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 777 {
		t.Errorf("client-supplied id was honored, want store-assigned")
	}
	if created.ID == 0 {
		t.Errorf("created bird has no assigned id")
	}
}

func TestBirdService_UpdateFullReplace(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	created, err := s.birds.Create(ctx, testutil.NewBird())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := s.birds.Update(ctx, created.ID, models.Bird{
		Name: "Osprey", Color: "White", Weight: 60, Height: 55,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Errorf("id changed on update: %d -> %d", created.ID, updated.ID)
	}
	if updated.Name != "Osprey" || updated.Weight != 60 {
		t.Errorf("updated = %+v", updated)
	}
}

func TestBirdService_SearchValidatesPageRequest(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  services.PageRequest
	}{
		{"zero size", services.PageRequest{Page: 0, Size: 0}},
		{"negative size", services.PageRequest{Page: 0, Size: -3}},
		{"negative page", services.PageRequest{Page: -1, Size: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.birds.Search(ctx, services.BirdFilter{}, tt.req)
			if !errors.Is(err, services.ErrInvalidArgument) {
				t.Errorf("Search error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestBirdService_ListEqualsEmptySearch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	for _, name := range []string{"Sparrow", "Eagle", "Blue Jay"} {
		if _, err := s.birds.Create(ctx, testutil.NewBird(testutil.WithName(name))); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	req := services.PageRequest{Page: 0, Size: 2}
	listed, err := s.birds.List(ctx, req)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	searched, err := s.birds.Search(ctx, services.BirdFilter{}, req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(listed, searched) {
		t.Errorf("List = %+v\nSearch = %+v, want identical pages", listed, searched)
	}
}

func TestBirdService_SearchScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	seed := []models.Bird{
		{Name: "Sparrow", Color: "Brown", Weight: 10.5, Height: 12},
		{Name: "Eagle", Color: "Black", Weight: 50, Height: 80},
		{Name: "Blue Jay", Color: "Blue", Weight: 15, Height: 20},
	}
	for _, b := range seed {
		if _, err := s.birds.Create(ctx, b); err != nil {
			t.Fatalf("Create %s: %v", b.Name, err)
		}
	}

	page, err := s.birds.Search(ctx,
		services.BirdFilter{Name: "jay"},
		services.PageRequest{Page: 0, Size: services.DefaultPageSize},
	)
	if err != nil {
		t.Fatalf("Search name=jay: %v", err)
	}
	if page.TotalElements != 1 || len(page.Content) != 1 || page.Content[0].Name != "Blue Jay" {
		t.Errorf("name=jay page = %+v", page)
	}

	page, err = s.birds.Search(ctx,
		services.BirdFilter{Color: "brown"},
		services.PageRequest{Page: 0, Size: services.DefaultPageSize},
	)
	if err != nil {
		t.Fatalf("Search color=brown: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].Name != "Sparrow" {
		t.Errorf("color=brown page = %+v", page)
	}
}

func TestBirdService_SearchBeyondLastPage(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()
	if _, err := s.birds.Create(ctx, testutil.NewBird()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	page, err := s.birds.Search(ctx, services.BirdFilter{}, services.PageRequest{Page: 10, Size: 5})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !page.Empty || len(page.Content) != 0 {
		t.Errorf("page beyond end should be empty, got %+v", page)
	}
	if !page.Last {
		t.Errorf("page beyond end should report Last")
	}
	if page.TotalElements != 1 {
		t.Errorf("TotalElements = %d, want 1", page.TotalElements)
	}
}

func TestSightingService_CreateRejectsMissingBird(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	before, err := s.sightingRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}

	_, err = s.sightings.Create(ctx, testutil.NewSighting(999))
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Errorf("Create error = %v, want ErrInvalidArgument", err)
	}

	after, err := s.sightingRepo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if after != before {
		t.Errorf("count changed %d -> %d on rejected create", before, after)
	}
}

func TestSightingService_CreateAttachesSnapshot(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	bird, err := s.birds.Create(ctx, testutil.NewBird(testutil.WithName("Eagle")))
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}

	created, err := s.sightings.Create(ctx, testutil.NewSighting(bird.ID))
	if err != nil {
		t.Fatalf("Create sighting: %v", err)
	}
	if created.ID == 0 {
		t.Errorf("created sighting has no assigned id")
	}
	if created.Bird == nil || created.Bird.Name != "Eagle" {
		t.Errorf("snapshot = %+v, want Eagle", created.Bird)
	}
}

func TestSightingService_CreateValidation(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	bird, err := s.birds.Create(ctx, testutil.NewBird())
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}

	tests := []struct {
		name     string
		sighting models.Sighting
	}{
		{"empty location", testutil.NewSighting(bird.ID, testutil.WithLocation(""))},
		{"zero timestamp", models.Sighting{BirdID: bird.ID, Location: "Central Park"}},
		{"zero bird id", testutil.NewSighting(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.sightings.Create(ctx, tt.sighting)
			if !errors.Is(err, services.ErrInvalidArgument) {
				t.Errorf("Create error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestSightingService_UpdateRejectsMissingBird(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	bird, err := s.birds.Create(ctx, testutil.NewBird())
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}
	created, err := s.sightings.Create(ctx, testutil.NewSighting(bird.ID))
	if err != nil {
		t.Fatalf("Create sighting: %v", err)
	}

	in := testutil.NewSighting(999, testutil.WithLocation("Elsewhere"))
	_, err = s.sightings.Update(ctx, created.ID, in)
	if !errors.Is(err, services.ErrInvalidArgument) {
		t.Errorf("Update error = %v, want ErrInvalidArgument", err)
	}

	// The stored sighting is untouched by the rejected update.
	got, err := s.sightings.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.BirdID != bird.ID || got.Location != created.Location {
		t.Errorf("sighting changed by rejected update: %+v", got)
	}
}

func TestSightingService_SearchScenario(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	sparrow, err := s.birds.Create(ctx, testutil.NewBird(testutil.WithName("Sparrow")))
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}
	eagle, err := s.birds.Create(ctx, testutil.NewBird(testutil.WithName("Eagle"), testutil.WithColor("Black")))
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}

	seed := []models.Sighting{
		testutil.NewSighting(sparrow.ID, testutil.WithLocation("Central Park")),
		testutil.NewSighting(sparrow.ID, testutil.WithLocation("Hyde Park")),
		testutil.NewSighting(eagle.ID, testutil.WithLocation("Rocky Mountains")),
	}
	for i, in := range seed {
		if _, err := s.sightings.Create(ctx, in); err != nil {
			t.Fatalf("Create sighting %d: %v", i, err)
		}
	}

	page, err := s.sightings.Search(ctx,
		services.SightingFilter{Location: "park"},
		services.PageRequest{Page: 0, Size: services.DefaultPageSize},
	)
	if err != nil {
		t.Fatalf("Search location=park: %v", err)
	}
	if page.TotalElements != 2 {
		t.Errorf("location=park TotalElements = %d, want 2", page.TotalElements)
	}

	page, err = s.sightings.Search(ctx,
		services.SightingFilter{BirdName: "eagle", Location: "mountain"},
		services.PageRequest{Page: 0, Size: services.DefaultPageSize},
	)
	if err != nil {
		t.Fatalf("Search eagle+mountain: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].Location != "Rocky Mountains" {
		t.Errorf("eagle+mountain page = %+v", page)
	}
}

func TestSightingService_ListEqualsEmptySearch(t *testing.T) {
	s := newServices(t)
	ctx := context.Background()

	bird, err := s.birds.Create(ctx, testutil.NewBird())
	if err != nil {
		t.Fatalf("Create bird: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := s.sightings.Create(ctx, testutil.NewSighting(bird.ID)); err != nil {
			t.Fatalf("Create sighting: %v", err)
		}
	}

	req := services.PageRequest{Page: 0, Size: 2}
	listed, err := s.sightings.List(ctx, req)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	searched, err := s.sightings.Search(ctx, services.SightingFilter{}, req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !reflect.DeepEqual(listed, searched) {
		t.Errorf("List = %+v\nSearch = %+v, want identical pages", listed, searched)
	}
}
