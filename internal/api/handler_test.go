package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/birdkeep/birdkeep/internal/api"
	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/internal/testutil"
	"github.com/birdkeep/birdkeep/pkg/models"
)

// newTestServer wires the full handler stack over an in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	store := testutil.NewMigratedStore(t)
	logger := testutil.Logger()

	birdRepo := services.NewSQLiteBirdRepository(store.DB())
	sightingRepo := services.NewSQLiteSightingRepository(store.DB())
	handler := api.NewHandler(
		services.NewBirdService(birdRepo, logger),
		services.NewSightingService(sightingRepo, birdRepo, logger),
		logger,
	)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func createBird(t *testing.T, ts *httptest.Server, name, color string) models.Bird {
	t.Helper()
	resp := doJSON(t, "POST", ts.URL+"/api/v1/birds", map[string]any{
		"name": name, "color": color, "weight": 10.0, "height": 12.0,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create bird: status %d", resp.StatusCode)
	}
	return decode[models.Bird](t, resp)
}

func TestBirdCRUD(t *testing.T) {
	ts := newTestServer(t)

	created := createBird(t, ts, "Sparrow", "Brown")
	if created.ID == 0 {
		t.Fatal("created bird has no id")
	}

	resp := doJSON(t, "GET", fmt.Sprintf("%s/api/v1/birds/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	got := decode[models.Bird](t, resp)
	if got.Name != "Sparrow" || got.Color != "Brown" {
		t.Errorf("get = %+v", got)
	}

	resp = doJSON(t, "PUT", fmt.Sprintf("%s/api/v1/birds/%d", ts.URL, created.ID), map[string]any{
		"name": "House Sparrow", "color": "Grey", "weight": 11.0, "height": 13.0,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decode[models.Bird](t, resp)
	if updated.Name != "House Sparrow" || updated.ID != created.ID {
		t.Errorf("update = %+v", updated)
	}

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/v1/birds/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	resp = doJSON(t, "GET", fmt.Sprintf("%s/api/v1/birds/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get after delete: status %d, want 404", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("error content-type = %q", ct)
	}
}

func TestBirdCreateValidationProblem(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, "POST", ts.URL+"/api/v1/birds", map[string]any{
		"name": "", "color": "Brown", "weight": 10.0, "height": 12.0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	p := decode[api.Problem](t, resp)
	if p.Type != api.ProblemTypeBadRequest {
		t.Errorf("problem type = %q", p.Type)
	}
	if p.Detail == "" {
		t.Error("problem detail is empty")
	}
}

func TestBirdCreateMalformedBody(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/birds", "application/json",
		bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBirdGetNonIntegerID(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, "GET", ts.URL+"/api/v1/birds/abc", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBirdListPageEnvelope(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 7; i++ {
		createBird(t, ts, fmt.Sprintf("Bird %02d", i), "Brown")
	}

	resp := doJSON(t, "GET", ts.URL+"/api/v1/birds?page=1&size=5", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	// Decode as a raw map to pin the envelope's JSON field names.
	raw := decode[map[string]any](t, resp)
	for _, key := range []string{
		"content", "totalElements", "totalPages", "size",
		"number", "numberOfElements", "first", "last", "empty",
	} {
		if _, ok := raw[key]; !ok {
			t.Errorf("envelope missing %q", key)
		}
	}
	if raw["totalElements"].(float64) != 7 {
		t.Errorf("totalElements = %v, want 7", raw["totalElements"])
	}
	if raw["totalPages"].(float64) != 2 {
		t.Errorf("totalPages = %v, want 2", raw["totalPages"])
	}
	if raw["number"].(float64) != 1 {
		t.Errorf("number = %v, want 1", raw["number"])
	}
	if raw["numberOfElements"].(float64) != 2 {
		t.Errorf("numberOfElements = %v, want 2", raw["numberOfElements"])
	}
	if raw["first"].(bool) || !raw["last"].(bool) {
		t.Errorf("first = %v, last = %v", raw["first"], raw["last"])
	}
}

func TestBirdListDefaultSize(t *testing.T) {
	ts := newTestServer(t)
	for i := 0; i < 8; i++ {
		createBird(t, ts, fmt.Sprintf("Bird %02d", i), "Brown")
	}

	resp := doJSON(t, "GET", ts.URL+"/api/v1/birds", nil)
	page := decode[models.Page[models.Bird]](t, resp)
	if page.Size != services.DefaultPageSize || len(page.Content) != services.DefaultPageSize {
		t.Errorf("size = %d, content = %d, want default %d",
			page.Size, len(page.Content), services.DefaultPageSize)
	}
}

func TestBirdListRejectsInvalidWindow(t *testing.T) {
	ts := newTestServer(t)

	for _, url := range []string{
		ts.URL + "/api/v1/birds?size=0",
		ts.URL + "/api/v1/birds?size=-2",
		ts.URL + "/api/v1/birds?page=-1",
		ts.URL + "/api/v1/birds?page=abc",
	} {
		resp := doJSON(t, "GET", url, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}

func TestBirdSearch(t *testing.T) {
	ts := newTestServer(t)
	createBird(t, ts, "Sparrow", "Brown")
	createBird(t, ts, "Eagle", "Black")
	createBird(t, ts, "Blue Jay", "Blue")

	resp := doJSON(t, "GET", ts.URL+"/api/v1/birds/search?name=jay", nil)
	page := decode[models.Page[models.Bird]](t, resp)
	if page.TotalElements != 1 || page.Content[0].Name != "Blue Jay" {
		t.Errorf("name=jay page = %+v", page)
	}

	resp = doJSON(t, "GET", ts.URL+"/api/v1/birds/search?color=BROWN", nil)
	page = decode[models.Page[models.Bird]](t, resp)
	if page.TotalElements != 1 || page.Content[0].Name != "Sparrow" {
		t.Errorf("color=BROWN page = %+v", page)
	}

	// No criteria behaves as a plain list.
	resp = doJSON(t, "GET", ts.URL+"/api/v1/birds/search", nil)
	page = decode[models.Page[models.Bird]](t, resp)
	if page.TotalElements != 3 {
		t.Errorf("empty search TotalElements = %d, want 3", page.TotalElements)
	}
}

func TestBirdListSortParam(t *testing.T) {
	ts := newTestServer(t)
	createBird(t, ts, "Sparrow", "Brown")
	createBird(t, ts, "Eagle", "Black")

	resp := doJSON(t, "GET", ts.URL+"/api/v1/birds?sort=name,desc", nil)
	page := decode[models.Page[models.Bird]](t, resp)
	if len(page.Content) != 2 || page.Content[0].Name != "Sparrow" {
		t.Errorf("sort=name,desc content = %+v", page.Content)
	}
}

func TestSightingCRUD(t *testing.T) {
	ts := newTestServer(t)
	bird := createBird(t, ts, "Eagle", "Black")

	resp := doJSON(t, "POST", ts.URL+"/api/v1/sightings", map[string]any{
		"birdId": bird.ID, "location": "Central Park", "dateTime": "2025-01-15T10:30:00",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d", resp.StatusCode)
	}
	created := decode[models.Sighting](t, resp)
	if created.ID == 0 || created.Bird == nil || created.Bird.Name != "Eagle" {
		t.Fatalf("created = %+v", created)
	}

	resp = doJSON(t, "PUT", fmt.Sprintf("%s/api/v1/sightings/%d", ts.URL, created.ID), map[string]any{
		"birdId": bird.ID, "location": "Hyde Park", "dateTime": "2025-01-16T09:00:00",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decode[models.Sighting](t, resp)
	if updated.Location != "Hyde Park" || updated.DateTime.String() != "2025-01-16T09:00:00" {
		t.Errorf("updated = %+v", updated)
	}

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/v1/sightings/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}
}

func TestSightingCreateUnknownBird(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, "POST", ts.URL+"/api/v1/sightings", map[string]any{
		"birdId": 999, "location": "Central Park", "dateTime": "2025-01-15T10:30:00",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	p := decode[api.Problem](t, resp)
	if p.Type != api.ProblemTypeBadRequest {
		t.Errorf("problem type = %q", p.Type)
	}
}

func TestSightingOmitsBirdAfterDeletion(t *testing.T) {
	ts := newTestServer(t)
	bird := createBird(t, ts, "Sparrow", "Brown")

	resp := doJSON(t, "POST", ts.URL+"/api/v1/sightings", map[string]any{
		"birdId": bird.ID, "location": "Central Park", "dateTime": "2025-01-15T10:30:00",
	})
	created := decode[models.Sighting](t, resp)

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/v1/birds/%d", ts.URL, bird.ID), nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete bird: status %d", resp.StatusCode)
	}

	resp = doJSON(t, "GET", fmt.Sprintf("%s/api/v1/sightings/%d", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get sighting: status %d", resp.StatusCode)
	}
	raw := decode[map[string]any](t, resp)
	if _, ok := raw["bird"]; ok {
		t.Errorf("bird field present after deletion: %v", raw["bird"])
	}
	if raw["birdId"].(float64) != float64(bird.ID) {
		t.Errorf("birdId = %v, want %d", raw["birdId"], bird.ID)
	}
}

func TestSightingSearch(t *testing.T) {
	ts := newTestServer(t)
	sparrow := createBird(t, ts, "Sparrow", "Brown")
	eagle := createBird(t, ts, "Eagle", "Black")

	seed := []map[string]any{
		{"birdId": sparrow.ID, "location": "Central Park", "dateTime": "2025-01-10T09:00:00"},
		{"birdId": sparrow.ID, "location": "Hyde Park", "dateTime": "2025-01-12T07:30:00"},
		{"birdId": eagle.ID, "location": "Rocky Mountains", "dateTime": "2025-01-14T16:00:00"},
	}
	for _, s := range seed {
		resp := doJSON(t, "POST", ts.URL+"/api/v1/sightings", s)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed sighting: status %d", resp.StatusCode)
		}
	}

	resp := doJSON(t, "GET", ts.URL+"/api/v1/sightings/search?location=park", nil)
	page := decode[models.Page[models.Sighting]](t, resp)
	if page.TotalElements != 2 {
		t.Errorf("location=park TotalElements = %d, want 2", page.TotalElements)
	}

	resp = doJSON(t, "GET", ts.URL+"/api/v1/sightings/search?birdName=eagle", nil)
	page = decode[models.Page[models.Sighting]](t, resp)
	if page.TotalElements != 1 || page.Content[0].Location != "Rocky Mountains" {
		t.Errorf("birdName=eagle page = %+v", page)
	}

	resp = doJSON(t, "GET",
		ts.URL+"/api/v1/sightings/search?fromDate=2025-01-10T09:00:00&toDate=2025-01-12T07:30:00", nil)
	page = decode[models.Page[models.Sighting]](t, resp)
	if page.TotalElements != 2 {
		t.Errorf("date range TotalElements = %d, want 2", page.TotalElements)
	}
}

func TestSightingSearchRejectsBadDate(t *testing.T) {
	ts := newTestServer(t)

	for _, url := range []string{
		ts.URL + "/api/v1/sightings/search?fromDate=yesterday",
		ts.URL + "/api/v1/sightings/search?toDate=2025-01-10T09:00:00Z",
	} {
		resp := doJSON(t, "GET", url, nil)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("GET %s: status = %d, want 400", url, resp.StatusCode)
		}
	}
}
