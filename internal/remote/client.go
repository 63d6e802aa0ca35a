// Package remote implements the HTTP client the birdkeep CLI uses to talk
// to a birdkeepd server. Only the transfer shapes in pkg/models cross this
// boundary.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/birdkeep/birdkeep/pkg/models"
)

// APIError is a problem response returned by the server.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (%d): %s", e.Title, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s (%d)", e.Title, e.Status)
}

// PageParams selects a page window on list and search calls.
// A zero Size lets the server apply its default.
type PageParams struct {
	Page int
	Size int
	Sort string // "field,dir" form, e.g. "name,desc".
}

func (p PageParams) apply(q url.Values) {
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
}

// Client is an HTTP client for the birdkeep REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client for the API at baseURL
// (e.g. "http://localhost:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + "/api/v1" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// decodeAPIError turns a problem response into an *APIError. A body that
// is not a problem document still yields an APIError with the status code.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Title: resp.Status}
	var problem struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil && problem.Title != "" {
		apiErr.Title = problem.Title
		apiErr.Detail = problem.Detail
	}
	return apiErr
}

// CreateBird creates a bird and returns it with its assigned id.
func (c *Client) CreateBird(ctx context.Context, bird models.Bird) (*models.Bird, error) {
	var out models.Bird
	if err := c.do(ctx, http.MethodPost, "/birds", nil, bird, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBird fetches a bird by id.
func (c *Client) GetBird(ctx context.Context, id int64) (*models.Bird, error) {
	var out models.Bird
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/birds/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBird replaces all fields of the bird with the given id.
func (c *Client) UpdateBird(ctx context.Context, id int64, bird models.Bird) (*models.Bird, error) {
	var out models.Bird
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/birds/%d", id), nil, bird, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBird removes a bird by id.
func (c *Client) DeleteBird(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/birds/%d", id), nil, nil, nil)
}

// ListBirds fetches one page of birds.
func (c *Client) ListBirds(ctx context.Context, page PageParams) (*models.Page[models.Bird], error) {
	q := url.Values{}
	page.apply(q)
	var out models.Page[models.Bird]
	if err := c.do(ctx, http.MethodGet, "/birds", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchBirds fetches one page of birds matching the optional criteria.
func (c *Client) SearchBirds(ctx context.Context, name, color string, page PageParams) (*models.Page[models.Bird], error) {
	q := url.Values{}
	if name != "" {
		q.Set("name", name)
	}
	if color != "" {
		q.Set("color", color)
	}
	page.apply(q)
	var out models.Page[models.Bird]
	if err := c.do(ctx, http.MethodGet, "/birds/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSighting creates a sighting and returns it with its assigned id
// and bird snapshot.
func (c *Client) CreateSighting(ctx context.Context, sighting models.Sighting) (*models.Sighting, error) {
	var out models.Sighting
	if err := c.do(ctx, http.MethodPost, "/sightings", nil, sighting, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSighting fetches a sighting by id.
func (c *Client) GetSighting(ctx context.Context, id int64) (*models.Sighting, error) {
	var out models.Sighting
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sightings/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSighting replaces all fields of the sighting with the given id.
func (c *Client) UpdateSighting(ctx context.Context, id int64, sighting models.Sighting) (*models.Sighting, error) {
	var out models.Sighting
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sightings/%d", id), nil, sighting, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSighting removes a sighting by id.
func (c *Client) DeleteSighting(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sightings/%d", id), nil, nil, nil)
}

// ListSightings fetches one page of sightings.
func (c *Client) ListSightings(ctx context.Context, page PageParams) (*models.Page[models.Sighting], error) {
	q := url.Values{}
	page.apply(q)
	var out models.Page[models.Sighting]
	if err := c.do(ctx, http.MethodGet, "/sightings", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchSightings fetches one page of sightings matching the optional
// criteria. From and To are inclusive bounds on the observation timestamp.
func (c *Client) SearchSightings(ctx context.Context, birdName, location string, from, to *models.DateTime, page PageParams) (*models.Page[models.Sighting], error) {
	q := url.Values{}
	if birdName != "" {
		q.Set("birdName", birdName)
	}
	if location != "" {
		q.Set("location", location)
	}
	if from != nil {
		q.Set("fromDate", from.String())
	}
	if to != nil {
		q.Set("toDate", to.String())
	}
	page.apply(q)
	var out models.Page[models.Sighting]
	if err := c.do(ctx, http.MethodGet, "/sightings/search", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
