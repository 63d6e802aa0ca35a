// Package api provides the REST handlers for birds and sightings. Handlers
// stay thin: they parse and default the raw request, call the service
// layer, and map the error taxonomy onto problem responses. All search and
// pagination semantics live below in internal/services.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/birdkeep/birdkeep/internal/services"
	"go.uber.org/zap"
)

// Handler provides the HTTP handlers for the birds and sightings endpoints.
type Handler struct {
	birds     *services.BirdService
	sightings *services.SightingService
	logger    *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(birds *services.BirdService, sightings *services.SightingService, logger *zap.Logger) *Handler {
	return &Handler{birds: birds, sightings: sightings, logger: logger}
}

// RegisterRoutes registers all bird and sighting routes on the mux.
// The literal /search patterns take precedence over the {id} wildcards.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/birds", h.handleCreateBird)
	mux.HandleFunc("GET /api/v1/birds", h.handleListBirds)
	mux.HandleFunc("GET /api/v1/birds/search", h.handleSearchBirds)
	mux.HandleFunc("GET /api/v1/birds/{id}", h.handleGetBird)
	mux.HandleFunc("PUT /api/v1/birds/{id}", h.handleUpdateBird)
	mux.HandleFunc("DELETE /api/v1/birds/{id}", h.handleDeleteBird)

	mux.HandleFunc("POST /api/v1/sightings", h.handleCreateSighting)
	mux.HandleFunc("GET /api/v1/sightings", h.handleListSightings)
	mux.HandleFunc("GET /api/v1/sightings/search", h.handleSearchSightings)
	mux.HandleFunc("GET /api/v1/sightings/{id}", h.handleGetSighting)
	mux.HandleFunc("PUT /api/v1/sightings/{id}", h.handleUpdateSighting)
	mux.HandleFunc("DELETE /api/v1/sightings/{id}", h.handleDeleteSighting)
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps the service error taxonomy onto problem responses.
// NotFound and InvalidArgument are the caller's fault and pass their detail
// through; anything else is logged and reported as a 500 without detail.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		NotFound(w, err.Error(), r.URL.Path)
	case errors.Is(err, services.ErrInvalidArgument):
		BadRequest(w, err.Error(), r.URL.Path)
	default:
		h.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		InternalError(w, "internal error", r.URL.Path)
	}
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}
	return id, nil
}
