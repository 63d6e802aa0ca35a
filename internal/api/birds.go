package api

import (
	"encoding/json"
	"net/http"

	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/pkg/models"
)

// birdRequest is the JSON body for POST /birds and PUT /birds/{id}.
type birdRequest struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}

// handleCreateBird creates a new bird.
//
//	@Summary		Create bird
//	@Description	Creates a new bird record; the id is assigned by the store.
//	@Tags			birds
//	@Accept			json
//	@Produce		json
//	@Param			body body birdRequest true "Bird fields"
//	@Success		201 {object} models.Bird
//	@Failure		400 {object} Problem
//	@Router			/birds [post]
func (h *Handler) handleCreateBird(w http.ResponseWriter, r *http.Request) {
	var req birdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	bird, err := h.birds.Create(r.Context(), models.Bird{
		Name:   req.Name,
		Color:  req.Color,
		Weight: req.Weight,
		Height: req.Height,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, bird)
}

// handleGetBird returns a single bird by id.
//
//	@Summary		Get bird
//	@Tags			birds
//	@Produce		json
//	@Param			id path int true "Bird id"
//	@Success		200 {object} models.Bird
//	@Failure		404 {object} Problem
//	@Router			/birds/{id} [get]
func (h *Handler) handleGetBird(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	bird, err := h.birds.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bird)
}

// handleUpdateBird replaces all mutable fields of a bird.
//
//	@Summary		Update bird
//	@Tags			birds
//	@Accept			json
//	@Produce		json
//	@Param			id path int true "Bird id"
//	@Param			body body birdRequest true "Replacement fields"
//	@Success		200 {object} models.Bird
//	@Failure		400 {object} Problem
//	@Failure		404 {object} Problem
//	@Router			/birds/{id} [put]
func (h *Handler) handleUpdateBird(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	var req birdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	bird, err := h.birds.Update(r.Context(), id, models.Bird{
		Name:   req.Name,
		Color:  req.Color,
		Weight: req.Weight,
		Height: req.Height,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bird)
}

// handleDeleteBird removes a bird by id.
//
//	@Summary		Delete bird
//	@Tags			birds
//	@Param			id path int true "Bird id"
//	@Success		204
//	@Failure		404 {object} Problem
//	@Router			/birds/{id} [delete]
func (h *Handler) handleDeleteBird(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	if err := h.birds.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListBirds returns one page of all birds.
//
//	@Summary		List birds
//	@Tags			birds
//	@Produce		json
//	@Param			page query int false "Zero-based page index"
//	@Param			size query int false "Page size (default 5)"
//	@Param			sort query string false "Sort as field,dir (default id,asc)"
//	@Success		200 {object} models.Page[models.Bird]
//	@Failure		400 {object} Problem
//	@Router			/birds [get]
func (h *Handler) handleListBirds(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	page, err := h.birds.List(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSearchBirds returns one page of birds matching the optional
// name and color criteria.
//
//	@Summary		Search birds
//	@Tags			birds
//	@Produce		json
//	@Param			name query string false "Name substring, case-insensitive"
//	@Param			color query string false "Exact color, case-insensitive"
//	@Param			page query int false "Zero-based page index"
//	@Param			size query int false "Page size (default 5)"
//	@Param			sort query string false "Sort as field,dir (default id,asc)"
//	@Success		200 {object} models.Page[models.Bird]
//	@Failure		400 {object} Problem
//	@Router			/birds/search [get]
func (h *Handler) handleSearchBirds(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	filter := services.BirdFilter{
		Name:  r.URL.Query().Get("name"),
		Color: r.URL.Query().Get("color"),
	}

	page, err := h.birds.Search(r.Context(), filter, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
