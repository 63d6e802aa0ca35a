package api

import (
	"encoding/json"
	"net/http"

	"github.com/birdkeep/birdkeep/internal/services"
	"github.com/birdkeep/birdkeep/pkg/models"
)

// sightingRequest is the JSON body for POST /sightings and
// PUT /sightings/{id}. Updates replace all fields, birdId included.
type sightingRequest struct {
	BirdID   int64           `json:"birdId"`
	Location string          `json:"location"`
	DateTime models.DateTime `json:"dateTime"`
}

// handleCreateSighting creates a new sighting. The referenced bird must
// exist at the moment of the write.
//
//	@Summary		Create sighting
//	@Tags			sightings
//	@Accept			json
//	@Produce		json
//	@Param			body body sightingRequest true "Sighting fields"
//	@Success		201 {object} models.Sighting
//	@Failure		400 {object} Problem
//	@Router			/sightings [post]
func (h *Handler) handleCreateSighting(w http.ResponseWriter, r *http.Request) {
	var req sightingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	sighting, err := h.sightings.Create(r.Context(), models.Sighting{
		BirdID:   req.BirdID,
		Location: req.Location,
		DateTime: req.DateTime,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sighting)
}

// handleGetSighting returns a single sighting by id. The bird field is
// omitted when the referenced bird no longer exists.
//
//	@Summary		Get sighting
//	@Tags			sightings
//	@Produce		json
//	@Param			id path int true "Sighting id"
//	@Success		200 {object} models.Sighting
//	@Failure		404 {object} Problem
//	@Router			/sightings/{id} [get]
func (h *Handler) handleGetSighting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	sighting, err := h.sightings.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sighting)
}

// handleUpdateSighting replaces all mutable fields of a sighting.
//
//	@Summary		Update sighting
//	@Tags			sightings
//	@Accept			json
//	@Produce		json
//	@Param			id path int true "Sighting id"
//	@Param			body body sightingRequest true "Replacement fields"
//	@Success		200 {object} models.Sighting
//	@Failure		400 {object} Problem
//	@Failure		404 {object} Problem
//	@Router			/sightings/{id} [put]
func (h *Handler) handleUpdateSighting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	var req sightingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid JSON body", r.URL.Path)
		return
	}

	sighting, err := h.sightings.Update(r.Context(), id, models.Sighting{
		BirdID:   req.BirdID,
		Location: req.Location,
		DateTime: req.DateTime,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sighting)
}

// handleDeleteSighting removes a sighting by id.
//
//	@Summary		Delete sighting
//	@Tags			sightings
//	@Param			id path int true "Sighting id"
//	@Success		204
//	@Failure		404 {object} Problem
//	@Router			/sightings/{id} [delete]
func (h *Handler) handleDeleteSighting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	if err := h.sightings.Delete(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleListSightings returns one page of all sightings.
//
//	@Summary		List sightings
//	@Tags			sightings
//	@Produce		json
//	@Param			page query int false "Zero-based page index"
//	@Param			size query int false "Page size (default 5)"
//	@Param			sort query string false "Sort as field,dir (default id,asc)"
//	@Success		200 {object} models.Page[models.Sighting]
//	@Failure		400 {object} Problem
//	@Router			/sightings [get]
func (h *Handler) handleListSightings(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	page, err := h.sightings.List(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// handleSearchSightings returns one page of sightings matching the optional
// birdName, location, fromDate, and toDate criteria.
//
//	@Summary		Search sightings
//	@Tags			sightings
//	@Produce		json
//	@Param			birdName query string false "Exact bird name, case-insensitive"
//	@Param			location query string false "Location substring, case-insensitive"
//	@Param			fromDate query string false "Inclusive lower bound, 2006-01-02T15:04:05"
//	@Param			toDate query string false "Inclusive upper bound, 2006-01-02T15:04:05"
//	@Param			page query int false "Zero-based page index"
//	@Param			size query int false "Page size (default 5)"
//	@Param			sort query string false "Sort as field,dir (default id,asc)"
//	@Success		200 {object} models.Page[models.Sighting]
//	@Failure		400 {object} Problem
//	@Router			/sightings/search [get]
func (h *Handler) handleSearchSightings(w http.ResponseWriter, r *http.Request) {
	req, err := parsePageRequest(r)
	if err != nil {
		BadRequest(w, err.Error(), r.URL.Path)
		return
	}

	q := r.URL.Query()
	filter := services.SightingFilter{
		BirdName: q.Get("birdName"),
		Location: q.Get("location"),
	}

	if s := q.Get("fromDate"); s != "" {
		dt, err := models.ParseDateTime(s)
		if err != nil {
			BadRequest(w, "fromDate must be formatted as "+models.DateTimeLayout, r.URL.Path)
			return
		}
		filter.From = &dt
	}
	if s := q.Get("toDate"); s != "" {
		dt, err := models.ParseDateTime(s)
		if err != nil {
			BadRequest(w, "toDate must be formatted as "+models.DateTimeLayout, r.URL.Path)
			return
		}
		filter.To = &dt
	}

	page, err := h.sightings.Search(r.Context(), filter, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
