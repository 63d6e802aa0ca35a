// Package services provides repository interfaces and SQLite implementations
// for birds and sightings, plus the service layer that combines optional
// search criteria, pagination, and referential checks. This layer bridges
// the raw SQLite store with the HTTP API and CLI client.
package services

import (
	"errors"
	"fmt"
)

// Page size applied when a caller does not specify one, and the cap beyond
// which requests are clamped at the transport boundary.
const (
	DefaultPageSize = 5
	MaxPageSize     = 1000
)

// PageRequest selects one window of an ordered result set.
//
// Page is zero-based. Sort names an entity field; an empty or unknown field
// falls back to id. Ordering always ends with an ascending-id tie-break so
// that rows with equal sort values keep a fixed relative order across pages.
type PageRequest struct {
	Page  int    // Zero-based page index.
	Size  int    // Rows per page.
	Sort  string // Entity field name (validated per-repository).
	Order string // "asc" or "desc" (default "asc").
}

// Offset returns the row offset of the window.
func (r PageRequest) Offset() int {
	return r.Page * r.Size
}

// Validate rejects malformed windows before any query runs. A page index
// past the end is not malformed; it yields an empty page.
func (r PageRequest) Validate() error {
	if r.Size <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidArgument, r.Size)
	}
	if r.Page < 0 {
		return fmt.Errorf("%w: page index must not be negative, got %d", ErrInvalidArgument, r.Page)
	}
	return nil
}

// normalizePageRequest applies ordering defaults. Size and Page are left
// alone; Validate decides whether they are acceptable.
func normalizePageRequest(r PageRequest) PageRequest {
	if r.Order != "desc" {
		r.Order = "asc"
	}
	return r
}

// Sentinel errors returned by repositories and services.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
)
