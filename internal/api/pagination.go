package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/birdkeep/birdkeep/internal/services"
)

// parsePageRequest reads page, size, and sort query parameters.
//
// Absent parameters default to page 0, size services.DefaultPageSize, and
// ascending id. sort uses the "field,dir" form the table clients send
// (e.g. "name,desc"); a bare "field" means ascending. Explicitly negative
// or zero values are passed through so the service rejects them as invalid
// arguments rather than being silently corrected here.
func parsePageRequest(r *http.Request) (services.PageRequest, error) {
	req := services.PageRequest{
		Page: 0,
		Size: services.DefaultPageSize,
		Sort: "id",
	}

	q := r.URL.Query()

	if s := q.Get("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("page must be an integer, got %q", s)
		}
		req.Page = n
	}

	if s := q.Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return req, fmt.Errorf("size must be an integer, got %q", s)
		}
		if n > services.MaxPageSize {
			n = services.MaxPageSize
		}
		req.Size = n
	}

	if s := q.Get("sort"); s != "" {
		field, dir, _ := strings.Cut(s, ",")
		req.Sort = strings.TrimSpace(field)
		req.Order = strings.ToLower(strings.TrimSpace(dir))
	}

	return req, nil
}
