package models

// Page is a bounded window over an ordered result set plus the metadata a
// table client needs to drive next/previous/first/last navigation and
// empty-state rendering without re-deriving anything. JSON field names match
// the page envelope the existing table clients already consume.
type Page[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

// NewPage wraps one window of results with page metadata. content holds the
// rows for the zero-based page number at the given size; total is the count
// across all pages. A number past the last page produces an empty page with
// Last set, which is how out-of-range requests are represented rather than
// failed.
func NewPage[T any](content []T, total int64, number, size int) Page[T] {
	if content == nil {
		content = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return Page[T]{
		Content:          content,
		TotalElements:    total,
		TotalPages:       totalPages,
		Size:             size,
		Number:           number,
		NumberOfElements: len(content),
		First:            number == 0,
		Last:             total == 0 || number >= totalPages-1,
		Empty:            len(content) == 0,
	}
}
