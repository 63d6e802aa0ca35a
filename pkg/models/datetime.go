package models

import (
	"fmt"
	"strings"
	"time"
)

// DateTimeLayout is the wire format for observation timestamps: second
// precision, no zone offset. The same layout is used in JSON bodies, query
// parameters, and the sightings table, where its lexicographic order matches
// chronological order.
const DateTimeLayout = "2006-01-02T15:04:05"

// DateTime is a zone-free timestamp with second precision.
type DateTime struct {
	time.Time
}

// NewDateTime truncates t to second precision and drops its zone.
func NewDateTime(t time.Time) DateTime {
	return DateTime{time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)}
}

// ParseDateTime parses s in DateTimeLayout.
func ParseDateTime(s string) (DateTime, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, time.UTC)
	if err != nil {
		return DateTime{}, fmt.Errorf("parse datetime %q: %w", s, err)
	}
	return DateTime{t}, nil
}

// String formats the timestamp in DateTimeLayout.
func (d DateTime) String() string {
	return d.Format(DateTimeLayout)
}

// MarshalJSON encodes the timestamp as a DateTimeLayout string.
func (d DateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DateTimeLayout) + `"`), nil
}

// UnmarshalJSON decodes a DateTimeLayout string. A JSON null leaves the
// zero value in place.
func (d *DateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
