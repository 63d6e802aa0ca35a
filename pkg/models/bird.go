// Package models defines the transfer shapes exchanged between the API
// server and its clients. These are the only types that cross the HTTP
// boundary; repository and query internals never leak through them.
package models

// Bird is a tracked species record. Identity is the surrogate ID assigned
// by the store on creation; two birds are the same record iff their IDs match.
type Bird struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Weight float64 `json:"weight"`
	Height float64 `json:"height"`
}
