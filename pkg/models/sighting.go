package models

// Sighting is a timestamped observation of a bird at a location.
//
// BirdID is a weak reference: it resolved to a live Bird when the sighting
// was written, but the bird may have been deleted since. Bird carries the
// denormalized snapshot attached at read time; it is nil when the reference
// no longer resolves. Historical sightings stay retrievable either way.
type Sighting struct {
	ID       int64    `json:"id"`
	BirdID   int64    `json:"birdId"`
	Location string   `json:"location"`
	DateTime DateTime `json:"dateTime"`
	Bird     *Bird    `json:"bird,omitempty"`
}
