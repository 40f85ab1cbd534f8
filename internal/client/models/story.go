// Package models defines client-side data models used by the storymap CLI.
package models

// Story is a community story owned by the remote API. Timestamps are the
// ISO-8601 strings the API hands out; they are persisted verbatim when a
// story is saved locally.
type Story struct {
	// ID is the opaque identifier assigned by the remote API.
	ID string `json:"id"`

	// Name is the display name of the contributor.
	Name string `json:"name"`

	// Description is the story text (10 to 500 characters on submission).
	Description string `json:"description"`

	// PhotoURL points at the hosted image.
	PhotoURL string `json:"photoUrl"`

	// CreatedAt is assigned by the remote API.
	CreatedAt string `json:"createdAt"`

	// Lat and Lon are optional; either both are set or neither is.
	Lat *float64 `json:"lat,omitempty"`
	Lon *float64 `json:"lon,omitempty"`
}

// HasLocation reports whether the story carries a complete coordinate pair.
func (s Story) HasLocation() bool {
	return s.Lat != nil && s.Lon != nil
}

// SavedStory is a locally persisted copy of a Story, keyed by the story id.
// AddedAt is stamped once on insert and never changes; UpdatedAt is stamped
// on every update.
type SavedStory struct {
	Story

	AddedAt   string
	UpdatedAt string
}
