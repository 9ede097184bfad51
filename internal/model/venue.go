package model

import "time"

// Venue is a catalog entry. Sessions store a denormalized snapshot of
// these fields at proposal time; later catalog edits do not propagate.
type Venue struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Type      string    `json:"type,omitempty" bson:"type,omitempty"`
	PhotoURL  string    `json:"photoUrl,omitempty" bson:"photoUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
