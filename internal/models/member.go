package models

import (
	"time"

	"github.com/google/uuid"
)

// Member is an entry in a Collection pointing at a bitstream through a
// resolvable PID and/or a direct location URI. IDs are integers scoped to
// the owning collection.
type Member struct {
	CollectionID uuid.UUID `json:"collection_id"`
	ID           int       `json:"id"`
	PID          *string   `json:"pid,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Checksum     *string   `json:"checksum,omitempty"`
	Datatype     *string   `json:"datatype,omitempty"`
	DateAdded    time.Time `json:"date_added"`
}
