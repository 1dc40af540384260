package models

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named grouping of Members owned by a user. A collection
// carrying a Rule has no directly-owned members; its membership is computed
// by matching the rule against the names of all collections.
type Collection struct {
	ID                 uuid.UUID `json:"id"`
	PID                *string   `json:"pid,omitempty"`
	Name               *string   `json:"name,omitempty"`
	Owner              string    `json:"owner"`
	RestrictedDatatype *string   `json:"restricted_datatype,omitempty"`
	Rule               *string   `json:"rule,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// RuleBased reports whether membership of this collection is computed from
// a name pattern instead of explicit member rows.
func (c *Collection) RuleBased() bool {
	return c.Rule != nil
}
