package dto

import (
	"time"

	"github.com/dimitrije/datacoll-api/internal/models"
)

// MappingsDoc carries the per-collection placement of a member.
type MappingsDoc struct {
	Index     int       `json:"index"`
	DateAdded time.Time `json:"dateAdded"`
}

type MemberResponse struct {
	ID       int         `json:"id"`
	PID      *string     `json:"pid,omitempty"`
	Location *string     `json:"location,omitempty"`
	Datatype *string     `json:"datatype,omitempty"`
	Checksum *string     `json:"checksum,omitempty"`
	Mappings MappingsDoc `json:"mappings"`
}

// MemberRequest is the body of member create and update calls.
type MemberRequest struct {
	PID      *string `json:"pid"`
	Location *string `json:"location"`
	Datatype *string `json:"datatype"`
	Checksum *string `json:"checksum"`
	Mappings *struct {
		Index *int `json:"index"`
	} `json:"mappings"`
}

// Index returns the explicit member index carried in the request, if any.
func (r *MemberRequest) Index() *int {
	if r.Mappings == nil {
		return nil
	}
	return r.Mappings.Index
}

func NewMemberResponse(m *models.Member) MemberResponse {
	return MemberResponse{
		ID:       m.ID,
		PID:      m.PID,
		Location: m.Location,
		Datatype: m.Datatype,
		Checksum: m.Checksum,
		Mappings: MappingsDoc{Index: m.ID, DateAdded: m.DateAdded},
	}
}
