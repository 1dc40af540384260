package dto

import (
	"time"

	"github.com/dimitrije/datacoll-api/internal/models"
)

// CapabilitiesDoc is the wire form of a collection's capability set.
type CapabilitiesDoc struct {
	IsOrdered           bool    `json:"isOrdered"`
	AppendsToEnd        bool    `json:"appendsToEnd"`
	SupportsRoles       bool    `json:"supportsRoles"`
	MembershipIsMutable bool    `json:"membershipIsMutable"`
	MetadataIsMutable   bool    `json:"metadataIsMutable"`
	RestrictedToType    *string `json:"restrictedToType,omitempty"`
	MaxLength           int     `json:"maxLength"`
	RuleBasedGeneration bool    `json:"ruleBasedGeneration"`
}

// PropertiesDoc is the wire form of a collection's descriptive properties.
type PropertiesDoc struct {
	Ownership             string   `json:"ownership"`
	License               string   `json:"license"`
	HasAccessRestrictions bool     `json:"hasAccessRestrictions"`
	MemberOf              []string `json:"memberOf"`
}

type CollectionResponse struct {
	ID           string          `json:"id"`
	PID          *string         `json:"pid,omitempty"`
	Name         *string         `json:"name,omitempty"`
	Creation     time.Time       `json:"creation"`
	Capabilities CapabilitiesDoc `json:"capabilities"`
	Properties   PropertiesDoc   `json:"properties"`
	Rule         *string         `json:"rule,omitempty"`
}

// CollectionRequest is the body of collection create and update calls.
// Absent fields are left untouched on update.
type CollectionRequest struct {
	PID          *string `json:"pid"`
	Name         *string `json:"name"`
	Rule         *string `json:"rule"`
	Capabilities *struct {
		RestrictedToType *string `json:"restrictedToType"`
	} `json:"capabilities"`
	Properties *struct {
		Ownership *string `json:"ownership"`
	} `json:"properties"`
}

// Ownership returns the owner mail carried in the request, if any.
func (r *CollectionRequest) Ownership() *string {
	if r.Properties == nil {
		return nil
	}
	return r.Properties.Ownership
}

// RestrictedToType returns the datatype restriction carried in the
// request, if any.
func (r *CollectionRequest) RestrictedToType() *string {
	if r.Capabilities == nil {
		return nil
	}
	return r.Capabilities.RestrictedToType
}

// NewCollectionResponse builds the wire document of a collection with its
// capability set.
func NewCollectionResponse(c *models.Collection, caps models.Capabilities) CollectionResponse {
	return CollectionResponse{
		ID:       c.ID.String(),
		PID:      c.PID,
		Name:     c.Name,
		Creation: c.CreatedAt,
		Capabilities: CapabilitiesDoc{
			IsOrdered:           caps.IsOrdered,
			AppendsToEnd:        caps.AppendsToEnd,
			SupportsRoles:       caps.SupportsRoles,
			MembershipIsMutable: caps.MembershipIsMutable,
			MetadataIsMutable:   caps.MetadataIsMutable,
			RestrictedToType:    caps.RestrictedToType,
			MaxLength:           caps.MaxLength,
			RuleBasedGeneration: caps.RuleBasedGeneration,
		},
		Properties: PropertiesDoc{
			Ownership:             c.Owner,
			License:               "CC-BY",
			HasAccessRestrictions: false,
			MemberOf:              []string{},
		},
		Rule: c.Rule,
	}
}
