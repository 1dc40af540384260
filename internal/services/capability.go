package services

import (
	"context"

	"github.com/dimitrije/datacoll-api/internal/models"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/google/uuid"
)

type CapabilityService struct {
	store store.Store
}

func NewCapabilityService(st store.Store) *CapabilityService {
	return &CapabilityService{store: st}
}

// CapabilitiesOf builds the capability document of a collection: the fixed
// base overlaid with the collection's datatype restriction and, for
// rule-based collections, frozen membership.
func (s *CapabilityService) CapabilitiesOf(ctx context.Context, collID uuid.UUID) (*models.Capabilities, error) {
	coll, err := s.store.GetCollection(ctx, collID)
	if err != nil {
		return nil, err
	}

	caps := models.DefaultCapabilities()
	caps.RestrictedToType = coll.RestrictedDatatype
	if coll.RuleBased() {
		caps.MembershipIsMutable = false
		caps.RuleBasedGeneration = true
	}
	return &caps, nil
}
