package services_test

import (
	"context"
	"testing"

	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/dimitrije/datacoll-api/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapabilitiesOfPlainCollection(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	coll, err := services.NewCollectionService(st, 100).Create(ctx, services.CollectionInput{
		Owner: strptr("dave@example.org"),
	})
	require.NoError(t, err)

	caps, err := services.NewCapabilityService(st).CapabilitiesOf(ctx, coll.ID)
	require.NoError(t, err)
	assert.True(t, caps.MembershipIsMutable)
	assert.True(t, caps.MetadataIsMutable)
	assert.False(t, caps.RuleBasedGeneration)
	assert.Nil(t, caps.RestrictedToType)
	assert.Equal(t, -1, caps.MaxLength)
}

func TestCapabilitiesOfRestrictedRuleBasedCollection(t *testing.T) {
	st := memstore.New()
	ctx := context.Background()
	coll, err := services.NewCollectionService(st, 100).Create(ctx, services.CollectionInput{
		Owner:              strptr("dave@example.org"),
		Rule:               strptr("wave-*"),
		RestrictedDatatype: strptr("miniseed"),
	})
	require.NoError(t, err)

	caps, err := services.NewCapabilityService(st).CapabilitiesOf(ctx, coll.ID)
	require.NoError(t, err)
	assert.False(t, caps.MembershipIsMutable)
	assert.True(t, caps.RuleBasedGeneration)
	require.NotNil(t, caps.RestrictedToType)
	assert.Equal(t, "miniseed", *caps.RestrictedToType)
}

func TestCapabilitiesOfUnknownCollection(t *testing.T) {
	_, err := services.NewCapabilityService(memstore.New()).CapabilitiesOf(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}
