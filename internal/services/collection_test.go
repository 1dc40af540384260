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

func strptr(s string) *string { return &s }

func TestCollectionCreate(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)

	coll, err := svc.Create(context.Background(), services.CollectionInput{
		Owner: strptr("dave@example.org"),
		Name:  strptr("Waveforms"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, coll.ID)
	assert.Equal(t, "dave@example.org", coll.Owner)
	assert.False(t, coll.CreatedAt.IsZero())

	// Collections created without a PID get a generated one.
	require.NotNil(t, coll.PID)
	_, err = uuid.Parse(*coll.PID)
	assert.NoError(t, err)
}

func TestCollectionCreateRequiresOwner(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)

	_, err := svc.Create(context.Background(), services.CollectionInput{Name: strptr("orphan")})
	assert.ErrorIs(t, err, services.ErrBadRequest)
}

func TestCollectionCreateRejectsBadRule(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)

	_, err := svc.Create(context.Background(), services.CollectionInput{
		Owner: strptr("dave@example.org"),
		Rule:  strptr("wave[forms"),
	})
	assert.ErrorIs(t, err, services.ErrBadRequest)
}

func TestCollectionCreateDuplicatePID(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)
	ctx := context.Background()

	_, err := svc.Create(ctx, services.CollectionInput{
		Owner: strptr("dave@example.org"),
		PID:   strptr("pid-1"),
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, services.CollectionInput{
		Owner: strptr("dave@example.org"),
		PID:   strptr("pid-1"),
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestCollectionGetNotFound(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollectionListFiltersByOwner(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)
	ctx := context.Background()

	for _, owner := range []string{"a@example.org", "b@example.org", "a@example.org"} {
		_, err := svc.Create(ctx, services.CollectionInput{Owner: strptr(owner)})
		require.NoError(t, err)
	}

	cur, err := svc.List(ctx, strptr("a@example.org"))
	require.NoError(t, err)
	defer cur.Close(ctx)

	count := 0
	for {
		coll, ok, err := cur.Next(ctx)
		require.NoError(t, err)
		if !ok {
			break
		}
		assert.Equal(t, "a@example.org", coll.Owner)
		count++
	}
	assert.Equal(t, 2, count)
}

func TestCollectionUpdateOverlaysFields(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)
	ctx := context.Background()

	coll, err := svc.Create(ctx, services.CollectionInput{
		Owner: strptr("dave@example.org"),
		Name:  strptr("before"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, coll.ID, services.CollectionInput{
		Name:               strptr("after"),
		RestrictedDatatype: strptr("miniseed"),
	})
	require.NoError(t, err)
	assert.Equal(t, "after", *updated.Name)
	assert.Equal(t, "miniseed", *updated.RestrictedDatatype)
	assert.Equal(t, coll.Owner, updated.Owner)
	assert.Equal(t, *coll.PID, *updated.PID)
}

func TestCollectionUpdateNotFound(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)

	_, err := svc.Update(context.Background(), uuid.New(), services.CollectionInput{Name: strptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCollectionDelete(t *testing.T) {
	svc := services.NewCollectionService(memstore.New(), 100)
	ctx := context.Background()

	coll, err := svc.Create(ctx, services.CollectionInput{Owner: strptr("dave@example.org")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, coll.ID))
	assert.ErrorIs(t, svc.Delete(ctx, coll.ID), store.ErrNotFound)
}
