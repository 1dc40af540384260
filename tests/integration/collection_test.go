package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/dimitrije/datacoll-api/internal/services"
	"github.com/dimitrije/datacoll-api/internal/store"
	"github.com/dimitrije/datacoll-api/pkg/dto"
	"github.com/dimitrije/datacoll-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollection_Integration_CRUD(t *testing.T) {
	env := setupTest(t)

	rec := env.Client.POST("/collections", map[string]any{
		"name":       "Waveforms",
		"properties": map[string]any{"ownership": "dave@example.org"},
	})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var created dto.CollectionResponse
	testutil.ParseJSON(t, rec, &created)
	require.NotNil(t, created.PID)
	assert.Equal(t, "Waveforms", *created.Name)
	assert.Equal(t, "dave@example.org", created.Properties.Ownership)

	rec = env.Client.GET("/collections/" + created.ID)
	testutil.AssertStatus(t, rec, http.StatusOK)

	rec = env.Client.PUT("/collections/"+created.ID, map[string]any{"name": "Waveforms 2024"})
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated dto.CollectionResponse
	testutil.ParseJSON(t, rec, &updated)
	assert.Equal(t, "Waveforms 2024", *updated.Name)

	rec = env.Client.DELETE("/collections/" + created.ID)
	testutil.AssertStatus(t, rec, http.StatusNoContent)

	rec = env.Client.GET("/collections/" + created.ID)
	testutil.AssertStatus(t, rec, http.StatusNotFound)
}

func TestCollection_Integration_PIDUniqueness(t *testing.T) {
	env := setupTest(t)

	body := map[string]any{
		"pid":        "11708/coll-1",
		"properties": map[string]any{"ownership": "dave@example.org"},
	}
	rec := env.Client.POST("/collections", body)
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = env.Client.POST("/collections", body)
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestCollection_Integration_OwnerFilter(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	svc := services.NewCollectionService(env.Store, 100)

	for _, owner := range []string{"a@example.org", "b@example.org", "a@example.org"} {
		_, err := svc.Create(ctx, services.CollectionInput{Owner: strptr(owner)})
		require.NoError(t, err)
	}

	rec := env.Client.GET("/collections?filter_by_owner=a@example.org")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var listing struct {
		Contents []dto.CollectionResponse `json:"contents"`
	}
	testutil.ParseJSON(t, rec, &listing)
	assert.Len(t, listing.Contents, 2)
}

// Deleting a collection leaves its members behind: they stay queryable
// through the store even though the collection itself is gone.
func TestCollection_Integration_DeleteDoesNotCascade(t *testing.T) {
	env := setupTest(t)
	ctx := context.Background()
	colls := services.NewCollectionService(env.Store, 100)
	members := services.NewMemberService(env.Store, "http://hdl.handle.net", 100)

	coll, err := colls.Create(ctx, services.CollectionInput{Owner: strptr("dave@example.org")})
	require.NoError(t, err)
	m, err := members.Create(ctx, coll.ID, services.MemberInput{Location: strptr("http://data/obj")})
	require.NoError(t, err)

	require.NoError(t, colls.Delete(ctx, coll.ID))

	orphan, err := env.Store.GetMember(ctx, coll.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, coll.ID, orphan.CollectionID)

	_, err = env.Store.GetCollection(ctx, coll.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
