package integration

import (
	"net/http"
	"testing"

	"github.com/dimitrije/datacoll-api/pkg/dto"
	"github.com/dimitrije/datacoll-api/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestCollection(t *testing.T, env *testEnv, body map[string]any) dto.CollectionResponse {
	t.Helper()
	if body == nil {
		body = map[string]any{}
	}
	if _, ok := body["properties"]; !ok {
		body["properties"] = map[string]any{"ownership": "dave@example.org"}
	}
	rec := env.Client.POST("/collections", body)
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var coll dto.CollectionResponse
	testutil.ParseJSON(t, rec, &coll)
	return coll
}

func TestMember_Integration_IDSequence(t *testing.T) {
	env := setupTest(t)
	coll := createTestCollection(t, env, nil)
	base := "/collections/" + coll.ID + "/members"

	for want := 1; want <= 3; want++ {
		rec := env.Client.POST(base, map[string]any{"location": "http://data/obj"})
		testutil.AssertStatus(t, rec, http.StatusCreated)
		var m dto.MemberResponse
		testutil.ParseJSON(t, rec, &m)
		assert.Equal(t, want, m.ID)
	}

	// The next id is always max+1, so deleting the tail member frees its id.
	rec := env.Client.DELETE(base + "/3")
	testutil.AssertStatus(t, rec, http.StatusNoContent)
	rec = env.Client.POST(base, map[string]any{"location": "http://data/obj"})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	var m dto.MemberResponse
	testutil.ParseJSON(t, rec, &m)
	assert.Equal(t, 3, m.ID)

	// A hole in the middle stays a hole: the sequence continues past the max.
	rec = env.Client.DELETE(base + "/2")
	testutil.AssertStatus(t, rec, http.StatusNoContent)
	rec = env.Client.POST(base, map[string]any{"location": "http://data/obj"})
	testutil.AssertStatus(t, rec, http.StatusCreated)
	testutil.ParseJSON(t, rec, &m)
	assert.Equal(t, 4, m.ID)
}

func TestMember_Integration_DatatypeRestriction(t *testing.T) {
	env := setupTest(t)
	coll := createTestCollection(t, env, map[string]any{
		"capabilities": map[string]any{"restrictedToType": "miniseed"},
	})
	base := "/collections/" + coll.ID + "/members"

	rec := env.Client.POST(base, map[string]any{"location": "http://data/obj", "datatype": "sac"})
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = env.Client.POST(base, map[string]any{"location": "http://data/obj"})
	testutil.AssertStatus(t, rec, http.StatusBadRequest)

	rec = env.Client.POST(base, map[string]any{"location": "http://data/obj", "datatype": "miniseed"})
	testutil.AssertStatus(t, rec, http.StatusCreated)
}

func TestMember_Integration_RuleExpansion(t *testing.T) {
	env := setupTest(t)

	a := createTestCollection(t, env, map[string]any{"name": "wave-2024"})
	b := createTestCollection(t, env, map[string]any{"name": "wave-2025"})
	other := createTestCollection(t, env, map[string]any{"name": "logs"})
	virtual := createTestCollection(t, env, map[string]any{"rule": "wave-*"})

	for _, coll := range []dto.CollectionResponse{a, a, b, other} {
		rec := env.Client.POST("/collections/"+coll.ID+"/members", map[string]any{"location": "http://data/obj"})
		testutil.AssertStatus(t, rec, http.StatusCreated)
	}

	rec := env.Client.GET("/collections/" + virtual.ID + "/members")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var listing struct {
		Contents []dto.MemberResponse `json:"contents"`
	}
	testutil.ParseJSON(t, rec, &listing)
	assert.Len(t, listing.Contents, 3)

	// The virtual collection rejects direct member insertion.
	rec = env.Client.POST("/collections/"+virtual.ID+"/members", map[string]any{"location": "http://data/obj"})
	testutil.AssertStatus(t, rec, http.StatusBadRequest)
}

func TestMember_Integration_UpdateAndDownload(t *testing.T) {
	env := setupTest(t)
	coll := createTestCollection(t, env, nil)
	base := "/collections/" + coll.ID + "/members"

	rec := env.Client.POST(base, map[string]any{"pid": "11708/obj-1", "location": "http://data/obj-1"})
	testutil.AssertStatus(t, rec, http.StatusCreated)

	rec = env.Client.PUT(base+"/1", map[string]any{"checksum": "abc123"})
	testutil.AssertStatus(t, rec, http.StatusOK)
	var updated dto.MemberResponse
	testutil.ParseJSON(t, rec, &updated)
	require.NotNil(t, updated.Checksum)
	assert.Equal(t, "abc123", *updated.Checksum)
	require.NotNil(t, updated.PID, "update leaves untouched fields alone")

	rec = env.Client.GET(base + "/1/download")
	testutil.AssertStatus(t, rec, http.StatusMovedPermanently)
	assert.Equal(t, "http://hdl.handle.net/11708/obj-1", rec.Header().Get("Location"))

	rec = env.Client.GET(base + "/1/properties")
	testutil.AssertStatus(t, rec, http.StatusOK)
	var props dto.MappingsDoc
	testutil.ParseJSON(t, rec, &props)
	assert.Equal(t, 1, props.Index)
}
