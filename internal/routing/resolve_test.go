package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Collections(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		segments []string
		want     RouteMatch
	}{
		{
			name:     "list collections",
			method:   "GET",
			segments: []string{"collections"},
			want:     RouteMatch{Kind: KindCollection},
		},
		{
			name:     "single collection",
			method:   "GET",
			segments: []string{"collections", "42"},
			want:     RouteMatch{Kind: KindCollection, CollectionID: "42"},
		},
		{
			name:     "capabilities",
			method:   "GET",
			segments: []string{"collections", "42", "capabilities"},
			want:     RouteMatch{Kind: KindCollection, CollectionID: "42", Action: ActionCapabilities},
		},
		{
			name:     "collection download",
			method:   "GET",
			segments: []string{"collections", "42", "download"},
			want:     RouteMatch{Kind: KindCollection, CollectionID: "42", Action: ActionDownload},
		},
		{
			name:     "member list",
			method:   "GET",
			segments: []string{"collections", "42", "members"},
			want:     RouteMatch{Kind: KindMember, CollectionID: "42"},
		},
		{
			name:     "single member",
			method:   "PUT",
			segments: []string{"collections", "42", "members", "7"},
			want:     RouteMatch{Kind: KindMember, CollectionID: "42", MemberID: "7"},
		},
		{
			name:     "member download",
			method:   "GET",
			segments: []string{"collections", "42", "members", "7", "download"},
			want:     RouteMatch{Kind: KindMember, CollectionID: "42", MemberID: "7", Action: ActionDownload},
		},
		{
			name:     "member properties",
			method:   "GET",
			segments: []string{"collections", "42", "members", "7", "properties"},
			want:     RouteMatch{Kind: KindMember, CollectionID: "42", MemberID: "7", Action: ActionProperties},
		},
		{
			name:     "features",
			method:   "GET",
			segments: []string{"features"},
			want:     RouteMatch{Kind: KindFeature},
		},
		{
			name:     "version",
			method:   "GET",
			segments: []string{"version"},
			want:     RouteMatch{Kind: KindVersion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.method, tt.segments)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_UnknownTopLevel(t *testing.T) {
	_, err := Resolve("GET", []string{"gadgets"})
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = Resolve("GET", nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestResolve_MalformedPaths(t *testing.T) {
	bad := [][]string{
		{"collections", "42", "unknown"},
		{"collections", "members"},
		{"collections", "42", "members", "7", "capabilities"},
		{"collections", "42", "members", "7", "download", "extra"},
		{"collections", "42", "capabilities", "extra"},
		{"collections", "42", "members", "capabilities"},
		{"features", "extra"},
		{"version", "extra"},
	}
	for _, segments := range bad {
		_, err := Resolve("GET", segments)
		assert.ErrorIs(t, err, ErrBadRequest, "segments %v", segments)
	}
}

func TestResolve_UnknownMethod(t *testing.T) {
	_, err := Resolve("PATCH", []string{"collections"})
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	segments := []string{"collections", "42", "members", "7"}
	_, err := Resolve("GET", segments)
	require.NoError(t, err)
	assert.Equal(t, []string{"collections", "42", "members", "7"}, segments)
}
