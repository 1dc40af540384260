package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_PicksMostSpecificTemplate(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "GET", Pattern: []string{"collections", "*", "members"}, Kind: KindMember})
	r.Register(Template{Method: "GET", Pattern: []string{"collections", "*", "members", "*", "properties"}, Kind: KindMember, Action: ActionProperties})

	m, err := r.Resolve("GET", []string{"collections", "7", "members", "9", "properties"})
	require.NoError(t, err)
	assert.Equal(t, ActionProperties, m.Action)
	assert.Equal(t, "7", m.CollectionID)
	assert.Equal(t, "9", m.MemberID)
}

func TestRouter_TieBreaksByRegistrationOrder(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "*", Pattern: []string{"collections", "*"}, Kind: KindCollection, Action: ActionCapabilities})
	r.Register(Template{Method: "*", Pattern: []string{"collections", "*"}, Kind: KindCollection, Action: ActionDownload})

	m, err := r.Resolve("GET", []string{"collections", "1"})
	require.NoError(t, err)
	assert.Equal(t, ActionCapabilities, m.Action)
}

func TestRouter_PrefixMatchIgnoresTrailingSegments(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "GET", Pattern: []string{"collections", "*", "members"}, Kind: KindMember})

	m, err := r.Resolve("GET", []string{"collections", "3", "members", "extra", "junk"})
	require.NoError(t, err)
	assert.Equal(t, KindMember, m.Kind)
	assert.Equal(t, "3", m.CollectionID)
}

func TestRouter_MethodFilter(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "GET", Pattern: []string{"collections"}, Kind: KindCollection})

	_, err := r.Resolve("DELETE", []string{"collections"})
	assert.ErrorIs(t, err, ErrUnknownRoute)

	r.Register(Template{Method: "*", Pattern: []string{"collections"}, Kind: KindCollection})
	_, err = r.Resolve("DELETE", []string{"collections"})
	assert.NoError(t, err)
}

func TestRouter_NoMatch(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "*", Pattern: []string{"collections"}, Kind: KindCollection})

	_, err := r.Resolve("GET", []string{"features"})
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestRouter_BindsWildcardsInOrder(t *testing.T) {
	r := NewRouter()
	r.Register(Template{Method: "GET", Pattern: []string{"collections", "*", "members", "*", "download"}, Kind: KindMember, Action: ActionDownload})

	m, err := r.Resolve("GET", []string{"collections", "abc", "members", "12", "download"})
	require.NoError(t, err)
	assert.Equal(t, "abc", m.CollectionID)
	assert.Equal(t, "12", m.MemberID)
}

func TestRouter_RegisterCopiesPattern(t *testing.T) {
	pattern := []string{"collections", "*"}
	r := NewRouter()
	r.Register(Template{Method: "*", Pattern: pattern, Kind: KindCollection})
	pattern[1] = "mutated"

	m, err := r.Resolve("GET", []string{"collections", "5"})
	require.NoError(t, err)
	assert.Equal(t, "5", m.CollectionID)
}
