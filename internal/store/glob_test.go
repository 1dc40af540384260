package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobToLike(t *testing.T) {
	assert.Equal(t, "A%", GlobToLike("A*"))
	assert.Equal(t, "wave_orm", GlobToLike("wave?orm"))
	assert.Equal(t, `100\%`, GlobToLike("100%"))
	assert.Equal(t, `a\_b%`, GlobToLike("a_b*"))
}

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern, name string
		want          bool
	}{
		{"wave-*", "wave-2024", true},
		{"wave-*", "logs", false},
		{"wave-?", "wave-1", true},
		{"wave-?", "wave-10", false},
		{"Wave-*", "wave-2024", false}, // case-sensitive
		{"*", "anything", true},
		{"wave[forms", "wave-2024", false}, // malformed pattern matches nothing
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GlobMatch(tt.pattern, tt.name), "%s vs %s", tt.pattern, tt.name)
	}
}

func TestGlobToRegexp(t *testing.T) {
	re, err := regexp.Compile(GlobToRegexp("A*"))
	require.NoError(t, err)
	assert.True(t, re.MatchString("Archive-2016"))
	assert.False(t, re.MatchString("archive"))
	assert.False(t, re.MatchString("xA"))

	re, err = regexp.Compile(GlobToRegexp("set-?"))
	require.NoError(t, err)
	assert.True(t, re.MatchString("set-1"))
	assert.False(t, re.MatchString("set-10"))

	// Regexp metacharacters in the pattern are literal.
	re, err = regexp.Compile(GlobToRegexp("a.b"))
	require.NoError(t, err)
	assert.True(t, re.MatchString("a.b"))
	assert.False(t, re.MatchString("axb"))
}
