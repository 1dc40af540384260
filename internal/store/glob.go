package store

import (
	"path"
	"regexp"
	"strings"
)

// Rule patterns use shell-glob semantics: '*' matches any run of
// characters, '?' exactly one, both case-sensitive. The helpers below
// translate a pattern into the predicate language of each driver.

// GlobToLike rewrites a glob pattern as a SQL LIKE pattern using '\' as
// the escape character.
func GlobToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// GlobMatch reports whether name satisfies the glob pattern. Drivers that
// evaluate rules in-process use this instead of translating the pattern.
func GlobMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}

// GlobToRegexp rewrites a glob pattern as an anchored regular expression.
func GlobToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return b.String()
}
