// Package match provides key-name filtering for sync, export, and import.
//
// The Matcher abstraction keeps those components decoupled from the specific
// matching syntax; the concrete implementation is glob-backed (* and ?).
package match

import (
	"path"

	"github.com/cockroachdb/errors"
)

// Matcher reports whether a variable key is of interest.
type Matcher interface {
	Matches(key string) bool
}

// allMatcher matches every key.
type allMatcher struct{}

func (allMatcher) Matches(string) bool { return true }

// All returns a Matcher that matches every key.
func All() Matcher {
	return allMatcher{}
}

// globMatcher matches keys against a list of glob patterns; a key matches
// when any pattern does.
type globMatcher struct {
	patterns []string
}

// NewGlob creates a glob-backed Matcher from patterns like "*_API_*".
// An empty pattern list matches everything. Malformed patterns are rejected
// up front so bad globs fail before any diffing or file access.
func NewGlob(patterns []string) (Matcher, error) {
	if len(patterns) == 0 {
		return All(), nil
	}
	for _, p := range patterns {
		if _, err := path.Match(p, ""); err != nil {
			return nil, errors.Wrapf(err, "invalid pattern %q", p)
		}
	}
	cp := make([]string, len(patterns))
	copy(cp, patterns)
	return globMatcher{patterns: cp}, nil
}

func (m globMatcher) Matches(key string) bool {
	for _, p := range m.patterns {
		if ok, _ := path.Match(p, key); ok {
			return true
		}
	}
	return false
}
