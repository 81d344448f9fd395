// Package path provides path selectors for locating subtrees of a key tree.
package path

import (
	"encoding/json"
	"fmt"
)

// Wildcard matches any single key.
const Wildcard = "*"

// Path represents a selector for navigating a tree by object keys.
type Path interface {
	// Segments returns the path as a slice of string keys.
	Segments() []string

	// String returns a canonical string representation.
	String() string
}

// ArrayPath is a path specified as an array of string keys.
// Example: ["dependencies", "*"]
type ArrayPath struct {
	segments []string
}

// NewArrayPath creates a new ArrayPath from string segments.
func NewArrayPath(segments []string) *ArrayPath {
	return &ArrayPath{segments: segments}
}

// ParseArrayPath parses a JSON array string into an ArrayPath.
// Example input: `["scripts", "build"]`
func ParseArrayPath(s string) (*ArrayPath, error) {
	var segments []string
	if err := json.Unmarshal([]byte(s), &segments); err != nil {
		return nil, fmt.Errorf("invalid path array: %w", err)
	}
	return &ArrayPath{segments: segments}, nil
}

// Segments returns the path segments.
func (p *ArrayPath) Segments() []string {
	return p.segments
}

// String returns the path as a JSON array string.
func (p *ArrayPath) String() string {
	segments := p.segments
	if segments == nil {
		segments = []string{}
	}
	data, _ := json.Marshal(segments)
	return string(data)
}

// Match reports whether keys is selected by p.
// Segments compare exactly, except Wildcard which matches any key.
func Match(p Path, keys []string) bool {
	segments := p.Segments()
	if len(segments) != len(keys) {
		return false
	}
	for i, segment := range segments {
		if segment != Wildcard && segment != keys[i] {
			return false
		}
	}
	return true
}
