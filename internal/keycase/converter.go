package keycase

import (
	"errors"
	"fmt"

	"github.com/thirteen37/keycase/internal/casing"
	"github.com/thirteen37/keycase/internal/path"
)

// ErrInvalidRoot is returned by NewObjectRoot when the root is not an object
// or an array of objects.
var ErrInvalidRoot = errors.New("invalid root")

// Converter rewrites the keys of a tree.
//
// Configure it with the With methods before calling Convert. Convert does not
// modify the converter, so a configured converter may be shared between
// goroutines.
type Converter struct {
	root       any
	convention casing.Convention
	renames    *RenameTable
	mode       RenameMode
	skip       []path.Path
}

// New creates a converter for any root value, including arrays and scalars.
func New(root any, convention casing.Convention) *Converter {
	return &Converter{
		root:       root,
		convention: convention,
		renames:    NewRenameTable(),
		mode:       ByKey,
	}
}

// NewObjectRoot creates a converter whose root must be an object or an array
// of objects.
func NewObjectRoot(root any, convention casing.Convention) (*Converter, error) {
	switch v := root.(type) {
	case []any:
		for i, elem := range v {
			if !isObject(elem) {
				return nil, fmt.Errorf("%w: element %d is %s, want object", ErrInvalidRoot, i, kindOf(elem))
			}
		}
	default:
		if !isObject(v) {
			return nil, fmt.Errorf("%w: root is %s, want object or array of objects", ErrInvalidRoot, kindOf(v))
		}
	}
	return New(root, convention), nil
}

// WithManualRenames replaces the override table.
func (c *Converter) WithManualRenames(table *RenameTable) *Converter {
	c.renames = table
	return c
}

// WithRenameMode replaces the override matching mode.
func (c *Converter) WithRenameMode(mode RenameMode) *Converter {
	c.mode = mode
	return c
}

// WithSkipPaths sets subtrees whose keys are copied without conversion.
// Paths are made of original keys; the key naming a skipped subtree is
// still converted.
func (c *Converter) WithSkipPaths(paths ...path.Path) *Converter {
	c.skip = paths
	return c
}

// Convert returns a new tree with every object key rewritten.
func (c *Converter) Convert() any {
	return c.run(nil)
}

// Rename records a key that changed during conversion.
type Rename struct {
	// Path holds the original keys of the enclosing object.
	Path []string
	From string
	To   string
	// Manual is set when To came from the rename table.
	Manual bool
}

// Collision records a sibling key whose value replaced an earlier one.
type Collision struct {
	Path []string
	// Key is the shared output key.
	Key string
	// From is the original key of the entry that won.
	From string
}

// Plan describes what a conversion changed.
type Plan struct {
	Renames    []Rename
	Collisions []Collision
}

// Explain converts the tree and reports the renames and collisions.
func (c *Converter) Explain() (any, Plan) {
	var plan Plan
	out := c.run(&plan)
	return out, plan
}

// resolver applies the override policy for one conversion.
type resolver struct {
	convention casing.Convention
	table      *RenameTable
	mode       RenameMode
	inverted   map[string]string
}

func (c *Converter) resolver() *resolver {
	r := &resolver{convention: c.convention, table: c.renames, mode: c.mode}
	if c.mode == ByValue {
		// First key per value, matching the scan order of ManualCase.
		r.inverted = make(map[string]string, c.renames.Len())
		c.renames.Each(func(k, v string) bool {
			if _, ok := r.inverted[v]; !ok {
				r.inverted[v] = k
			}
			return true
		})
	}
	return r
}

func (r *resolver) resolve(key string) (string, bool) {
	if r.inverted != nil {
		if k, ok := r.inverted[key]; ok {
			return k, true
		}
	} else if v, ok := ManualCase(key, r.table, r.mode); ok {
		return v, true
	}
	return r.convention.Apply(key), false
}

// maxSkipDepth is the longest skip path. Paths match keys of equal length
// only, so deeper keys never need their path built.
func (c *Converter) maxSkipDepth() int {
	n := 0
	for _, p := range c.skip {
		n = max(n, len(p.Segments()))
	}
	return n
}

func (c *Converter) skipped(keys []string) bool {
	for _, p := range c.skip {
		if path.Match(p, keys) {
			return true
		}
	}
	return false
}
