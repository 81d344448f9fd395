// Package ini provides an INI format handler for keycase.
package ini

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keycase/internal/format"
	"gopkg.in/ini.v1"
)

// Handler implements format.Handler for INI files.
type Handler struct{}

// New creates a new INI handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads INI bytes and returns an *orderedmap.OrderedMap.
//
// Keys before the first section become top-level values and each section an
// object. Dotted section names nest, so [server.http] is
// {"server": {"http": {...}}} and every segment is converted as its own key.
// All values are strings.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for INI format")
	}

	cfg, err := ini.Load(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse INI: %w", err)
	}

	result := orderedmap.New()
	for _, section := range cfg.Sections() {
		target := result
		if section.Name() != ini.DefaultSection {
			target = sectionObject(result, section.Name())
		}
		for _, key := range section.Keys() {
			target.Set(key.Name(), key.Value())
		}
	}
	return result, nil
}

// sectionObject returns the object for a dotted section name, creating
// parents as needed. A name with an empty segment, or one whose parent is
// already a plain value, is kept whole as a single top-level key.
func sectionObject(root *orderedmap.OrderedMap, name string) *orderedmap.OrderedMap {
	segments := strings.Split(name, ".")
	cur := root
	for _, segment := range segments {
		if segment == "" {
			return literalSection(root, name)
		}
		v, ok := cur.Get(segment)
		if !ok {
			next := orderedmap.New()
			cur.Set(segment, next)
			cur = next
			continue
		}
		next := format.ToOrderedMapPtr(v)
		if next == nil {
			return literalSection(root, name)
		}
		cur = next
	}
	return cur
}

func literalSection(root *orderedmap.OrderedMap, name string) *orderedmap.OrderedMap {
	if v, ok := root.Get(name); ok {
		if om := format.ToOrderedMapPtr(v); om != nil {
			return om
		}
	}
	om := orderedmap.New()
	root.Set(name, om)
	return om
}

// Serialize writes the tree to formatted INI bytes.
// Top-level values are written as global keys, top-level objects as sections
// and objects nested in a section as dotted child sections.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return nil, fmt.Errorf("failed to serialize INI: root must be an object")
	}

	cfg := ini.Empty()
	global := cfg.Section(ini.DefaultSection)

	for _, name := range om.Keys() {
		v, _ := om.Get(name)
		if obj := format.ToOrderedMapPtr(v); obj != nil {
			if err := writeSection(cfg, name, obj); err != nil {
				return nil, err
			}
			continue
		}
		if _, err := global.NewKey(name, toString(v)); err != nil {
			return nil, fmt.Errorf("failed to create key %q: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize INI: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSection writes the plain values of obj under [name], then its objects
// as [name.child]. A section holding only child sections gets no header.
func writeSection(cfg *ini.File, name string, obj *orderedmap.OrderedMap) error {
	var (
		section  *ini.Section
		children []string
	)
	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		if format.ToOrderedMapPtr(v) != nil {
			children = append(children, key)
			continue
		}
		if section == nil {
			var err error
			if section, err = cfg.NewSection(name); err != nil {
				return fmt.Errorf("failed to create section %q: %w", name, err)
			}
		}
		if _, err := section.NewKey(key, toString(v)); err != nil {
			return fmt.Errorf("failed to create key %q in section %q: %w", key, name, err)
		}
	}

	if section == nil && len(children) == 0 {
		if _, err := cfg.NewSection(name); err != nil {
			return fmt.Errorf("failed to create section %q: %w", name, err)
		}
	}

	for _, key := range children {
		v, _ := obj.Get(key)
		if err := writeSection(cfg, name+"."+key, format.ToOrderedMapPtr(v)); err != nil {
			return err
		}
	}
	return nil
}

// toString renders a value for INI, which only stores strings.
// Arrays are joined with commas, the form ini.v1's Key.Strings reads back.
func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = toString(item)
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
