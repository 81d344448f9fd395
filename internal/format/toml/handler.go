// Package toml provides a TOML format handler for keycase.
package toml

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keycase/internal/format"
)

// Handler implements format.Handler for TOML files.
type Handler struct{}

// New creates a new TOML handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads TOML bytes and returns an *orderedmap.OrderedMap.
// Key order from the original TOML document is preserved.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for TOML format")
	}

	// Decode into a generic map to get values
	var raw map[string]any
	meta, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	// Convert to ordered map using metadata for key order
	return toOrdered(raw, meta.Keys(), nil), nil
}

// toOrdered recursively converts map[string]any to *orderedmap.OrderedMap,
// ordering keys by their first appearance in the document.
func toOrdered(v any, docKeys []toml.Key, prefix []string) any {
	switch val := v.(type) {
	case map[string]any:
		result := orderedmap.New()
		for _, k := range keysInOrder(docKeys, prefix, val) {
			childPrefix := append(prefix[:len(prefix):len(prefix)], k)
			result.Set(k, toOrdered(val[k], docKeys, childPrefix))
		}
		return result
	case []map[string]any:
		// Array of tables; items share the table's prefix
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = toOrdered(item, docKeys, prefix)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = toOrdered(item, docKeys, prefix)
		}
		return result
	default:
		return val
	}
}

// keysInOrder returns the keys of m in document order.
// Keys the metadata does not mention (inline tables inside arrays) follow in
// sorted order.
func keysInOrder(docKeys []toml.Key, prefix []string, m map[string]any) []string {
	ordered := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))

	for _, key := range docKeys {
		if len(key) != len(prefix)+1 || !hasPrefix(key, prefix) {
			continue
		}
		k := key[len(prefix)]
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}

	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

// hasPrefix checks if key starts with prefix.
func hasPrefix(key toml.Key, prefix []string) bool {
	if len(key) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if key[i] != p {
			return false
		}
	}
	return true
}

// Serialize writes the tree to TOML bytes. The root must be a table.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	// The encoder orders keys itself, so ordered maps are flattened first
	regular, ok := format.ToPlain(tree).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("failed to serialize TOML: root must be a table, got %T", tree)
	}

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if opts.Indent != "" {
		encoder.Indent = opts.Indent
	}
	if err := encoder.Encode(regular); err != nil {
		return nil, fmt.Errorf("failed to serialize TOML: %w", err)
	}

	return buf.Bytes(), nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
