// Package yaml provides a YAML format handler for keycase.
package yaml

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keycase/internal/format"
	"go.yaml.in/yaml/v4"
)

// Handler implements format.Handler for YAML files.
type Handler struct{}

// New creates a new YAML handler.
func New() *Handler {
	return &Handler{}
}

// Parse reads YAML bytes and returns the tree.
// Mappings become *orderedmap.OrderedMap in document order and aliases are
// expanded. An empty document parses to nil.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		return nil, fmt.Errorf("strip-comments is not supported for YAML format")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	result, err := fromNode(&doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return result, nil
}

// fromNode walks a yaml.Node tree into the generic tree.
func fromNode(node *yaml.Node) (any, error) {
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromNode(node.Content[0])
	case yaml.MappingNode:
		result := orderedmap.New()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: unsupported non-scalar mapping key", keyNode.Line)
			}
			val, err := fromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			result.Set(keyNode.Value, val)
		}
		return result, nil
	case yaml.SequenceNode:
		result := make([]any, len(node.Content))
		for i, child := range node.Content {
			val, err := fromNode(child)
			if err != nil {
				return nil, err
			}
			result[i] = val
		}
		return result, nil
	case yaml.AliasNode:
		return fromNode(node.Alias)
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %v", node.Line, node.Kind)
}

// Serialize writes the tree to YAML bytes, keeping object key order.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	data, err := yaml.Marshal(toNode(tree))
	if err != nil {
		return nil, fmt.Errorf("failed to serialize YAML: %w", err)
	}
	return data, nil
}

// toNode builds a yaml.Node for a tree value.
func toNode(v any) *yaml.Node {
	if om := format.ToOrderedMapPtr(v); om != nil {
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range om.Keys() {
			child, _ := om.Get(k)
			node.Content = append(node.Content, scalarNode("!!str", k), toNode(child))
		}
		return node
	}

	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range keys {
			node.Content = append(node.Content, scalarNode("!!str", k), toNode(val[k]))
		}
		return node
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, child := range val {
			node.Content = append(node.Content, toNode(child))
		}
		return node
	case nil:
		return scalarNode("!!null", "null")
	case string:
		return scalarNode("!!str", val)
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return scalarNode("!!int", fmt.Sprint(val))
	case float32:
		return scalarNode("!!float", formatFloat(float64(val)))
	case float64:
		return scalarNode("!!float", formatFloat(val))
	case time.Time:
		return scalarNode("!!timestamp", val.Format(time.RFC3339Nano))
	default:
		return scalarNode("!!str", fmt.Sprint(val))
	}
}

// formatFloat renders f so that YAML resolves it back to a float.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// scalarNode creates a yaml.Node for a scalar value.
func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
