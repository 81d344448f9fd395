package format

import "github.com/iancoleman/orderedmap"

// ToOrderedMapPtr converts both value and pointer types of OrderedMap to a pointer.
// Returns nil if the value is not an OrderedMap.
func ToOrderedMapPtr(v any) *orderedmap.OrderedMap {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val
	case orderedmap.OrderedMap:
		return &val
	default:
		return nil
	}
}

// ToPlain recursively converts ordered maps to map[string]any.
// Key order is lost; use it only for consumers that don't care.
func ToPlain(v any) any {
	if om := ToOrderedMapPtr(v); om != nil {
		result := make(map[string]any, len(om.Keys()))
		for _, k := range om.Keys() {
			v, _ := om.Get(k)
			result[k] = ToPlain(v)
		}
		return result
	}
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = ToPlain(v)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = ToPlain(v)
		}
		return result
	default:
		return val
	}
}
