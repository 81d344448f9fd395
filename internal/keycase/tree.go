package keycase

import (
	"fmt"
	"sort"

	"github.com/iancoleman/orderedmap"
)

// frame is one container being rebuilt on the explicit traversal stack.
// Frames link to their parent instead of copying the key path, so a chain
// of nested objects costs O(depth).
type frame struct {
	parent *frame
	// key names this container in its parent object. Arrays and their
	// elements are unnamed and share the path of the enclosing object.
	key   string
	named bool
	// depth is the length of the key path.
	depth int
	// path caches keyPath.
	path []string

	// keys is nil for arrays.
	keys []string
	vals []any
	next int
	// pending is the resolved key for the child currently being built.
	pending string
	from    string

	obj   *orderedmap.OrderedMap
	plain map[string]any
	arr   []any
}

// newFrame starts rebuilding v, reporting false when v is a leaf.
func newFrame(v any) (*frame, bool) {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		if val == nil {
			return nil, false
		}
		return objectFrame(val), true
	case orderedmap.OrderedMap:
		return objectFrame(&val), true
	case map[string]any:
		if val == nil {
			return nil, false
		}
		names := make([]string, 0, len(val))
		for k := range val {
			names = append(names, k)
		}
		sort.Strings(names)
		f := &frame{keys: names, vals: make([]any, len(names)), plain: make(map[string]any, len(val))}
		for i, k := range names {
			f.vals[i] = val[k]
		}
		return f, true
	case []any:
		if val == nil {
			return nil, false
		}
		return &frame{vals: val, arr: make([]any, 0, len(val))}, true
	}
	return nil, false
}

func objectFrame(om *orderedmap.OrderedMap) *frame {
	names := om.Keys()
	f := &frame{keys: names, vals: make([]any, len(names)), obj: orderedmap.New()}
	for i, k := range names {
		f.vals[i], _ = om.Get(k)
	}
	return f
}

// keyPath returns the original keys leading to f, nil at the root.
func (f *frame) keyPath() []string {
	if f.path != nil || f.depth == 0 {
		return f.path
	}
	p := make([]string, f.depth)
	for g := f; g != nil; g = g.parent {
		if g.named {
			p[g.depth-1] = g.key
		}
	}
	f.path = p
	return p
}

// childPath returns the key path of f's child named key.
func (f *frame) childPath(key string) []string {
	parent := f.keyPath()
	p := make([]string, len(parent)+1)
	copy(p, parent)
	p[len(parent)] = key
	return p
}

// put stores a finished child value, reporting whether it replaced a sibling.
func (f *frame) put(v any) bool {
	switch {
	case f.obj != nil:
		_, exists := f.obj.Get(f.pending)
		f.obj.Set(f.pending, v)
		return exists
	case f.plain != nil:
		_, exists := f.plain[f.pending]
		f.plain[f.pending] = v
		return exists
	default:
		f.arr = append(f.arr, v)
		return false
	}
}

func (f *frame) result() any {
	switch {
	case f.obj != nil:
		return f.obj
	case f.plain != nil:
		return f.plain
	default:
		return f.arr
	}
}

// run rebuilds c.root depth first, recording into plan when it is non-nil.
// Key paths are only built for the plan and for depths a skip path can reach.
func (c *Converter) run(plan *Plan) any {
	top, ok := newFrame(c.root)
	if !ok {
		return c.root
	}
	r := c.resolver()
	maxSkip := c.maxSkipDepth()
	stack := []*frame{top}

	for {
		f := stack[len(stack)-1]
		if f.next == len(f.vals) {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return f.result()
			}
			stack[len(stack)-1].store(f.result(), plan)
			continue
		}

		i := f.next
		f.next++
		child := f.vals[i]

		var key string
		if f.keys != nil {
			key = f.keys[i]
			resolved, manual := r.resolve(key)
			f.pending, f.from = resolved, key
			if plan != nil && resolved != key {
				plan.Renames = append(plan.Renames, Rename{Path: f.keyPath(), From: key, To: resolved, Manual: manual})
			}

			if f.depth < maxSkip && c.skipped(f.childPath(key)) {
				f.store(deepCopy(child), plan)
				continue
			}
		}

		if cf, ok := newFrame(child); ok {
			cf.parent = f
			cf.depth = f.depth
			if f.keys != nil {
				cf.key, cf.named = key, true
				cf.depth++
			}
			stack = append(stack, cf)
			continue
		}
		f.store(child, plan)
	}
}

func (f *frame) store(v any, plan *Plan) {
	if f.put(v) && plan != nil {
		plan.Collisions = append(plan.Collisions, Collision{Path: f.keyPath(), Key: f.pending, From: f.from})
	}
}

// deepCopy copies containers so the output never shares them with the input.
func deepCopy(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		if val == nil {
			return val
		}
		return copyOrdered(val)
	case orderedmap.OrderedMap:
		return copyOrdered(&val)
	case map[string]any:
		if val == nil {
			return val
		}
		result := make(map[string]any, len(val))
		for k, v := range val {
			result[k] = deepCopy(v)
		}
		return result
	case []any:
		if val == nil {
			return val
		}
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = deepCopy(v)
		}
		return result
	default:
		// Primitives (string, float64, bool, nil) are immutable
		return val
	}
}

func copyOrdered(om *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	result := orderedmap.New()
	for _, k := range om.Keys() {
		v, _ := om.Get(k)
		result.Set(k, deepCopy(v))
	}
	return result
}

func isObject(v any) bool {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val != nil
	case orderedmap.OrderedMap:
		return true
	case map[string]any:
		return val != nil
	}
	return false
}

func kindOf(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case string:
		return "string"
	case []any:
		return "array"
	case *orderedmap.OrderedMap:
		if val == nil {
			return "null"
		}
		return "object"
	case map[string]any:
		if val == nil {
			return "null"
		}
		return "object"
	case orderedmap.OrderedMap:
		return "object"
	case float32, float64, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
