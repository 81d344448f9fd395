package keycase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/orderedmap"
)

// RenameMode selects which side of a RenameTable entry is matched against a
// key and which side replaces it.
type RenameMode int

const (
	// ByKey matches the entry key and renames to the entry value.
	ByKey RenameMode = iota
	// ByValue matches the entry value and renames to the entry key.
	ByValue
)

// String returns the name of m.
func (m RenameMode) String() string {
	switch m {
	case ByKey:
		return "key"
	case ByValue:
		return "value"
	}
	return "unknown"
}

// ParseRenameMode parses "key" or "value" (also "by-key", "by_value", ...).
func ParseRenameMode(s string) (RenameMode, error) {
	n := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch n {
	case "key", "bykey":
		return ByKey, nil
	case "value", "byvalue":
		return ByValue, nil
	}
	return ByKey, fmt.Errorf("unknown rename mode %q (want key or value)", s)
}

// RenameTable holds manual key overrides in insertion order.
// The zero value is not usable; a nil *RenameTable behaves as empty.
type RenameTable struct {
	entries *orderedmap.OrderedMap
}

// NewRenameTable creates an empty table.
func NewRenameTable() *RenameTable {
	return &RenameTable{entries: orderedmap.New()}
}

// RenameTableFromMap builds a table from m, inserting keys in sorted order.
func RenameTableFromMap(m map[string]string) *RenameTable {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := NewRenameTable()
	for _, k := range keys {
		t.Set(k, m[k])
	}
	return t
}

// Set adds or replaces an entry. Replacing keeps the entry's position.
func (t *RenameTable) Set(key, value string) *RenameTable {
	t.entries.Set(key, value)
	return t
}

// Get returns the value stored for key.
func (t *RenameTable) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.entries.Get(key)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Delete removes key, reporting whether it was present.
func (t *RenameTable) Delete(key string) bool {
	if _, ok := t.Get(key); !ok {
		return false
	}
	t.entries.Delete(key)
	return true
}

// Len returns the number of entries.
func (t *RenameTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries.Keys())
}

// Keys returns the entry keys in insertion order.
func (t *RenameTable) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.entries.Keys()...)
}

// Each calls fn for every entry in insertion order until fn returns false.
func (t *RenameTable) Each(fn func(key, value string) bool) {
	for _, k := range t.Keys() {
		v, _ := t.Get(k)
		if !fn(k, v) {
			return
		}
	}
}

// ManualCase returns the override for key under mode, if the table has one.
//
// ByKey looks key up directly. ByValue scans the entries in insertion order
// and returns the key of the first entry whose value equals key.
func ManualCase(key string, table *RenameTable, mode RenameMode) (string, bool) {
	switch mode {
	case ByKey:
		return table.Get(key)
	case ByValue:
		var (
			found string
			ok    bool
		)
		table.Each(func(k, v string) bool {
			if v == key {
				found, ok = k, true
				return false
			}
			return true
		})
		return found, ok
	}
	return "", false
}
