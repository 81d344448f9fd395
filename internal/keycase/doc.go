// Package keycase rewrites the object keys of a generic tree into a naming
// convention.
//
// Trees use the representation produced by the format handlers: objects are
// *orderedmap.OrderedMap (map[string]any is also accepted), arrays are []any
// and anything else is a leaf. A Converter rebuilds the tree with the same
// shape and only the keys changed:
//
//	c := keycase.New(tree, casing.Snake).
//		WithManualRenames(keycase.NewRenameTable().Set("id", "userId")).
//		WithRenameMode(keycase.ByValue)
//	out := c.Convert()
//
// For each key, a manual override from the RenameTable wins; otherwise the
// convention is applied. When sibling keys end up with the same name the
// later one's value is kept.
package keycase
