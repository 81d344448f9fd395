// Package format provides interfaces and implementations for reading and
// writing key trees in different file formats.
package format

// ParseOptions configures parsing behavior.
type ParseOptions struct {
	StripComments bool // Strip comments (for JSON/JSONC)
}

// SerializeOptions configures serialization behavior.
type SerializeOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// Handler defines the interface for file format handlers.
type Handler interface {
	// Parse reads raw bytes and returns a generic tree structure.
	Parse(data []byte, opts ParseOptions) (any, error)

	// Serialize writes the tree back to bytes.
	Serialize(tree any, opts SerializeOptions) ([]byte, error)
}
