// Package json provides a JSON format handler for keycase.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keycase/internal/format"
)

// Handler implements format.Handler for JSON/JSONC files.
type Handler struct{}

// New creates a new JSON handler.
func New() *Handler {
	return &Handler{}
}

// commentRegex matches single-line // comments.
var commentRegex = regexp.MustCompile(`(?m)^\s*//.*$|//[^"]*$`)

// StripComments removes single-line // comments from JSON.
// This allows parsing JSONC (JSON with comments) files. Newlines inside a
// removed comment are kept so line numbers stay valid.
func StripComments(data []byte) []byte {
	return commentRegex.ReplaceAllFunc(data, func(m []byte) []byte {
		return bytes.Repeat([]byte{'\n'}, bytes.Count(m, []byte{'\n'}))
	})
}

// SyntaxError is a JSON syntax error located in the parsed input.
type SyntaxError struct {
	// Line and Column are 1-based.
	Line   int
	Column int
	// Text is the offending line.
	Text string
	Err  *json.SyntaxError
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v (line %d, column %d: %s)", e.Err, e.Line, e.Column, strings.TrimSpace(e.Text))
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// locate turns a syntax error from decode into a SyntaxError. decode trims
// leading whitespace, so the offset is shifted back onto data.
func locate(data []byte, err *json.SyntaxError) *SyntaxError {
	lead := len(data) - len(bytes.TrimLeftFunc(data, unicode.IsSpace))
	// Offset counts the offending byte.
	offset := lead + int(err.Offset) - 1
	if offset < lead {
		offset = lead
	}
	line, col, text := getErrorContext(string(data), offset)
	return &SyntaxError{Line: line, Column: col, Text: text, Err: err}
}

// getErrorContext returns the 1-based line and column of offset in content
// and the text of that line. Offsets outside content report line 1, column 1.
func getErrorContext(content string, offset int) (line, col int, snippet string) {
	if offset < 0 || offset > len(content) {
		return 1, 1, ""
	}

	before := content[:offset]
	line = strings.Count(before, "\n") + 1
	start := strings.LastIndexByte(before, '\n') + 1
	col = offset - start + 1

	end := strings.IndexByte(content[start:], '\n')
	if end < 0 {
		snippet = content[start:]
	} else {
		snippet = content[start : start+end]
	}
	return line, col, snippet
}

// Parse reads JSON bytes and returns the tree.
// Objects become *orderedmap.OrderedMap so key order is preserved; the root
// may be any JSON value.
func (h *Handler) Parse(data []byte, opts format.ParseOptions) (any, error) {
	if opts.StripComments {
		data = StripComments(data)
	}

	result, err := decode(data)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			err = locate(data, syntaxErr)
		}
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// decode unmarshals data, keeping object key order at every level.
// orderedmap only handles objects, so arrays are split and decoded per element.
func decode(data []byte) (any, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	switch trimmed[0] {
	case '{':
		om := orderedmap.New()
		if err := json.Unmarshal(trimmed, om); err != nil {
			return nil, err
		}
		return normalize(om), nil
	case '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, err
		}
		result := make([]any, len(raws))
		for i, raw := range raws {
			v, err := decode(raw)
			if err != nil {
				return nil, err
			}
			result[i] = v
		}
		return result, nil
	default:
		var v any
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// normalize replaces the orderedmap.OrderedMap values produced by
// UnmarshalJSON for nested objects with pointers.
func normalize(v any) any {
	if om := format.ToOrderedMapPtr(v); om != nil {
		result := orderedmap.New()
		for _, k := range om.Keys() {
			child, _ := om.Get(k)
			result.Set(k, normalize(child))
		}
		return result
	}
	if arr, ok := v.([]any); ok {
		result := make([]any, len(arr))
		for i, child := range arr {
			result[i] = normalize(child)
		}
		return result
	}
	return v
}

// Serialize writes the tree to formatted JSON bytes.
func (h *Handler) Serialize(tree any, opts format.SerializeOptions) ([]byte, error) {
	indent := opts.Indent
	if indent == "" {
		indent = "  "
	}

	data, err := json.MarshalIndent(tree, "", indent)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JSON: %w", err)
	}
	// Add trailing newline
	return append(data, '\n'), nil
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
