// Package registry maps format names and file extensions to handlers.
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/thirteen37/keycase/internal/format"
	"github.com/thirteen37/keycase/internal/format/ini"
	"github.com/thirteen37/keycase/internal/format/json"
	"github.com/thirteen37/keycase/internal/format/toml"
	"github.com/thirteen37/keycase/internal/format/yaml"
)

// ErrUnknownFormat is returned by Lookup for unsupported format names.
var ErrUnknownFormat = errors.New("unknown format")

// Default is the format used when nothing else decides.
const Default = "json"

var handlers = map[string]func() format.Handler{
	"json":  func() format.Handler { return json.New() },
	"jsonc": func() format.Handler { return json.New() },
	"yaml":  func() format.Handler { return yaml.New() },
	"yml":   func() format.Handler { return yaml.New() },
	"toml":  func() format.Handler { return toml.New() },
	"ini":   func() format.Handler { return ini.New() },
}

// Lookup returns the handler for a format name such as "json" or "yaml".
func Lookup(name string) (format.Handler, error) {
	newHandler, ok := handlers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnknownFormat, name, strings.Join(Names(), ", "))
	}
	return newHandler(), nil
}

// Detect returns the format name implied by filename's extension, or "" if
// the extension is not recognised.
func Detect(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := handlers[ext]; ok {
		return ext
	}
	return ""
}

// Names returns the supported format names.
func Names() []string {
	return []string{"ini", "json", "jsonc", "toml", "yaml", "yml"}
}

// IsComments reports whether the format name implies JSON comment stripping.
func IsComments(name string) bool {
	return strings.EqualFold(strings.TrimSpace(name), "jsonc")
}
