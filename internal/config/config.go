// Package config provides configuration file handling for keycase.
package config

import (
	"fmt"
	"os"

	"github.com/iancoleman/orderedmap"
	"github.com/mitchellh/mapstructure"
	"github.com/thirteen37/keycase/internal/casing"
	"github.com/thirteen37/keycase/internal/format"
	"github.com/thirteen37/keycase/internal/format/registry"
	"github.com/thirteen37/keycase/internal/keycase"
	"github.com/thirteen37/keycase/internal/path"
)

// DefaultFile is the config file used when none is given.
const DefaultFile = ".keycase.json"

// Config represents a keycase configuration file.
type Config struct {
	// Case is the target convention name, e.g. "snake".
	Case string `keycase:"case"`

	// RenameMode is "key" or "value".
	RenameMode string `keycase:"rename_mode"`

	// Format forces the input/output format; empty means detect.
	Format string `keycase:"format"`

	// RequireObjectRoot rejects inputs whose root is not an object.
	RequireObjectRoot bool `keycase:"require_object_root"`

	// Indent is passed to serializers that support it.
	Indent string `keycase:"indent"`

	// Skip lists subtrees whose keys are left alone.
	// Each path is an array of original keys.
	Skip [][]string `keycase:"skip"`

	// Renames are manual overrides, applied in order.
	Renames []Rename `keycase:"renames"`
}

// Rename is one manual override entry.
type Rename struct {
	Key   string `keycase:"key"`
	Value string `keycase:"value"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Case:       casing.Snake.String(),
		RenameMode: keycase.ByKey.String(),
	}
}

// Load reads a Config from a file. The format follows the file extension and
// defaults to JSON. Missing fields keep their Default values.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	handler, err := handlerFor(filename)
	if err != nil {
		return nil, err
	}

	tree, err := handler.Parse(data, format.ParseOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "keycase",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := decoder.Decode(format.ToPlain(tree)); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Save writes the Config to a file in the format implied by its extension.
func (c *Config) Save(filename string) error {
	handler, err := handlerFor(filename)
	if err != nil {
		return err
	}

	data, err := handler.Serialize(c.tree(), format.SerializeOptions{})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// tree lays the config out in a fixed field order for serialization.
func (c *Config) tree() *orderedmap.OrderedMap {
	out := orderedmap.New()
	out.Set("case", c.Case)
	out.Set("rename_mode", c.RenameMode)
	if c.Format != "" {
		out.Set("format", c.Format)
	}
	if c.RequireObjectRoot {
		out.Set("require_object_root", true)
	}
	if c.Indent != "" {
		out.Set("indent", c.Indent)
	}
	if len(c.Skip) > 0 {
		skip := make([]any, len(c.Skip))
		for i, p := range c.Skip {
			segments := make([]any, len(p))
			for j, s := range p {
				segments[j] = s
			}
			skip[i] = segments
		}
		out.Set("skip", skip)
	}
	if len(c.Renames) > 0 {
		renames := make([]any, len(c.Renames))
		for i, r := range c.Renames {
			entry := orderedmap.New()
			entry.Set("key", r.Key)
			entry.Set("value", r.Value)
			renames[i] = entry
		}
		out.Set("renames", renames)
	}
	return out
}

func handlerFor(filename string) (format.Handler, error) {
	name := registry.Detect(filename)
	if name == "" {
		name = registry.Default
	}
	return registry.Lookup(name)
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := c.Convention(); err != nil {
		return err
	}
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.Format != "" {
		if _, err := registry.Lookup(c.Format); err != nil {
			return err
		}
	}
	for i, r := range c.Renames {
		if r.Key == "" {
			return fmt.Errorf("rename %d: empty key", i)
		}
	}
	return nil
}

// Convention returns the parsed Case.
func (c *Config) Convention() (casing.Convention, error) {
	return casing.Parse(c.Case)
}

// Mode returns the parsed RenameMode.
func (c *Config) Mode() (keycase.RenameMode, error) {
	return keycase.ParseRenameMode(c.RenameMode)
}

// RenameTable returns the renames as a table, in file order.
// A later entry with the same key replaces the earlier value.
func (c *Config) RenameTable() *keycase.RenameTable {
	table := keycase.NewRenameTable()
	for _, r := range c.Renames {
		table.Set(r.Key, r.Value)
	}
	return table
}

// SkipPaths returns the skip entries as path.Path values.
func (c *Config) SkipPaths() []path.Path {
	result := make([]path.Path, len(c.Skip))
	for i, p := range c.Skip {
		result[i] = path.NewArrayPath(p)
	}
	return result
}

// AddRename adds or updates a manual rename.
// Returns false if an identical entry already exists.
func (c *Config) AddRename(key, value string) bool {
	for i, existing := range c.Renames {
		if existing.Key != key {
			continue
		}
		if existing.Value == value {
			return false
		}
		c.Renames[i].Value = value
		return true
	}
	c.Renames = append(c.Renames, Rename{Key: key, Value: value})
	return true
}

// RemoveRename removes the rename for key.
// Returns true if the rename was removed, false if it wasn't found.
func (c *Config) RemoveRename(key string) bool {
	for i, existing := range c.Renames {
		if existing.Key == key {
			c.Renames = append(c.Renames[:i], c.Renames[i+1:]...)
			return true
		}
	}
	return false
}
