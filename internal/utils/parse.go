package utils

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Section is one table of a TOML document decoded without a schema.
type Section map[string]any

// DecodeTOMLFile decodes the file at path into v. Keys the file leaves out keep
// whatever v already holds, so callers pass a struct filled with defaults.
func DecodeTOMLFile(path string, v any) error {
	md, err := toml.DecodeFile(path, v)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		log.Warnf("Ignoring unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// DecodeTOMLSections decodes the top-level tables of the file at path without a
// schema. A value of the wrong type fails a typed decode of the whole file; read
// this way the well-typed keys around it can still be kept.
func DecodeTOMLSections(path string) (map[string]Section, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	sections := make(map[string]Section, len(raw))
	for name, value := range raw {
		if table, ok := value.(map[string]any); ok {
			sections[name] = Section(table)
		}
	}
	return sections, nil
}

// Int returns key as an int. TOML integers decode as int64.
func (s Section) Int(key string) (int, bool) {
	val, ok := s[key].(int64)
	return int(val), ok
}

// Bool returns key as a bool.
func (s Section) Bool(key string) (bool, bool) {
	val, ok := s[key].(bool)
	return val, ok
}

// Text returns key as a string.
func (s Section) Text(key string) (string, bool) {
	val, ok := s[key].(string)
	return val, ok
}
