package template

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a configuration document.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the format from the file extension.
// Anything other than .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Unmarshal decodes a whole document into v.
func Unmarshal(data []byte, format Format, v any) error {
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return nil
}

// document gives access to top-level sections that are decoded one at a
// time, so a broken section does not take its siblings down with it.
type document interface {
	has(key string) bool
	decode(key string, v any) error
	empty() bool
}

func parseDocument(data []byte, format Format) (document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var doc document
	switch format {
	case FormatTOML:
		var sections map[string]toml.Primitive
		md, err := toml.Decode(string(data), &sections)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		doc = tomlDocument{md: md, sections: sections}
	default:
		var sections map[string]yaml.Node
		if err := yaml.Unmarshal(data, &sections); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		doc = yamlDocument(sections)
	}

	if doc.empty() {
		return nil, ErrEmpty
	}
	return doc, nil
}

type yamlDocument map[string]yaml.Node

func (d yamlDocument) has(key string) bool {
	_, ok := d[key]
	return ok
}

func (d yamlDocument) decode(key string, v any) error {
	node, ok := d[key]
	if !ok {
		return nil
	}
	if err := node.Decode(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}
	return nil
}

func (d yamlDocument) empty() bool { return len(d) == 0 }

type tomlDocument struct {
	md       toml.MetaData
	sections map[string]toml.Primitive
}

func (d tomlDocument) has(key string) bool {
	_, ok := d.sections[key]
	return ok
}

func (d tomlDocument) decode(key string, v any) error {
	prim, ok := d.sections[key]
	if !ok {
		return nil
	}
	if err := d.md.PrimitiveDecode(prim, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, key, err)
	}
	return nil
}

func (d tomlDocument) empty() bool { return len(d.sections) == 0 }
