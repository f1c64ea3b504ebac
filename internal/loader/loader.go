// Package loader reads model definitions from YAML files. A definition names
// a model, declares its public fields, and optionally configures proxying to
// an internal model.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is one parsed model definition file.
type Definition struct {
	// Name is the model's type name. Required.
	Name string `yaml:"name"`
	// Properties are the model's declared field names (its schema).
	Properties []string `yaml:"properties"`
	// Datasource attaches the shared datasource and its built-in CRUD
	// operations to the model when true.
	Datasource bool `yaml:"datasource"`
	// Proxy configures method forwarding to an internal model. Optional.
	Proxy *ProxyDef `yaml:"proxy"`

	// FilePath is the definition file the model came from.
	FilePath string `yaml:"-"`
}

// ProxyDef mirrors the proxy configuration surface: the internal model name,
// the methods to forward, and strict field filtering.
type ProxyDef struct {
	For     string   `yaml:"for"`
	Methods []string `yaml:"methods"`
	Strict  bool     `yaml:"strict"`
}

// Parse decodes a single model definition. Unknown fields are rejected so
// typos in definition files fail loudly.
func Parse(content []byte) (*Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(strings.NewReader(string(content)))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse model definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks structural requirements of a definition.
func (d *Definition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("model definition missing name")
	}
	if d.Proxy != nil {
		if d.Proxy.For == "" {
			return fmt.Errorf("model %s: proxy.for is required", d.Name)
		}
		if d.Proxy.Methods == nil {
			return fmt.Errorf("model %s: proxy.methods is required (may be empty)", d.Name)
		}
	}
	return nil
}

// LoadFile loads one definition file.
func LoadFile(path string) (*Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	def, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.FilePath = path
	return def, nil
}

// LoadDir loads every .yaml/.yml definition under dir (non-recursive),
// sorted by file name so registration order is deterministic.
func LoadDir(dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read models directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	defs := make([]*Definition, 0, len(paths))
	seen := make(map[string]string)
	for _, path := range paths {
		def, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("model %s defined in both %s and %s", def.Name, prev, path)
		}
		seen[def.Name] = path
		defs = append(defs, def)
	}
	return defs, nil
}
