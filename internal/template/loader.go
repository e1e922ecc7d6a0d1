package template

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile parses one YAML template definition.
func LoadFile(path string) (*Template, error) {
	raw, err := os.ReadFile(path) //nolint:gosec // G304: operator-provided template path
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	var t Template
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", path, err)
	}
	if err := validate(&t); err != nil {
		return nil, fmt.Errorf("template %s: %w", path, err)
	}
	return &t, nil
}

// LoadDir registers every .yaml/.yml template found in dir, in lexical order
// so repeated runs produce identical registration order.
func LoadDir(r *Registry, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read template directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	loaded := 0
	for _, name := range names {
		t, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return loaded, err
		}
		r.Register(t)
		loaded++
	}
	return loaded, nil
}

func validate(t *Template) error {
	if t.Name == "" {
		return fmt.Errorf("missing name")
	}
	if len(t.Variants) == 0 {
		return fmt.Errorf("no variants defined")
	}
	for i, v := range t.Variants {
		if len(v.Headers) == 0 {
			return fmt.Errorf("variant %d has no headers", i)
		}
		if v.Confidence <= 0 || v.Confidence > 1 {
			return fmt.Errorf("variant %d confidence %v out of (0,1]", i, v.Confidence)
		}
	}
	return nil
}
