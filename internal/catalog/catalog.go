// Package catalog maps raw regulatory source filenames to human-readable
// titles used in answers, reports and source labels.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog holds friendly display names keyed by raw filename plus a set of
// example questions surfaced by the API. The zero value is usable and falls
// back to raw filenames.
type Catalog struct {
	Documents        map[string]string `yaml:"documents"`
	ExampleQuestions []string          `yaml:"example_questions"`
}

// Load reads the catalog from a YAML file. A missing file is not an error;
// operators may run without a catalog and get raw filenames everywhere.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return &c, nil
}

// FriendlyName returns the display title for a raw filename, or the raw
// name unchanged when the catalog does not know it.
func (c *Catalog) FriendlyName(raw string) string {
	if c == nil || c.Documents == nil {
		return raw
	}
	if name, ok := c.Documents[raw]; ok && name != "" {
		return name
	}
	return raw
}
