// Package config loads the YAML files that describe what the worker enriches:
// the subject collections and the award catalogs.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"cineverse/internal/domain/entity"
)

// CollectionsFile is the layout of the collections YAML file.
type CollectionsFile struct {
	Collections []entity.Collection `yaml:"collections"`
}

// AwardCatalog is the layout of an award catalog YAML file.
type AwardCatalog struct {
	Ceremony string              `yaml:"ceremony"`
	Entries  []entity.AwardEntry `yaml:"entries"`
}

// LoadCollections reads and validates a collections file.
// The path parameter is expected to come from a trusted source (flag or environment).
func LoadCollections(path string) ([]entity.Collection, error) {
	var file CollectionsFile
	if err := readYAML(path, &file); err != nil {
		return nil, err
	}
	if err := validateCollections(file.Collections); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return file.Collections, nil
}

// LoadAwardCatalog reads an award catalog file. Only the ceremony is
// validated here; malformed entries are rejected one by one at load time.
func LoadAwardCatalog(path string) (*AwardCatalog, error) {
	var catalog AwardCatalog
	if err := readYAML(path, &catalog); err != nil {
		return nil, err
	}
	catalog.Ceremony = strings.TrimSpace(catalog.Ceremony)
	if catalog.Ceremony == "" {
		return nil, fmt.Errorf("config validation failed: %w",
			&entity.ValidationError{Field: "ceremony", Message: "ceremony is required"})
	}
	return &catalog, nil
}

func readYAML(path string, out any) error {
	// #nosec G304 -- path is provided by trusted source (CLI flag or environment), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func validateCollections(cols []entity.Collection) error {
	if len(cols) == 0 {
		return &entity.ValidationError{Field: "collections", Message: "at least one collection is required"}
	}
	seen := make(map[string]struct{}, len(cols))
	for i := range cols {
		if err := cols[i].Validate(); err != nil {
			return fmt.Errorf("collection %d: %w", i, err)
		}
		if _, dup := seen[cols[i].Name]; dup {
			return &entity.ValidationError{Field: "collections", Message: fmt.Sprintf("duplicate collection %q", cols[i].Name)}
		}
		seen[cols[i].Name] = struct{}{}
	}
	return nil
}

// Find returns the named collection.
func (f CollectionsFile) Find(name string) (entity.Collection, bool) {
	for _, c := range f.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return entity.Collection{}, false
}
