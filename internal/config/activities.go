package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// activityCatalog is the on-disk shape of the activities file:
//
//	activities:
//	  - 20 Jumping Jacks
//	  - 10 Push-ups
type activityCatalog struct {
	Activities []string `yaml:"activities"`
}

// LoadActivities reads the break activity catalog at path. A missing file
// yields nil so callers fall back to the built-in catalog. Blank entries are
// dropped.
func LoadActivities(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading activities file: %w", err)
	}
	return ParseActivities(data)
}

// ParseActivities decodes a YAML activity catalog.
func ParseActivities(data []byte) ([]string, error) {
	var cat activityCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("parsing activities file: %w", err)
	}
	var out []string
	for _, a := range cat.Activities {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out, nil
}

// WriteActivities saves catalog in the format LoadActivities reads.
func WriteActivities(path string, catalog []string) error {
	data, err := yaml.Marshal(activityCatalog{Activities: catalog})
	if err != nil {
		return fmt.Errorf("encoding activities: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating activities dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing activities file: %w", err)
	}
	return nil
}
