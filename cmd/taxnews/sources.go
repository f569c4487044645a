// cmd/taxnews/sources.go
package main

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v2"
)

// sourcesFile is the on-disk layout of the source registry
type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// SourceRegistry is the static catalog of feed descriptors. It is built
// once at startup; adding or removing sources is a deployment-time
// change, not a runtime operation.
type SourceRegistry struct {
	sources []Source
}

// LoadSourceRegistry reads and validates the source registry from a
// YAML file. Any malformed entry is fatal at boot.
func LoadSourceRegistry(path string) (*SourceRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to read sources file %s", path), err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, NewConfigError(ErrConfigLoad, fmt.Sprintf("failed to parse sources file %s", path), err)
	}
	if len(file.Sources) == 0 {
		return nil, NewConfigError(ErrConfigValidation, fmt.Sprintf("no sources defined in %s", path), nil)
	}

	seen := make(map[string]bool, len(file.Sources))
	for i := range file.Sources {
		src := &file.Sources[i]
		if err := validateSource(src); err != nil {
			return nil, err
		}
		if seen[src.ID] {
			return nil, NewConfigError(ErrConfigValidation, fmt.Sprintf("duplicate source id %q", src.ID), nil)
		}
		seen[src.ID] = true
	}

	return &SourceRegistry{sources: file.Sources}, nil
}

// validateSource checks one registry entry and fills defaults
func validateSource(src *Source) error {
	if src.ID == "" {
		return NewConfigError(ErrConfigValidation, "source entry missing id", nil)
	}
	if src.Name == "" {
		return NewConfigError(ErrConfigValidation, fmt.Sprintf("source %q missing name", src.ID), nil)
	}
	u, err := url.Parse(src.URL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		return NewConfigError(ErrConfigValidation, fmt.Sprintf("source %q has invalid url %q", src.ID, src.URL), nil)
	}

	switch src.Priority {
	case PriorityHigh, PriorityMedium, PriorityLow:
	case "":
		src.Priority = PriorityMedium
	default:
		return NewConfigError(ErrConfigValidation, fmt.Sprintf("source %q has unknown priority %q", src.ID, src.Priority), nil)
	}

	if src.Category == "" {
		src.Category = "general"
	}
	return nil
}

// List returns the registered sources in declaration order
func (r *SourceRegistry) List() []Source {
	out := make([]Source, len(r.sources))
	copy(out, r.sources)
	return out
}

// Len returns the number of registered sources
func (r *SourceRegistry) Len() int {
	return len(r.sources)
}
