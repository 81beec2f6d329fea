// Package registry maps Helm chart names to the repository URLs their
// indexes are served from. A built-in table covers the charts the
// surrounding tooling ships with; a user-supplied mappings file can extend
// or override it.
package registry

import (
	"bytes"
	"errors"
	"os"
	"strings"

	"sigs.k8s.io/yaml"
)

// Repository URLs for the built-in mappings.
const (
	traefikRepositoryURL       = "https://traefik.github.io/charts"
	metricsServerRepositoryURL = "https://kubernetes-sigs.github.io/metrics-server"
	groundhog2kRepositoryURL   = "https://groundhog2k.github.io/helm-charts"
)

// Mapping represents a single chart name to repository URL mapping.
type Mapping struct {
	Chart string `json:"chart"`
	URL   string `json:"url"`
}

// Mappings holds an ordered collection of chart mappings.
type Mappings struct {
	Mappings []Mapping `json:"mappings"`
}

// Default returns the built-in mapping table. Callers own the returned value
// and may merge user mappings over it.
func Default() *Mappings {
	return &Mappings{
		Mappings: []Mapping{
			{Chart: "traefik", URL: traefikRepositoryURL},
			{Chart: "metrics-server", URL: metricsServerRepositoryURL},
			{Chart: "mysql", URL: groundhog2kRepositoryURL},
			{Chart: "mariadb", URL: groundhog2kRepositoryURL},
			{Chart: "postgres", URL: groundhog2kRepositoryURL},
			{Chart: "redis", URL: groundhog2kRepositoryURL},
			{Chart: "mongodb", URL: groundhog2kRepositoryURL},
			{Chart: "rabbitmq", URL: groundhog2kRepositoryURL},
		},
	}
}

// LoadMappings loads chart mappings from a YAML file. An empty path returns
// (nil, nil) so callers can treat the file as optional.
func LoadMappings(path string) (*Mappings, error) {
	if path == "" {
		return nil, nil
	}

	if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
		return nil, WrapMappingExtension(path)
	}

	data, err := DefaultFS.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, WrapMappingFileNotExist(path, err)
		}
		return nil, WrapMappingFileRead(path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, WrapMappingFileEmpty(path)
	}

	var mappings Mappings
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, WrapMappingFileParse(path, err)
	}

	seen := make(map[string]bool, len(mappings.Mappings))
	for i, entry := range mappings.Mappings {
		if entry.Chart == "" || entry.URL == "" {
			return nil, WrapInvalidMapping(path, i)
		}
		if seen[entry.Chart] {
			return nil, WrapDuplicateChart(path, entry.Chart)
		}
		seen[entry.Chart] = true
	}

	return &mappings, nil
}

// URLFor returns the repository URL mapped to chart, or "" when the chart is
// unknown. Safe to call on a nil receiver.
func (m *Mappings) URLFor(chart string) string {
	if m == nil {
		return ""
	}
	for _, mapping := range m.Mappings {
		if mapping.Chart == chart {
			return mapping.URL
		}
	}
	return ""
}

// Merge layers overrides on top of m: an override entry for a chart already
// present replaces its URL in place, new charts are appended in override
// order. Neither receiver nor argument is modified.
func (m *Mappings) Merge(overrides *Mappings) *Mappings {
	if m == nil {
		return overrides
	}
	if overrides == nil {
		return m
	}

	overrideURL := make(map[string]string, len(overrides.Mappings))
	for _, o := range overrides.Mappings {
		overrideURL[o.Chart] = o.URL
	}

	merged := &Mappings{Mappings: make([]Mapping, 0, len(m.Mappings)+len(overrides.Mappings))}
	replaced := make(map[string]bool, len(m.Mappings))
	for _, entry := range m.Mappings {
		if url, ok := overrideURL[entry.Chart]; ok {
			merged.Mappings = append(merged.Mappings, Mapping{Chart: entry.Chart, URL: url})
			replaced[entry.Chart] = true
			continue
		}
		merged.Mappings = append(merged.Mappings, entry)
	}
	for _, o := range overrides.Mappings {
		if !replaced[o.Chart] {
			merged.Mappings = append(merged.Mappings, o)
		}
	}
	return merged
}
