// Package annotation parses the structured comments that mark YAML values as
// version-tracked. An annotation is a single comment line of the form
//
//	# renovate: datasource=docker depName=kindest/node
//	# renovate: datasource=helm depName=traefik repositoryUrl=https://traefik.github.io/charts
//
// Lines that do not match the grammar are not errors; they are ordinary
// comments and parsing simply reports no match.
package annotation

import (
	"fmt"
	"strings"
)

// Marker is the literal token that introduces an annotation, after the
// comment leader.
const Marker = "renovate:"

// Annotation keys. Keys are case-sensitive; unknown keys are ignored so the
// grammar stays forward compatible.
const (
	keyDatasource    = "datasource"
	keyDepName       = "depName"
	keyRepositoryURL = "repositoryUrl"
)

// Datasource identifies which registry kind a dependency is tracked against.
type Datasource string

// Supported datasources.
const (
	// DatasourceDocker tracks a container image against an image registry's
	// tag list.
	DatasourceDocker Datasource = "docker"
	// DatasourceHelm tracks a chart against a Helm repository index.
	DatasourceHelm Datasource = "helm"
)

// Valid reports whether d is one of the supported datasources.
func (d Datasource) Valid() bool {
	return d == DatasourceDocker || d == DatasourceHelm
}

// Descriptor is the parsed form of one annotation.
type Descriptor struct {
	// Datasource selects the registry kind to query.
	Datasource Datasource
	// DepName names the image or chart, e.g. "kindest/node" or "traefik".
	DepName string
	// RepositoryURL optionally points a helm dependency at its repository.
	// Unused for docker.
	RepositoryURL string
}

// String renders the descriptor for logs and summaries.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s:%s", d.Datasource, d.DepName)
}

// Parse parses a single comment line. It tolerates surrounding whitespace and
// any number of leading '#' characters, requires the marker token as a
// prefix, and then reads space-separated key=value pairs. It returns ok=false
// when the line is not an annotation: no marker, a missing required key, an
// empty value, or a datasource outside the supported set.
func Parse(comment string) (Descriptor, bool) {
	rest := strings.TrimSpace(comment)
	for strings.HasPrefix(rest, "#") {
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "#"))
	}
	if !strings.HasPrefix(rest, Marker) {
		return Descriptor{}, false
	}
	rest = rest[len(Marker):]

	var desc Descriptor
	for _, field := range strings.Fields(rest) {
		key, value, found := strings.Cut(field, "=")
		if !found || value == "" {
			continue
		}
		switch key {
		case keyDatasource:
			desc.Datasource = Datasource(value)
		case keyDepName:
			desc.DepName = value
		case keyRepositoryURL:
			desc.RepositoryURL = value
		}
	}

	if !desc.Datasource.Valid() || desc.DepName == "" {
		return Descriptor{}, false
	}
	return desc, true
}

// ParseBlock parses a comment block that may span multiple lines (as comment
// text is attached to parsed YAML nodes). Each line is considered
// independently; the first line that parses wins.
func ParseBlock(block string) (Descriptor, bool) {
	for _, line := range strings.Split(block, "\n") {
		if desc, ok := Parse(line); ok {
			return desc, true
		}
	}
	return Descriptor{}, false
}
