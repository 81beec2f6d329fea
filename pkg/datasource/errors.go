package datasource

import (
	"errors"
	"fmt"

	"github.com/bojanraic/loko/pkg/annotation"
)

// Fetch error sentinels. All are recorded per-field by the orchestrator and
// never abort an upgrade run.
var (
	// ErrRegistryUnreachable indicates a transport failure, timeout or
	// non-success HTTP status while talking to a registry.
	ErrRegistryUnreachable = errors.New("registry unreachable")

	// ErrNoValidVersions indicates the registry answered but none of the
	// returned tags or entries parse as a stable semantic version.
	ErrNoValidVersions = errors.New("no valid versions found")

	// ErrChartNotFound indicates the chart name is absent from the
	// repository index.
	ErrChartNotFound = errors.New("chart not found in repository index")

	// ErrMissingRepositoryURL indicates a helm dependency carries no
	// repositoryUrl and no built-in or user mapping covers it. Detected
	// before any network call.
	ErrMissingRepositoryURL = errors.New("no repository URL for helm dependency")

	// ErrUnsupportedDatasource indicates a descriptor whose datasource has
	// no registered fetcher. Unreachable through the annotation parser,
	// which only produces supported datasources; kept for direct callers.
	ErrUnsupportedDatasource = errors.New("unsupported datasource")
)

// WrapRegistryUnreachable attaches the failing dependency and cause.
func WrapRegistryUnreachable(depName string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrRegistryUnreachable, depName, err)
}

// WrapNoValidVersions attaches the dependency name.
func WrapNoValidVersions(depName string) error {
	return fmt.Errorf("%w: %s", ErrNoValidVersions, depName)
}

// WrapChartNotFound attaches the chart name and repository URL.
func WrapChartNotFound(chart, repoURL string) error {
	return fmt.Errorf("%w: %s in %s", ErrChartNotFound, chart, repoURL)
}

// WrapMissingRepositoryURL attaches the chart name.
func WrapMissingRepositoryURL(chart string) error {
	return fmt.Errorf("%w: %s", ErrMissingRepositoryURL, chart)
}

// WrapUnsupportedDatasource attaches the offending datasource value.
func WrapUnsupportedDatasource(ds annotation.Datasource) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedDatasource, ds)
}
