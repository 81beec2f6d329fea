// Package datasource fetches the latest published version of a tracked
// dependency from its registry: Docker Hub tag listings for container
// images, repository index files for Helm charts. A Registry dispatches a
// parsed annotation descriptor to the fetcher matching its datasource and
// records how long the fetch took.
package datasource

import (
	"context"
	"time"

	"github.com/bojanraic/loko/pkg/annotation"
	log "github.com/bojanraic/loko/pkg/log"
)

// Fetcher returns the latest stable version for one dependency. An
// implementation must be safe for concurrent use; the orchestrator calls it
// from a worker pool.
type Fetcher interface {
	FetchLatest(ctx context.Context, desc annotation.Descriptor) (string, error)
}

// Result is the outcome of one dispatched fetch. Exactly one Result is
// produced per dispatched field; Err is set instead of Version on failure.
// Elapsed is advisory timing for the summary and never affects control flow.
type Result struct {
	Descriptor annotation.Descriptor
	Version    string
	Elapsed    time.Duration
	Err        error
}

// Registry routes descriptors to fetchers by datasource.
type Registry struct {
	fetchers map[annotation.Datasource]Fetcher
}

// NewRegistry builds a Registry covering the two supported datasources.
func NewRegistry(docker, helm Fetcher) *Registry {
	return &Registry{fetchers: map[annotation.Datasource]Fetcher{
		annotation.DatasourceDocker: docker,
		annotation.DatasourceHelm:   helm,
	}}
}

// Dispatch runs the fetcher matching desc's datasource and wraps the outcome
// with wall-clock timing. A datasource with no registered fetcher yields an
// ErrUnsupportedDatasource Result, not a panic.
func (r *Registry) Dispatch(ctx context.Context, desc annotation.Descriptor) Result {
	fetcher, ok := r.fetchers[desc.Datasource]
	if !ok || fetcher == nil {
		return Result{Descriptor: desc, Err: WrapUnsupportedDatasource(desc.Datasource)}
	}

	start := time.Now()
	version, err := fetcher.FetchLatest(ctx, desc)
	elapsed := time.Since(start)

	if err != nil {
		log.Debug("fetch failed", "dependency", desc.DepName, "datasource", desc.Datasource, "elapsed", elapsed, "error", err)
	} else {
		log.Debug("fetched latest version", "dependency", desc.DepName, "datasource", desc.Datasource, "version", version, "elapsed", elapsed)
	}
	return Result{Descriptor: desc, Version: version, Elapsed: elapsed, Err: err}
}
