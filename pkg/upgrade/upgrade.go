// Package upgrade orchestrates one version-upgrade run over a YAML
// configuration file: scan for annotated values, fetch latest versions
// concurrently, back the file up, and rewrite only the values that changed
// while preserving every other byte.
package upgrade

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"

	"github.com/bojanraic/loko/pkg/annotation"
	"github.com/bojanraic/loko/pkg/config"
	"github.com/bojanraic/loko/pkg/datasource"
	"github.com/bojanraic/loko/pkg/fileutil"
	log "github.com/bojanraic/loko/pkg/log"
	"github.com/bojanraic/loko/pkg/registry"
	"github.com/bojanraic/loko/pkg/version"
	"github.com/bojanraic/loko/pkg/yamldoc"
)

// diffContextLines is the unified-diff context in the summary.
const diffContextLines = 3

// Upgrader runs upgrades against one filesystem and fetcher registry. Safe
// to reuse across runs; each Run owns its document exclusively.
type Upgrader struct {
	fs           afero.Fs
	registry     *datasource.Registry
	workers      int
	backupSuffix string
}

// New builds an Upgrader. A nil fs means the OS filesystem. Worker count
// and backup suffix come from opts, falling back to defaults when unset.
func New(fs afero.Fs, fetchers *datasource.Registry, opts config.Options) *Upgrader {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = config.DefaultWorkers
	}
	suffix := opts.BackupSuffix
	if suffix == "" {
		suffix = config.DefaultBackupSuffix
	}
	return &Upgrader{fs: fs, registry: fetchers, workers: workers, backupSuffix: suffix}
}

// NewFromOptions builds an Upgrader with real registry clients derived from
// opts: a Docker Hub client against opts.DockerHubURL, a Helm client with
// the built-in chart mappings merged with opts.MappingsFile, and one HTTP
// client bounded by opts.HTTPTimeout shared by both.
func NewFromOptions(fs afero.Fs, opts config.Options) (*Upgrader, error) {
	httpClient := &http.Client{Timeout: opts.HTTPTimeout}

	mappings := registry.Default()
	if opts.MappingsFile != "" {
		user, err := registry.LoadMappings(opts.MappingsFile)
		if err != nil {
			return nil, err
		}
		mappings = mappings.Merge(user)
	}

	fetchers := datasource.NewRegistry(
		datasource.NewDockerClient(opts.DockerHubURL, httpClient),
		datasource.NewHelmClient(httpClient, mappings),
	)
	return New(fs, fetchers, opts), nil
}

// Run upgrades the document at path and returns the per-component summary.
// Per-dependency fetch failures are recorded in the summary and never abort
// the run; only a document load failure, a backup write failure or a
// primary write failure returns an error. When no annotated component is
// found, or every version is already current, the file is left untouched
// and no backup is written.
func (u *Upgrader) Run(ctx context.Context, path string) (*Summary, error) {
	start := time.Now()
	log.Info("scanning for version annotations", "path", path)

	doc, err := yamldoc.Load(u.fs, path)
	if err != nil {
		return nil, err
	}

	fields := doc.Collect()
	summary := &Summary{Path: path, Checked: len(fields)}
	if len(fields) == 0 {
		summary.Elapsed = time.Since(start)
		log.Info("no components to check", "path", path)
		return summary, nil
	}

	log.Info("checking component versions", "components", len(fields), "workers", u.workers)
	results := u.fetchAll(ctx, fields)

	var planned []int
	for i := range fields {
		field := &fields[i]
		result := results[i]

		switch result.Descriptor.Datasource {
		case annotation.DatasourceDocker:
			summary.DockerElapsed += result.Elapsed
		case annotation.DatasourceHelm:
			summary.HelmElapsed += result.Elapsed
		}

		component := Component{
			Name:       field.Descriptor.DepName,
			Datasource: field.Descriptor.Datasource,
			Path:       field.PathString(),
			Current:    field.Value,
			Latest:     result.Version,
		}
		switch {
		case result.Err != nil:
			component.Outcome = OutcomeFailed
			component.Err = result.Err
			summary.Failed++
			log.Warn("version check failed", "dependency", component.Name, "error", result.Err)
		case version.Normalize(result.Version) == version.Normalize(field.Value):
			component.Outcome = OutcomeUnchanged
			summary.Unchanged++
		default:
			component.Outcome = OutcomeUpdated
			summary.Updated++
			planned = append(planned, i)
			log.Info("update found", "dependency", component.Name, "current", component.Current, "latest", component.Latest)
		}
		summary.Components = append(summary.Components, component)
	}

	if len(planned) == 0 {
		summary.Elapsed = time.Since(start)
		log.Info("all versions are up to date", "path", path, "checked", summary.Checked, "failed", summary.Failed)
		return summary, nil
	}

	backupPath := fileutil.BackupPath(path, u.backupSuffix)
	mode := u.fileMode(path)
	if err := afero.WriteFile(u.fs, backupPath, doc.Original(), mode); err != nil {
		return nil, WrapBackupWriteFailed(backupPath, err)
	}
	log.Info("backup created", "path", backupPath)

	for _, i := range planned {
		if err := doc.SetValue(&fields[i], results[i].Version); err != nil {
			return nil, WrapPrimaryWriteFailed(path, backupPath, err)
		}
	}
	if err := afero.WriteFile(u.fs, path, doc.Bytes(), mode); err != nil {
		return nil, WrapPrimaryWriteFailed(path, backupPath, err)
	}

	summary.BackupPath = backupPath
	summary.Diff = unifiedDiff(path, doc.Original(), doc.Bytes())
	summary.Elapsed = time.Since(start)
	log.Info("upgrade complete", "path", path, "updated", summary.Updated, "unchanged", summary.Unchanged, "failed", summary.Failed, "elapsed", summary.Elapsed)
	return summary, nil
}

// fetchAll fans one fetch per field out over the worker pool and blocks
// until every field has a result. Workers only read fields and write their
// own result slot; the document is untouched during this phase.
func (u *Upgrader) fetchAll(ctx context.Context, fields []yamldoc.Field) []datasource.Result {
	results := make([]datasource.Result, len(fields))
	jobs := make(chan int)

	workers := u.workers
	if workers > len(fields) {
		workers = len(fields)
	}

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = u.registry.Dispatch(ctx, fields[i].Descriptor)
			}
		}()
	}

	for i := range fields {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// fileMode returns the document's current permission bits, so backup and
// rewrite preserve them.
func (u *Upgrader) fileMode(path string) os.FileMode {
	info, err := u.fs.Stat(path)
	if err != nil {
		return fileutil.ReadWriteUserReadOthers
	}
	return info.Mode().Perm()
}

// unifiedDiff renders the before/after diff for the summary. A diff render
// failure only costs the diff, not the run.
func unifiedDiff(path string, before, after []byte) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: path,
		ToFile:   path,
		Context:  diffContextLines,
	})
	if err != nil {
		log.Warn("failed to render diff", "path", path, "error", err)
		return ""
	}
	return diff
}
