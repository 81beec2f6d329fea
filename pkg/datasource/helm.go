package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"helm.sh/helm/v3/pkg/repo"
	"sigs.k8s.io/yaml"

	"github.com/bojanraic/loko/pkg/annotation"
	"github.com/bojanraic/loko/pkg/registry"
	"github.com/bojanraic/loko/pkg/version"
)

// HelmClient fetches chart versions from Helm repository index files. One
// index download is made per distinct repository URL per client lifetime, so
// concurrent fetches for sibling charts of the same repository share a
// single request. Safe for concurrent use.
type HelmClient struct {
	httpClient *http.Client
	mappings   *registry.Mappings

	mu      sync.Mutex
	indexes map[string]*repo.IndexFile
}

// NewHelmClient builds a client. mappings supplies repository URLs for
// charts whose annotations omit repositoryUrl; nil means no mappings. A nil
// httpClient gets a default with a 10-second timeout.
func NewHelmClient(httpClient *http.Client, mappings *registry.Mappings) *HelmClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HelmClient{
		httpClient: httpClient,
		mappings:   mappings,
		indexes:    make(map[string]*repo.IndexFile),
	}
}

// FetchLatest returns the maximum stable, non-deprecated version of the
// chart named by desc.DepName. The repository URL comes from the descriptor
// or, failing that, the mappings table; with neither the fetch fails before
// any network call.
func (c *HelmClient) FetchLatest(ctx context.Context, desc annotation.Descriptor) (string, error) {
	repoURL := desc.RepositoryURL
	if repoURL == "" {
		repoURL = c.mappings.URLFor(desc.DepName)
	}
	if repoURL == "" {
		return "", WrapMissingRepositoryURL(desc.DepName)
	}
	repoURL = strings.TrimRight(repoURL, "/")

	index, err := c.index(ctx, repoURL)
	if err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, err)
	}

	entries, ok := index.Entries[desc.DepName]
	if !ok || len(entries) == 0 {
		return "", WrapChartNotFound(desc.DepName, repoURL)
	}

	candidates := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry == nil || entry.Metadata == nil || entry.Deprecated {
			continue
		}
		candidates = append(candidates, entry.Version)
	}

	latest, ok := version.Latest(candidates)
	if !ok {
		return "", WrapNoValidVersions(desc.DepName)
	}
	return latest, nil
}

// index returns the parsed index.yaml for repoURL, downloading it at most
// once per client lifetime. Failed downloads are not cached, so a transient
// error on one chart does not poison later fetches against the same
// repository.
func (c *HelmClient) index(ctx context.Context, repoURL string) (*repo.IndexFile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if index, ok := c.indexes[repoURL]; ok {
		return index, nil
	}

	indexURL := repoURL + "/index.yaml"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, indexURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, indexURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "reading repository index")
	}

	var index repo.IndexFile
	if err := yaml.Unmarshal(body, &index); err != nil {
		return nil, pkgerrors.Wrap(err, "parsing repository index")
	}

	c.indexes[repoURL] = &index
	return &index, nil
}
