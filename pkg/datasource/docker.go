package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/distribution/reference"
	pkgerrors "github.com/pkg/errors"

	"github.com/bojanraic/loko/pkg/annotation"
	"github.com/bojanraic/loko/pkg/version"
)

// tagPageSize is how many tags one listing request asks for. Registries
// return newest tags first, so one page is enough to find the latest
// stable release.
const tagPageSize = 100

// DockerClient fetches image tags from the Docker Hub repositories API.
// Safe for concurrent use.
type DockerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewDockerClient builds a client against baseURL (e.g.
// "https://hub.docker.com"). A nil httpClient gets a default with a
// 10-second timeout.
func NewDockerClient(baseURL string, httpClient *http.Client) *DockerClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &DockerClient{baseURL: baseURL, httpClient: httpClient}
}

// tagList mirrors the relevant slice of the Docker Hub tags response.
type tagList struct {
	Results []struct {
		Name string `json:"name"`
	} `json:"results"`
}

// FetchLatest lists tags for the image named by desc.DepName and returns the
// maximum stable semantic version among them. Bare official-image names are
// normalized to their library/ repository ("node" -> "library/node"), the
// same resolution Docker itself applies.
func (c *DockerClient) FetchLatest(ctx context.Context, desc annotation.Descriptor) (string, error) {
	repoPath, err := normalizeRepository(desc.DepName)
	if err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, pkgerrors.Wrap(err, "invalid image name"))
	}

	url := fmt.Sprintf("%s/v2/repositories/%s/tags?page_size=%d", c.baseURL, repoPath, tagPageSize)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", WrapRegistryUnreachable(desc.DepName, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, pkgerrors.Wrap(err, "reading tags response"))
	}

	var tags tagList
	if err := json.Unmarshal(body, &tags); err != nil {
		return "", WrapRegistryUnreachable(desc.DepName, pkgerrors.Wrap(err, "decoding tags response"))
	}

	names := make([]string, 0, len(tags.Results))
	for _, tag := range tags.Results {
		names = append(names, tag.Name)
	}

	latest, ok := version.Latest(names)
	if !ok {
		return "", WrapNoValidVersions(desc.DepName)
	}
	return latest, nil
}

// normalizeRepository resolves an image name to its Docker Hub repository
// path, adding the library/ prefix for official images.
func normalizeRepository(name string) (string, error) {
	named, err := reference.ParseNormalizedNamed(name)
	if err != nil {
		return "", err
	}
	return reference.Path(named), nil
}
