package registry

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bojanraic/loko/pkg/fileutil"
)

func setupMemFS(t *testing.T) afero.Fs {
	t.Helper()
	memFs := afero.NewMemMapFs()
	restore := SetFS(fileutil.NewAferoFS(memFs))
	t.Cleanup(restore)
	return memFs
}

func TestDefaultMappings(t *testing.T) {
	defaults := Default()
	require.NotNil(t, defaults)

	assert.Equal(t, "https://traefik.github.io/charts", defaults.URLFor("traefik"))
	assert.Equal(t, "https://kubernetes-sigs.github.io/metrics-server", defaults.URLFor("metrics-server"))

	for _, chart := range []string{"mysql", "mariadb", "postgres", "redis", "mongodb", "rabbitmq"} {
		assert.Equal(t, "https://groundhog2k.github.io/helm-charts", defaults.URLFor(chart), "chart %s", chart)
	}

	assert.Empty(t, defaults.URLFor("no-such-chart"))
}

func TestURLForNilReceiver(t *testing.T) {
	var m *Mappings
	assert.Empty(t, m.URLFor("traefik"))
}

func TestLoadMappings(t *testing.T) {
	const validContent = `mappings:
  - chart: traefik
    url: https://mirror.example.com/traefik
  - chart: cert-manager
    url: https://charts.jetstack.io
`

	tests := []struct {
		name       string
		path       string
		content    string
		skipWrite  bool
		wantErrMsg string
		check      func(t *testing.T, m *Mappings)
	}{
		{
			name:    "valid file",
			path:    "mappings.yaml",
			content: validContent,
			check: func(t *testing.T, m *Mappings) {
				require.NotNil(t, m)
				assert.Len(t, m.Mappings, 2)
				assert.Equal(t, "https://mirror.example.com/traefik", m.URLFor("traefik"))
				assert.Equal(t, "https://charts.jetstack.io", m.URLFor("cert-manager"))
			},
		},
		{
			name:    "yml extension accepted",
			path:    "mappings.yml",
			content: validContent,
			check: func(t *testing.T, m *Mappings) {
				require.NotNil(t, m)
				assert.Len(t, m.Mappings, 2)
			},
		},
		{
			name:      "empty path is optional",
			path:      "",
			skipWrite: true,
			check: func(t *testing.T, m *Mappings) {
				assert.Nil(t, m)
			},
		},
		{
			name:       "wrong extension",
			path:       "mappings.json",
			skipWrite:  true,
			wantErrMsg: "must end with .yaml or .yml",
		},
		{
			name:       "missing file",
			path:       "absent.yaml",
			skipWrite:  true,
			wantErrMsg: "mappings file does not exist",
		},
		{
			name:       "empty file",
			path:       "empty.yaml",
			content:    "  \n",
			wantErrMsg: "mappings file is empty",
		},
		{
			name:       "malformed yaml",
			path:       "broken.yaml",
			content:    "mappings: [chart: ::::",
			wantErrMsg: "failed to parse mappings file",
		},
		{
			name:       "entry missing url",
			path:       "partial.yaml",
			content:    "mappings:\n  - chart: traefik\n",
			wantErrMsg: "must set both chart and url",
		},
		{
			name:       "duplicate chart",
			path:       "dup.yaml",
			content:    "mappings:\n  - chart: traefik\n    url: https://a\n  - chart: traefik\n    url: https://b\n",
			wantErrMsg: "duplicate chart 'traefik'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			memFs := setupMemFS(t)
			if !tt.skipWrite {
				require.NoError(t, afero.WriteFile(memFs, tt.path, []byte(tt.content), fileutil.ReadWriteUserReadOthers))
			}

			got, err := LoadMappings(tt.path)
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrMsg)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, got)
			}
		})
	}
}

func TestLoadMappingsErrorTypes(t *testing.T) {
	setupMemFS(t)

	_, err := LoadMappings("nope.txt")
	var extErr *ErrMappingExtension
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "nope.txt", extErr.Path)

	_, err = LoadMappings("absent.yaml")
	var notExistErr *ErrMappingFileNotExist
	require.ErrorAs(t, err, &notExistErr)
	assert.Equal(t, "absent.yaml", notExistErr.Path)
	assert.True(t, errors.Is(err, notExistErr.Err), "Unwrap should expose the underlying error")
}

func TestMerge(t *testing.T) {
	defaults := Default()
	overrides := &Mappings{
		Mappings: []Mapping{
			{Chart: "traefik", URL: "https://mirror.example.com/traefik"},
			{Chart: "cert-manager", URL: "https://charts.jetstack.io"},
		},
	}

	merged := defaults.Merge(overrides)

	// Override replaces the default in place.
	assert.Equal(t, "https://mirror.example.com/traefik", merged.URLFor("traefik"))
	// New charts are appended.
	assert.Equal(t, "https://charts.jetstack.io", merged.URLFor("cert-manager"))
	// Untouched defaults survive.
	assert.Equal(t, "https://groundhog2k.github.io/helm-charts", merged.URLFor("redis"))
	assert.Len(t, merged.Mappings, len(defaults.Mappings)+1)

	// Inputs stay unmodified.
	assert.Equal(t, "https://traefik.github.io/charts", defaults.URLFor("traefik"))
}

func TestMergeNilCases(t *testing.T) {
	defaults := Default()

	var nilMappings *Mappings
	assert.Equal(t, defaults, nilMappings.Merge(defaults))
	assert.Equal(t, defaults, defaults.Merge(nil))
}
