package fileutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAferoFSRoundTrip(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fs.MkdirAll("deploy/apps", ReadWriteExecuteUserReadExecuteOthers))
	require.NoError(t, fs.WriteFile("deploy/apps/loko.yaml", []byte("a: 1\n"), ReadWriteUserReadOthers))

	data, err := fs.ReadFile("deploy/apps/loko.yaml")
	require.NoError(t, err)
	assert.Equal(t, "a: 1\n", string(data))

	info, err := fs.Stat("deploy/apps/loko.yaml")
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	require.NoError(t, fs.Rename("deploy/apps/loko.yaml", "deploy/apps/loko-prev.yaml"))
	_, err = fs.Stat("deploy/apps/loko.yaml")
	assert.Error(t, err)

	require.NoError(t, fs.Remove("deploy/apps/loko-prev.yaml"))
	require.NoError(t, fs.RemoveAll("deploy"))
}

func TestAferoFSErrorsAreWrapped(t *testing.T) {
	fs := NewAferoFS(afero.NewReadOnlyFs(afero.NewMemMapFs()))

	err := fs.WriteFile("blocked.yaml", []byte("x"), ReadWriteUserReadOthers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write file blocked.yaml")

	_, err = fs.ReadFile("missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file missing.yaml")

	err = fs.Mkdir("nope", ReadWriteExecuteUserReadExecuteOthers)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory nope")
}

func TestNewAferoFSNilDefaultsToOsFs(t *testing.T) {
	fs := NewAferoFS(nil)
	require.NotNil(t, fs)
	assert.NotNil(t, fs.GetUnderlyingFs())
}

func TestSetFSRestores(t *testing.T) {
	original := DefaultFS

	memFS := NewAferoFS(afero.NewMemMapFs())
	restore := SetFS(memFS)
	assert.Equal(t, FS(memFS), DefaultFS)

	restore()
	assert.Equal(t, original, DefaultFS)
}

func TestOpenFileCreateWriteRead(t *testing.T) {
	fs := NewAferoFS(afero.NewMemMapFs())

	f, err := fs.Create("scratch.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("kind: List\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	g, err := fs.Open("scratch.yaml")
	require.NoError(t, err)
	buf := make([]byte, 16)
	n, _ := g.Read(buf)
	require.NoError(t, g.Close())
	assert.Equal(t, "kind: List\n", string(buf[:n]))
}
