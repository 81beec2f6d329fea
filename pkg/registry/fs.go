package registry

import (
	"github.com/bojanraic/loko/pkg/fileutil"
)

// DefaultFS is the default filesystem implementation used throughout the registry package
var DefaultFS fileutil.FS = fileutil.DefaultFS

// SetFS replaces the default filesystem with the provided one and returns a cleanup function
func SetFS(fs fileutil.FS) func() {
	oldFS := DefaultFS
	DefaultFS = fs
	return func() {
		DefaultFS = oldFS
	}
}
