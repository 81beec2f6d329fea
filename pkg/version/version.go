// Package version provides utilities for version filtering and comparison,
// particularly for selecting the newest stable release among registry tags
// and chart entries.
package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// IsStable reports whether s is a plain release version: parseable as a
// semantic version (an optional leading "v" and missing minor/patch segments
// are tolerated, so "v1.34" counts), with no prerelease identifier and no
// build metadata. Registry tags like "latest", "nightly", "1.25-alpine" or
// "8.0.4-debian-12-r0" are rejected.
func IsStable(s string) bool {
	trimmed := strings.TrimPrefix(s, "v")
	if trimmed == "" || trimmed[0] < '0' || trimmed[0] > '9' {
		return false
	}
	v, err := semver.NewVersion(s)
	if err != nil {
		return false
	}
	return v.Prerelease() == "" && v.Metadata() == ""
}

// Latest returns the maximum stable version among candidates by semantic
// version ordering, preserving the string form the candidate was published
// under (a "v" prefix is kept, not canonicalized away). ok is false when no
// candidate is stable.
func Latest(candidates []string) (latest string, ok bool) {
	var max *semver.Version
	for _, c := range candidates {
		if !IsStable(c) {
			continue
		}
		v, err := semver.NewVersion(c)
		if err != nil {
			continue
		}
		if max == nil || v.GreaterThan(max) {
			max = v
			latest = c
		}
	}
	return latest, max != nil
}

// Normalize strips one leading "v" so that "v1.32.0" and "1.32.0" compare
// equal when deciding whether a value actually changed.
func Normalize(s string) string {
	return strings.TrimPrefix(s, "v")
}
