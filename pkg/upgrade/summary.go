package upgrade

import (
	"fmt"
	"time"

	"github.com/bojanraic/loko/pkg/annotation"
)

// Outcome classifies one checked component.
type Outcome string

// Component outcomes.
const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeFailed    Outcome = "failed"
)

// Component reports the result for one tracked dependency, in the order the
// walker discovered it.
type Component struct {
	// Name is the dependency name from the annotation.
	Name string
	// Datasource the version was checked against.
	Datasource annotation.Datasource
	// Path locates the value in the document, dotted form.
	Path string
	// Current is the value as stored before the run.
	Current string
	// Latest is the fetched version; empty when the fetch failed.
	Latest string
	// Outcome is updated, unchanged or failed.
	Outcome Outcome
	// Err holds the fetch error for failed components.
	Err error
}

// String renders the component the way the summary lists it.
func (c Component) String() string {
	switch c.Outcome {
	case OutcomeUpdated:
		return fmt.Sprintf("%s: %s → %s", c.Name, c.Current, c.Latest)
	case OutcomeFailed:
		return fmt.Sprintf("%s: check failed: %v", c.Name, c.Err)
	default:
		return fmt.Sprintf("%s: %s (up to date)", c.Name, c.Current)
	}
}

// Summary is the full report of one upgrade run. Every checked dependency
// appears in Components with its outcome, even when the run changed nothing.
type Summary struct {
	// Path is the upgraded document.
	Path string
	// BackupPath names the pre-upgrade backup; empty when no write happened.
	BackupPath string

	Checked   int
	Updated   int
	Unchanged int
	Failed    int

	// Components lists per-dependency results in walker-discovery order.
	Components []Component

	// Diff is a unified diff of the document before and after the run;
	// empty when nothing changed.
	Diff string

	// Elapsed is the wall-clock time of the whole run. DockerElapsed and
	// HelmElapsed accumulate per-datasource fetch time across workers, so
	// they can exceed Elapsed. All timing is advisory.
	Elapsed       time.Duration
	DockerElapsed time.Duration
	HelmElapsed   time.Duration
}

// Changed reports whether the run rewrote the document.
func (s *Summary) Changed() bool {
	return s.Updated > 0
}

// Message is the one-line outcome for display.
func (s *Summary) Message() string {
	switch {
	case s.Checked == 0:
		return "no components to check"
	case s.Updated == 0:
		return "all versions are up to date"
	default:
		return fmt.Sprintf("updated %d version(s) in %s", s.Updated, s.Path)
	}
}
