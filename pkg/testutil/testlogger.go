package testutil

import (
	"bytes"
	"io"
	"sync"
	"testing"

	log "github.com/bojanraic/loko/pkg/log"
)

// mutex serializes tests that swap the global log output.
var mutex sync.Mutex

// SuppressLogging discards all pkg/log output until the returned restore
// function is called.
func SuppressLogging() func() {
	mutex.Lock()
	defer mutex.Unlock()

	restore := log.SetOutput(io.Discard)
	return func() {
		mutex.Lock()
		defer mutex.Unlock()
		restore()
	}
}

// CaptureLogging buffers pkg/log output. The returned function restores the
// previous output and yields what was captured. Only writes through pkg/log
// are captured, not direct writes to stderr.
func CaptureLogging() func() string {
	mutex.Lock()

	var buf bytes.Buffer
	restore := log.SetOutput(&buf)

	return func() string {
		defer mutex.Unlock()
		restore()
		return buf.String()
	}
}

// UseTestLogger buffers log output for the duration of the test and replays
// it only when the test fails (skipped under -v, where live output is more
// useful). Cleanup is registered on t; the returned func is a no-op kept
// for call-site symmetry with SuppressLogging.
func UseTestLogger(t *testing.T) func() {
	t.Helper()

	if !testing.Verbose() {
		restoreAndGet := CaptureLogging()
		t.Cleanup(func() {
			captured := restoreAndGet()
			if t.Failed() && captured != "" {
				t.Logf("log output captured during test:\n%s", captured)
			}
		})
	}
	return func() {}
}
