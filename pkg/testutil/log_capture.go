// Package testutil provides shared test helpers: capturing and asserting on
// structured log output produced through pkg/log.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	log "github.com/bojanraic/loko/pkg/log"
)

// CaptureLogOutput redirects pkg/log output to a buffer at the given level
// for the duration of testFunc and returns what was written. Output and
// level are restored afterwards; a panic inside testFunc is recovered and
// returned as the error.
func CaptureLogOutput(logLevel log.Level, testFunc func()) (string, error) {
	originalLevel := log.CurrentLevel()

	var buf bytes.Buffer
	restore := log.SetOutput(&buf)
	defer restore()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	err := runRecovered(testFunc)
	return buf.String(), err
}

// CaptureJSONLogs is CaptureLogOutput with LOG_FORMAT forced to json and
// each captured line parsed into a map. It returns the raw output, the
// parsed entries, and the first parse failure if any line is not JSON.
func CaptureJSONLogs(logLevel log.Level, testFunc func()) (string, []map[string]interface{}, error) {
	originalFormat := os.Getenv("LOG_FORMAT")
	if err := os.Setenv("LOG_FORMAT", "json"); err != nil {
		return "", nil, fmt.Errorf("failed to set LOG_FORMAT: %w", err)
	}
	defer func() {
		if err := os.Setenv("LOG_FORMAT", originalFormat); err != nil {
			log.Error("failed to restore LOG_FORMAT", "value", originalFormat, "error", err)
		}
	}()

	originalLevel := log.CurrentLevel()
	var buf bytes.Buffer
	restore := log.SetOutput(&buf) // rebuilds the handler, picking up LOG_FORMAT
	defer restore()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	if err := runRecovered(testFunc); err != nil {
		return buf.String(), nil, err
	}

	output := buf.String()
	var parsed []map[string]interface{}
	for i, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return output, parsed, fmt.Errorf("log line %d is not valid JSON: %w (%s)", i+1, err, line)
		}
		parsed = append(parsed, entry)
	}
	return output, parsed, nil
}

func runRecovered(testFunc func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during log capture: %v", r)
		}
	}()
	testFunc()
	return nil
}

// AssertLogContainsJSON fails the test unless some captured entry carries
// every key-value pair of expected.
func AssertLogContainsJSON(t *testing.T, logs []map[string]interface{}, expected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, expected) {
			return
		}
	}
	assert.Fail(t, "expected log entry not found",
		"expected entry containing %v in %d captured entries: %v", expected, len(logs), logs)
}

// AssertLogDoesNotContainJSON fails the test if any captured entry carries
// every key-value pair of unexpected.
func AssertLogDoesNotContainJSON(t *testing.T, logs []map[string]interface{}, unexpected map[string]interface{}) {
	t.Helper()
	for _, entry := range logs {
		if containsAll(entry, unexpected) {
			assert.Fail(t, "unexpected log entry found", "entry %v matches %v", entry, unexpected)
			return
		}
	}
}

// containsAll reports whether actual holds every pair of expected. Numbers
// decoded from JSON arrive as float64, so integer expectations are widened
// before comparing.
func containsAll(actual, expected map[string]interface{}) bool {
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			return false
		}
		if gotFloat, isFloat := got.(float64); isFloat {
			switch w := want.(type) {
			case float64:
				if gotFloat != w {
					return false
				}
			case int:
				if gotFloat != float64(w) {
					return false
				}
			case int64:
				if gotFloat != float64(w) {
					return false
				}
			default:
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}
