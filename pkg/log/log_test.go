package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		levelStr string
		want     Level
		wantErr  bool
	}{
		{name: "debug", levelStr: "DEBUG", want: LevelDebug, wantErr: false},
		{name: "lowercase debug", levelStr: "debug", want: LevelDebug, wantErr: false},
		{name: "mixed case debug", levelStr: "Debug", want: LevelDebug, wantErr: false},
		{name: "info", levelStr: "INFO", want: LevelInfo, wantErr: false},
		{name: "warn", levelStr: "WARN", want: LevelWarn, wantErr: false},
		{name: "warning", levelStr: "WARNING", want: LevelWarn, wantErr: false},
		{name: "error", levelStr: "ERROR", want: LevelError, wantErr: false},
		{name: "invalid", levelStr: "INVALID", want: LevelInfo, wantErr: true},
		{name: "empty", levelStr: "", want: LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.levelStr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseLevel() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseLevel() = %v, want %v", got, tt.want)
			}

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLogLevel) {
					t.Errorf("ParseLevel() error not wrapping ErrInvalidLogLevel: %v", err)
				}
				if !strings.Contains(err.Error(), tt.levelStr) {
					t.Errorf("ParseLevel() error message should contain the invalid level string '%s': %v", tt.levelStr, err)
				}
			}
		})
	}
}

func TestLevelStringRepresentation(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{level: LevelDebug, want: "DEBUG"},
		{level: LevelInfo, want: "INFO"},
		{level: LevelWarn, want: "WARN"},
		{level: LevelError, want: "ERROR"},
		{level: Level(99), want: "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("Level.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetAndCurrentLevel(t *testing.T) {
	originalLevel := CurrentLevel()
	defer SetLevel(originalLevel)

	levels := []Level{LevelDebug, LevelInfo, LevelWarn, LevelError}
	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			SetLevel(level)
			if CurrentLevel() != level {
				t.Errorf("CurrentLevel() = %v, want %v", CurrentLevel(), level)
			}
		})
	}
}

func TestLevelBasedFiltering(t *testing.T) {
	originalLevel := CurrentLevel()
	defer SetLevel(originalLevel)

	tests := []struct {
		name       string
		setLevel   Level
		wantOutput map[string]bool
	}{
		{
			name:       "debug level shows all logs",
			setLevel:   LevelDebug,
			wantOutput: map[string]bool{"Debug": true, "Info": true, "Warn": true, "Error": true},
		},
		{
			name:       "info level hides debug logs",
			setLevel:   LevelInfo,
			wantOutput: map[string]bool{"Debug": false, "Info": true, "Warn": true, "Error": true},
		},
		{
			name:       "warn level hides debug and info logs",
			setLevel:   LevelWarn,
			wantOutput: map[string]bool{"Debug": false, "Info": false, "Warn": true, "Error": true},
		},
		{
			name:       "error level shows only error logs",
			setLevel:   LevelError,
			wantOutput: map[string]bool{"Debug": false, "Info": false, "Warn": false, "Error": true},
		},
	}

	logFuncs := map[string]func(string, ...any){
		"Debug": Debug,
		"Info":  Info,
		"Warn":  Warn,
		"Error": Error,
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.setLevel)

			for funcName, logFunc := range logFuncs {
				var buf bytes.Buffer
				restore := SetOutput(&buf)
				logFunc("test message from " + funcName)
				restore()

				hasOutput := buf.Len() > 0
				if hasOutput != tt.wantOutput[funcName] {
					if tt.wantOutput[funcName] {
						t.Errorf("%s() didn't produce output when it should have at level %v", funcName, tt.setLevel)
					} else {
						t.Errorf("%s() produced output when it shouldn't have at level %v: %s", funcName, tt.setLevel, buf.String())
					}
				}
			}
		})
	}
}

func TestJSONOutputOmitsTimestamp(t *testing.T) {
	originalLevel := CurrentLevel()
	defer SetLevel(originalLevel)
	SetLevel(LevelInfo)

	var buf bytes.Buffer
	restore := SetOutput(&buf)
	Info("timestamp check", "key", "value")
	restore()

	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v\nline: %s", err, buf.String())
	}
	if _, ok := entry["time"]; ok {
		t.Errorf("JSON log line should not carry a time attribute: %s", buf.String())
	}
	if entry["msg"] != "timestamp check" {
		t.Errorf("msg = %v, want %q", entry["msg"], "timestamp check")
	}
	if entry["key"] != "value" {
		t.Errorf("key attribute = %v, want %q", entry["key"], "value")
	}
}

func TestSetOutputRestores(t *testing.T) {
	var first, second bytes.Buffer

	restoreFirst := SetOutput(&first)
	restoreSecond := SetOutput(&second)

	Info("goes to second")
	restoreSecond()
	Info("goes to first")
	restoreFirst()

	if !strings.Contains(second.String(), "goes to second") {
		t.Errorf("second buffer missing message: %s", second.String())
	}
	if !strings.Contains(first.String(), "goes to first") {
		t.Errorf("first buffer missing message: %s", first.String())
	}
	if strings.Contains(first.String(), "goes to second") {
		t.Errorf("first buffer captured output intended for second: %s", first.String())
	}
}
