package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/diarkit/errors"
)

func jsonLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "test-svc", buf)
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	line := strings.TrimSpace(buf.String())
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("expected one JSON log line, got %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("expected invalid level to fall back to info")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected info line to be written")
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "info").WithComponent("evaluation")
	l.Info("report ready", Fields("der", 0.25, FieldSpeakers, 3))

	m := decodeLine(t, &buf)
	if m["message"] != "report ready" {
		t.Errorf("expected message 'report ready', got %v", m["message"])
	}
	if m[FieldComponent] != "evaluation" {
		t.Errorf("expected component 'evaluation', got %v", m[FieldComponent])
	}
	if m[FieldService] != "test-svc" {
		t.Errorf("expected service 'test-svc', got %v", m[FieldService])
	}
	if m["der"] != 0.25 {
		t.Errorf("expected der 0.25, got %v", m["der"])
	}
	if m[FieldSpeakers] != float64(3) {
		t.Errorf("expected speakers 3, got %v", m[FieldSpeakers])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := jsonLogger(&buf, "warn")
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Error("expected warn line to be written")
	}
}

func TestWithContextRunID(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithRunID(context.Background(), "run-123")
	if got := RunIDFromContext(ctx); got != "run-123" {
		t.Fatalf("expected run-123, got %q", got)
	}
	jsonLogger(&buf, "info").WithContext(ctx).Info("hello")
	m := decodeLine(t, &buf)
	if m[FieldRunID] != "run-123" {
		t.Errorf("expected run_id 'run-123', got %v", m[FieldRunID])
	}

	l := jsonLogger(&buf, "info")
	if l.WithContext(context.Background()) != l {
		t.Error("expected the same logger when ctx has no run ID")
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	jsonLogger(&buf, "info").WithError(fmt.Errorf("boom")).Error("failed")
	m := decodeLine(t, &buf)
	if m[FieldError] != "boom" {
		t.Errorf("expected error 'boom', got %v", m[FieldError])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "diarkit", &buf)
	l.Info("merged", Fields(FieldSegments, 4))
	out := buf.String()
	if !strings.Contains(out, "[INF]") {
		t.Errorf("expected level tag [INF], got %q", out)
	}
	if !strings.Contains(out, "segments:4") {
		t.Errorf("expected field segments:4, got %q", out)
	}
	if strings.Contains(out, "service:") {
		t.Errorf("expected service field excluded from console output, got %q", out)
	}
}

func TestFileOutputRotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "diarkit.log")
	cfg := &Config{Level: "info", Format: "json", Output: path}
	cfg.ApplyDefaults()
	if !cfg.IsFile() {
		t.Fatal("expected path output to be treated as a file")
	}
	New(cfg, "diarkit").Info("to file")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
	if !strings.Contains(string(data), "to file") {
		t.Errorf("expected message in file, got %q", data)
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().WithComponent("x").Info("nothing")
}

func TestGlobalLogger(t *testing.T) {
	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	var buf bytes.Buffer
	l := jsonLogger(&buf, "debug")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
	Get("unregistered").Info("via global")
	if !strings.Contains(buf.String(), "via global") {
		t.Errorf("expected unregistered component to log through the global logger, got %q", buf.String())
	}
	SetGlobalLogger(nil)
}

func TestInit(t *testing.T) {
	cfg := Config{Level: "info", Format: "json"}
	Init(&cfg)
	if cfg.Output != OutputStderr {
		t.Errorf("expected defaults applied by Init, got output %q", cfg.Output)
	}
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
	SetGlobalLogger(nil)
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != OutputStderr {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if cfg.MaxSize != 100 || cfg.MaxBackups != 3 || cfg.MaxAge != 28 {
		t.Errorf("expected rotation defaults 100/3/28, got %d/%d/%d", cfg.MaxSize, cfg.MaxBackups, cfg.MaxAge)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
	if cfg.IsFile() {
		t.Error("expected stderr not to be a file")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"valid pretty", Config{Level: "trace", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
		{"negative rotation", Config{Level: "info", Format: "json", MaxAge: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil {
				if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != apperrors.ErrCodeInvalidConfig {
					t.Errorf("expected INVALID_CONFIG, got %v", err)
				}
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := NewDefault("custom-component")
	Register("my-component", l)

	if got := Get("my-component"); got != l {
		t.Error("expected Get to return the registered logger")
	}
	if Get("unregistered-component") == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "merge", "kept", 42}, map[string]interface{}{"op": "merge", "kept": 42}},
		{"odd number of args", []interface{}{"op", "merge", "trailing"}, map[string]interface{}{"op": "merge"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	fields := ErrorFields("classify", fmt.Errorf("something broke"))
	if fields[FieldOperation] != "classify" || fields[FieldError] != "something broke" {
		t.Errorf("unexpected error fields %v", fields)
	}

	fields = DurationFields("evaluate", 150*time.Millisecond)
	if fields[FieldDuration] != int64(150) {
		t.Errorf("expected duration 150, got %v", fields[FieldDuration])
	}
}

func TestMerge(t *testing.T) {
	got := Merge(Fields("a", 1, "b", 2), nil, Fields("b", 3))
	if got["a"] != 1 || got["b"] != 3 {
		t.Errorf("expected later keys to win, got %v", got)
	}
}
