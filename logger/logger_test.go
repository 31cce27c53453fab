package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newBufferLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(&Config{Level: level, Format: "json", Writer: &buf}, "test-svc")
	return l, &buf
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

func TestNew_JSONFields(t *testing.T) {
	l, buf := newBufferLogger("debug")
	l.Debug("dispatching", Fields(FieldMethod, "GET", FieldStatus, 200))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "dispatching" {
		t.Errorf("expected message 'dispatching', got %v", entry["message"])
	}
	if entry[FieldMethod] != "GET" {
		t.Errorf("expected method GET, got %v", entry[FieldMethod])
	}
	if entry["service"] != "test-svc" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
}

func TestNew_LevelFilters(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered at info level, got %q", buf.String())
	}
	l.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info line, got %q", buf.String())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
	if l.GetLogger().GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %s", l.GetLogger().GetLevel())
	}
}

func TestEnabled(t *testing.T) {
	l, _ := newBufferLogger("info")
	if l.Enabled(zerolog.DebugLevel) {
		t.Error("debug should be disabled at info level")
	}
	if !l.Enabled(zerolog.ErrorLevel) {
		t.Error("error should be enabled at info level")
	}
	if Nop().Enabled(zerolog.ErrorLevel) {
		t.Error("nop logger should not be enabled")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if !l.Enabled(zerolog.DebugLevel) {
		t.Error("expected LOG_LEVEL=debug to enable debug")
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.WithComponent("registry").Info("cancelled")
	if !strings.Contains(buf.String(), `"component":"registry"`) {
		t.Errorf("expected component field, got %q", buf.String())
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.WithFields(map[string]interface{}{FieldTag: "Home"}).WithError(errors.New("boom")).Warn("failed")
	out := buf.String()
	if !strings.Contains(out, `"tag":"Home"`) || !strings.Contains(out, `"error":"boom"`) {
		t.Errorf("expected tag and error fields, got %q", out)
	}
}

func TestNopDiscards(t *testing.T) {
	// Must not panic on nil events.
	Nop().Debug("x", Fields("a", 1))
	Nop().Error("x")
}

func TestGlobalLogger(t *testing.T) {
	SetGlobalLogger(nil)
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestRegistry(t *testing.T) {
	l := NewDefault("named")
	Register("transport", l)
	if Get("transport") != l {
		t.Error("expected registered logger")
	}
	if Get("unknown") == nil {
		t.Error("expected fallback logger for unknown name")
	}
	if _, ok := Lookup("unknown"); ok {
		t.Error("fallback must not be published")
	}
	Register("transport", nil)
	if _, ok := Lookup("transport"); ok {
		t.Error("expected nil to remove the entry")
	}
}

func TestAtLevel(t *testing.T) {
	l, buf := newBufferLogger("info")
	l.AtLevel(zerolog.DebugLevel).Debug("traced")
	if !strings.Contains(buf.String(), "traced") {
		t.Errorf("expected debug line through AtLevel, got %q", buf.String())
	}
	l.Debug("hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("original logger level must be unchanged")
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Errorf("expected 2 fields, got %d: %v", len(m), m)
	}
	ef := ErrorFields("decode", errors.New("bad"))
	if ef[FieldError] != "bad" {
		t.Errorf("expected error field, got %v", ef)
	}
	df := MergeWithDuration(nil, 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
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
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
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
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
