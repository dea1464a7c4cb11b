package logger

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_validConfigs(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "defaults", cfg: Config{}},
		{name: "console debug", cfg: Config{Level: "debug", Format: "console"}},
		{name: "json warn", cfg: Config{Level: "warn", Format: "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New(%+v) error = %v, want nil", tt.cfg, err)
			}
			if log == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestNew_invalidConfigs(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("New(level=loud) error = nil, want error")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("New(format=xml) error = nil, want error")
	}
}

func TestNamedAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core)).Named("weather-client")

	log.Warn("fetch failed",
		String("airport", "KJFK"),
		Int("status_code", 404),
		Error(errors.New("boom")))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.LoggerName != "weather-client" {
		t.Errorf("LoggerName = %q, want %q", entry.LoggerName, "weather-client")
	}
	fields := entry.ContextMap()
	if fields["airport"] != "KJFK" {
		t.Errorf("airport = %v, want KJFK", fields["airport"])
	}
	if fields["status_code"] != int64(404) {
		t.Errorf("status_code = %v, want 404", fields["status_code"])
	}
	if fields["error"] != "boom" {
		t.Errorf("error = %v, want boom", fields["error"])
	}
}
