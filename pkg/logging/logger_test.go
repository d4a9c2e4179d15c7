package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != LevelInfo {
		t.Errorf("Expected default level to be Info, got %s", cfg.Level)
	}
	if cfg.Pretty != false {
		t.Error("Expected default pretty to be false")
	}
}

func TestSetup_WritesToOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelInfo, Output: buf})

	logger.Info().Str("url", "https://example.com/feed").Msg("walk started")

	out := buf.String()
	if !strings.Contains(out, "walk started") {
		t.Errorf("output missing message: %s", out)
	}
	if !strings.Contains(out, "https://example.com/feed") {
		t.Errorf("output missing field: %s", out)
	}
}

func TestSetup_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := Setup(Config{Level: LevelWarn, Output: buf})

	logger.Info().Msg("should be filtered")
	logger.Warn().Msg("should appear")

	out := buf.String()
	if strings.Contains(out, "should be filtered") {
		t.Errorf("info message leaked past warn level: %s", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Errorf("warn message missing: %s", out)
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level LogLevel
		want  zerolog.Level
	}{
		{name: "debug", level: LevelDebug, want: zerolog.DebugLevel},
		{name: "info", level: LevelInfo, want: zerolog.InfoLevel},
		{name: "warn", level: LevelWarn, want: zerolog.WarnLevel},
		{name: "warning alias", level: "warning", want: zerolog.WarnLevel},
		{name: "error", level: LevelError, want: zerolog.ErrorLevel},
		{name: "uppercase", level: "DEBUG", want: zerolog.DebugLevel},
		{name: "unknown defaults to info", level: "verbose", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseLevel(tt.level); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestNewLogger_ComponentField(t *testing.T) {
	buf := &bytes.Buffer{}
	Setup(Config{Level: LevelDebug, Output: buf})

	logger := NewLogger("walker")
	logger.Info().Msg("hello")

	if !strings.Contains(buf.String(), `"component":"walker"`) {
		t.Errorf("output missing component field: %s", buf.String())
	}
}
