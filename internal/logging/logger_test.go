package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPrettyHandlerLine(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger = NewComponentLogger(logger, "detector")
	logger.Info("pass complete",
		Int("candidates", 4),
		Float64("duration_seconds", 1803.2),
		String("source", "tape 12.mkv"),
	)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, " INFO detector: pass complete") {
		t.Errorf("line missing component prefix: %q", line)
	}
	if !strings.Contains(line, "candidates=4") {
		t.Errorf("line missing int attr: %q", line)
	}
	if !strings.Contains(line, "duration_seconds=1803.2") {
		t.Errorf("line missing float attr: %q", line)
	}
	if !strings.Contains(line, `source="tape 12.mkv"`) {
		t.Errorf("value with spaces should be quoted: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Errorf("component should render as prefix, not attr: %q", line)
	}
}

func TestPrettyHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	lvl.Set(slog.LevelWarn)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.Info("suppressed")
	logger.Warn("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Errorf("info record should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "emitted") {
		t.Errorf("warn record missing: %q", out)
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false))

	logger.WithGroup("verify").Info("done", Int("confirmed", 3))

	if got := buf.String(); !strings.Contains(got, "verify.confirmed=3") {
		t.Errorf("group prefix missing: %q", got)
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value slog.Value
		want  string
	}{
		{"plain string", slog.StringValue("ok"), "ok"},
		{"empty string", slog.StringValue(""), `""`},
		{"spaced string", slog.StringValue("two words"), `"two words"`},
		{"bool", slog.BoolValue(true), "true"},
		{"float", slog.Float64Value(42.5), "42.5"},
		{"duration", slog.DurationValue(1500 * time.Millisecond), "1.5s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestNewComponentLoggerNilBase(t *testing.T) {
	logger := NewComponentLogger(nil, "catalog")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("must not panic")
}
