package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestResolveLevelOrder(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	if got := ResolveLevel("", ""); got != "warn" {
		t.Fatalf("fallback = %q", got)
	}
	if got := ResolveLevel("", "info"); got != "info" {
		t.Fatalf("config level = %q", got)
	}
	t.Setenv(EnvLogLevel, "error")
	if got := ResolveLevel("", "info"); got != "error" {
		t.Fatalf("env should beat config, got %q", got)
	}
	if got := ResolveLevel("trace", "info"); got != "trace" {
		t.Fatalf("flag should win, got %q", got)
	}
}

func TestNewLoggerWritesNamedLines(t *testing.T) {
	t.Setenv(EnvLogJSON, "")
	var buf bytes.Buffer
	logger := NewLogger("alphasign", "info", &buf)
	logger.Debug("hidden")
	logger.Info("visible", "label", "A")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "alphasign: visible") || !strings.Contains(out, "label=A") {
		t.Fatalf("unexpected output %q", out)
	}
}
