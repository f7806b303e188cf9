package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/user/slideshow/pkg/ports"
)

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelWarn, &buf)

	log.Debug("debug %d", 1)
	log.Info("info %d", 2)
	log.Warn("warn %d", 3)
	log.Error("error %d", 4)

	out := buf.String()
	if strings.Contains(out, "debug 1") || strings.Contains(out, "info 2") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn 3") || !strings.Contains(out, "error 4") {
		t.Errorf("expected warn and error lines, got %q", out)
	}
}

func TestConsoleLogger_QuietWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelQuiet, &buf)

	log.Error("boom")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestConsoleLogger_WithComponent(t *testing.T) {
	var buf bytes.Buffer
	log := NewWriter(ports.LevelDebug, &buf).WithComponent("composer").WithComponent("engine")

	log.Info("Staged %s", "image0.jpg")

	want := "[composer/engine] Staged image0.jpg\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestConsoleLogger_Level(t *testing.T) {
	if got := NewWriter(ports.LevelError, &bytes.Buffer{}).Level(); got != ports.LevelError {
		t.Errorf("expected %v, got %v", ports.LevelError, got)
	}
}

func TestNoopLogger(t *testing.T) {
	log := NewNoop()
	if log.WithComponent("x") != log {
		t.Error("expected WithComponent to return the same logger")
	}
	log.Error("ignored %s", "message")
}
