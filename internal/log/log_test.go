package log

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"
)

func TestSetLevel(t *testing.T) {
	saved := GetLevel()
	defer SetLevel(saved)

	SetLevel(slog.LevelDebug)
	if GetLevel() != slog.LevelDebug {
		t.Errorf("expected LevelDebug, got %v", GetLevel())
	}
	SetLevel(slog.LevelError)
	if GetLevel() != slog.LevelError {
		t.Errorf("expected LevelError, got %v", GetLevel())
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	saved := GetLevel()
	defer SetLevel(saved)
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(slog.LevelInfo)
	Debug("hidden", "path", "a.yaml")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}

	Warn("skipped descriptor", "path", "b.yaml")
	if !strings.Contains(buf.String(), "skipped descriptor") || !strings.Contains(buf.String(), "path=b.yaml") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	saved := GetLevel()
	defer SetLevel(saved)
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetLevel(slog.LevelDebug)
	Debug("visible", "n", 3)
	if !strings.Contains(buf.String(), "level=DEBUG") {
		t.Fatalf("expected debug line, got %q", buf.String())
	}
}
