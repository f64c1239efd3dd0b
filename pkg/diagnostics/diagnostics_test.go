package diagnostics

import (
	"bytes"
	"strings"
	"testing"
)

func TestInfoIsWritten(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "info")
	s.Info("class loaded", "class", "Example")
	out := buf.String()
	if !strings.Contains(out, "class loaded") || !strings.Contains(out, "Example") {
		t.Errorf("output = %q, missing message or field", out)
	}
}

func TestTraceSuppressedAtInfoLevel(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "info")
	s.Trace("verbose detail")
	if buf.Len() != 0 {
		t.Errorf("trace message leaked at info level: %q", buf.String())
	}
}

func TestUnrecognizedLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	s := New(&buf, "not-a-level")
	s.Info("still logs")
	if !strings.Contains(buf.String(), "still logs") {
		t.Error("expected fallback to info level to still emit Info messages")
	}
}
