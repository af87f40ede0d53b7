package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestVersionCmd verifies the version command output shape.
func TestVersionCmd(t *testing.T) {
	t.Parallel()

	cmd := NewVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"sitemirror version", "commit:", "built:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

// TestGetVersionFallback verifies the fallback when ldflags are unset.
func TestGetVersionFallback(t *testing.T) {
	t.Parallel()

	if got := getVersion(); got == "" {
		t.Error("expected non-empty version")
	}
}
