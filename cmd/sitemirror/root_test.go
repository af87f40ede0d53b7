package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd verifies command wiring and global flags.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if cmd.Use != "sitemirror" {
		t.Errorf("expected use sitemirror, got %q", cmd.Use)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"mirror", "discover", "version"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %q, got %v", want, names)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent verbose flag")
	}
}

// TestRootHelp verifies help output renders.
func TestRootHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "offline") {
		t.Errorf("expected help text, got:\n%s", buf.String())
	}
}
