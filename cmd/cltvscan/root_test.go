package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestNewRootCmd tests root command construction.
func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	if cmd.Use != "cltvscan" {
		t.Errorf("expected use cltvscan, got %s", cmd.Use)
	}

	want := []string{"simulate", "analyze", "init", "version"}
	for _, name := range want {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand %s", name)
		}
	}

	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected persistent verbose flag")
	}
}

// TestRootHelp tests that help output renders.
func TestRootHelp(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "surveillance") {
		t.Errorf("unexpected help output: %s", out.String())
	}
}
