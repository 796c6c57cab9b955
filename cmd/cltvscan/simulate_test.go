package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cltvscan/cltvscan/internal/config"
	"github.com/cltvscan/cltvscan/internal/report"
)

// runCommand executes the CLI with the given arguments.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// TestBuildConfig tests flag and scenario file precedence.
func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults without flags", func(t *testing.T) {
		t.Parallel()

		cmd := NewSimulateCmd()
		if err := cmd.ParseFlags(nil); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.NodeCount != config.DefaultNodeCount {
			t.Errorf("expected default node count, got %d", cfg.NodeCount)
		}
		if !cfg.SaveToDB {
			t.Error("expected persistence enabled by default")
		}
	})

	t.Run("flags override defaults", func(t *testing.T) {
		t.Parallel()

		cmd := NewSimulateCmd()
		if err := cmd.ParseFlags([]string{"--nodes", "12", "--topology", "ring", "--seed", "9", "--no-db"}); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.NodeCount != 12 || cfg.Topology != config.TopologyRing || cfg.Seed != 9 {
			t.Errorf("flags not applied: %+v", cfg)
		}
		if cfg.SaveToDB {
			t.Error("expected --no-db to disable persistence")
		}
	})

	t.Run("flags beat scenario file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".cltvscan")
		scenario := "simulation:\n  nodes: 30\n  observers: 4\n"
		if err := os.WriteFile(path, []byte(scenario), 0600); err != nil {
			t.Fatalf("failed to write scenario: %v", err)
		}

		cmd := NewSimulateCmd()
		if err := cmd.ParseFlags([]string{"-c", path, "--nodes", "15"}); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.NodeCount != 15 {
			t.Errorf("expected flag to beat scenario, got %d nodes", cfg.NodeCount)
		}
		if cfg.ObserverCount != 4 {
			t.Errorf("expected scenario observers 4, got %d", cfg.ObserverCount)
		}
	})

	t.Run("missing explicit scenario errors", func(t *testing.T) {
		t.Parallel()

		cmd := NewSimulateCmd()
		if err := cmd.ParseFlags([]string{"-c", filepath.Join(t.TempDir(), "nope")}); err != nil {
			t.Fatalf("parse failed: %v", err)
		}

		if _, err := buildConfig(cmd); err == nil {
			t.Fatal("expected error for missing scenario file")
		}
	})
}

// TestSimulateCmd tests a full simulation run through the CLI.
func TestSimulateCmd(t *testing.T) {
	t.Parallel()

	t.Run("writes text report to file", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "report.txt")
		_, err := runCommand(t, "simulate",
			"--nodes", "10",
			"--payments", "30",
			"--observers", "2",
			"--topology", "ring",
			"--seed", "5",
			"--no-db",
			"-o", reportPath,
		)
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}

		content, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.Contains(string(content), "CLTV Surveillance Report") {
			t.Error("expected report header")
		}
		if !strings.Contains(string(content), "10 nodes") {
			t.Error("expected network summary in report")
		}
	})

	t.Run("json report round trips", func(t *testing.T) {
		t.Parallel()

		reportPath := filepath.Join(t.TempDir(), "report.json")
		_, err := runCommand(t, "simulate",
			"--nodes", "10",
			"--payments", "30",
			"--topology", "ring",
			"--seed", "5",
			"--no-db",
			"--json",
			"-o", reportPath,
		)
		if err != nil {
			t.Fatalf("simulate failed: %v", err)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		var rep report.Report
		if err := json.Unmarshal(data, &rep); err != nil {
			t.Fatalf("invalid JSON report: %v", err)
		}
		if rep.NodeCount != 10 {
			t.Errorf("expected 10 nodes in report, got %d", rep.NodeCount)
		}
		if rep.Observations == 0 {
			t.Error("expected at least one observation with 30 payments on 10 nodes")
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		_, err := runCommand(t, "simulate", "--json", "--markdown", "--no-db")
		if err == nil {
			t.Fatal("expected error for conflicting formats")
		}
	})

	t.Run("rejects unknown topology", func(t *testing.T) {
		t.Parallel()

		_, err := runCommand(t, "simulate", "--topology", "mesh", "--no-db")
		if err == nil {
			t.Fatal("expected error for unknown topology")
		}
	})
}
