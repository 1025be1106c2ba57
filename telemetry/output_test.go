package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Nil receiver is a no-op everywhere
	if err := om.WriteFlow(FlowStats{}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer om.Close()

	if err := om.WriteFlow(FlowStats{WindowEnd: 60, Steps: 120, Respawns: 7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := om.WriteFlow(FlowStats{WindowEnd: 120, Steps: 118, Respawns: 9}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "flow.csv"))
	if err != nil {
		t.Fatalf("reading flow.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 records, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "window_end") {
		t.Errorf("expected header once, got %q", lines[0])
	}
	if strings.Contains(lines[1], "window_end") {
		t.Error("expected no repeated header in records")
	}
}

func TestOutputManagerWritesPerfCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := om.WritePerf(PerfStats{TicksPerSecond: 60}, 300); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if !strings.Contains(string(data), "ticks_per_sec") {
		t.Error("expected perf header in output")
	}
}
