package main

import (
	"fmt"
	"io"
	"strings"
	"testing"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/deps"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("FFprobe", statusError, "Not found", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "FFprobe:", "[ERROR] Not found")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("FFprobe", statusOK, "Ready", true)
	if !strings.HasPrefix(got, ansiGreen) {
		t.Fatalf("expected green prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestDependencyLines(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFprobe", Available: true, Path: "/usr/bin/ffprobe", Version: "ffprobe version 7.1"},
		{Name: "Viewer", Available: false, Optional: true, Detail: "no browser"},
		{Name: "Other", Available: false},
	}
	lines, missing := dependencyLines(statuses, false)
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "[OK] Ready (/usr/bin/ffprobe)") {
		t.Fatalf("unexpected ready line %q", lines[0])
	}
	if !strings.Contains(lines[1], "[INFO] ffprobe version 7.1") {
		t.Fatalf("unexpected version line %q", lines[1])
	}
	if !strings.Contains(lines[2], "[WARN] no browser") {
		t.Fatalf("unexpected optional line %q", lines[2])
	}
	if !strings.Contains(lines[3], "[ERROR] not available") {
		t.Fatalf("unexpected missing line %q", lines[3])
	}
	if len(missing) != 1 || missing[0] != "Other" {
		t.Fatalf("unexpected missing list %v", missing)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatal("expected non-file writer to disable colour")
	}
}

func TestStatsTable(t *testing.T) {
	target := 900.0
	stats := bitrate.Stats{Min: 500, Max: 1500, Average: 1000, Duration: 3, TotalBytes: 375000, Buckets: 3, Target: &target}
	got := statsTable("clip.mkv", 1, stats)
	for _, want := range []string{"Metric", "Min bitrate", "1,500.00 kbps", "Target bitrate", "╭"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected table to contain %q:\n%s", want, got)
		}
	}
}
