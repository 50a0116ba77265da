package config_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vbrplot/internal/config"
	"vbrplot/internal/failures"
)

func TestLoadDefaultConfigUsesEnvFFprobe(t *testing.T) {
	t.Setenv("VBRPLOT_FFPROBE", "/opt/ffmpeg/bin/ffprobe")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	wantPath := filepath.Join(tempHome, ".config", "vbrplot", "config.toml")
	if resolved != wantPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, wantPath)
	}
	if cfg.Probe.Binary != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("expected ffprobe from env, got %q", cfg.Probe.Binary)
	}
	if cfg.Probe.Stream != "v:0" {
		t.Fatalf("unexpected default stream: %q", cfg.Probe.Stream)
	}
	if cfg.Analysis.BucketSeconds != 1 {
		t.Fatalf("unexpected bucket default: %v", cfg.Analysis.BucketSeconds)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.HTML.AssetsHost != "" {
		t.Fatalf("expected self-contained html by default, got assets host %q", cfg.HTML.AssetsHost)
	}
}

func TestLoadWithoutEnvFallsBackToPathLookup(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("VBRPLOT_FFPROBE", "")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFprobeBinary() != "ffprobe" {
		t.Fatalf("expected ffprobe default, got %q", cfg.FFprobeBinary())
	}
}

func TestLoadCustomPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("VBRPLOT_FFPROBE", "/from/env")
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[probe]
binary = "/usr/local/bin/ffprobe"
stream = "v:1"

[analysis]
bucket_seconds = 0.5

[plot]
title = "  Encode check  "

[html]
assets_host = "https://assets.example.test/echarts"

[logging]
format = "JSON"
level = "Warning"
file = "~/logs/vbrplot.jsonl"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, path)
	}
	if cfg.Probe.Binary != "/usr/local/bin/ffprobe" {
		t.Fatalf("config file binary should win over env, got %q", cfg.Probe.Binary)
	}
	if cfg.Probe.Stream != "v:1" {
		t.Fatalf("unexpected stream: %q", cfg.Probe.Stream)
	}
	if cfg.Analysis.BucketSeconds != 0.5 {
		t.Fatalf("unexpected bucket: %v", cfg.Analysis.BucketSeconds)
	}
	if cfg.Plot.Title != "Encode check" {
		t.Fatalf("expected trimmed title, got %q", cfg.Plot.Title)
	}
	if cfg.Plot.WidthInches != config.Default().Plot.WidthInches {
		t.Fatalf("expected default plot width, got %v", cfg.Plot.WidthInches)
	}
	if cfg.HTML.AssetsHost != "https://assets.example.test/echarts/" {
		t.Fatalf("unexpected assets host: %q", cfg.HTML.AssetsHost)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Logging.File != filepath.Join(home, "logs", "vbrplot.jsonl") {
		t.Fatalf("expected expanded log file, got %q", cfg.Logging.File)
	}
}

func TestLoadMissingExplicitPathIsConfigurationError(t *testing.T) {
	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nbucket = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown key, got %v", err)
	}
}

func TestLoadRejectsNonPositiveBucket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.toml")
	if err := os.WriteFile(path, []byte("[analysis]\nbucket_seconds = 0.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, _, _, err := config.Load(path)
	if !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if failures.ExitCode(err) != failures.ExitConfiguration {
		t.Fatalf("unexpected exit code %d", failures.ExitCode(err))
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "bucket_seconds") {
		t.Fatalf("sample config missing bucket_seconds: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Analysis.BucketSeconds != 1 {
		t.Fatalf("unexpected sample bucket: %v", cfg.Analysis.BucketSeconds)
	}

	loaded, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists || loaded.Probe.Stream != "v:0" {
		t.Fatalf("unexpected sample load result: exists=%v stream=%q", exists, loaded.Probe.Stream)
	}
}

func TestSampleConfigDefersToEnvFFprobe(t *testing.T) {
	t.Setenv("VBRPLOT_FFPROBE", "/opt/ffmpeg/bin/ffprobe")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if cfg.Probe.Binary != "/opt/ffmpeg/bin/ffprobe" {
		t.Fatalf("sample config should leave ffprobe to the env, got %q", cfg.Probe.Binary)
	}
	if cfg.HTML.AssetsHost != "" {
		t.Fatalf("sample config should keep html self-contained, got %q", cfg.HTML.AssetsHost)
	}
}

func TestExpandPathHandlesTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := config.ExpandPath("~/plots/out.png")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "plots", "out.png") {
		t.Fatalf("unexpected expansion: %q", got)
	}
	if got, _ := config.ExpandPath(""); got != "" {
		t.Fatalf("expected empty path to stay empty, got %q", got)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}

	for _, width := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		cfg = config.Default()
		cfg.Analysis.BucketSeconds = width
		if err := cfg.Validate(); err == nil {
			t.Fatalf("expected error for bucket width %v", width)
		}
	}

	cfg = config.Default()
	cfg.Plot.HeightInches = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero plot height")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}

	cfg = config.Default()
	cfg.Logging.Level = "trace"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}
}
