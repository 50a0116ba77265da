package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vbrplot/internal/export"
	"vbrplot/internal/failures"
	"vbrplot/internal/testsupport"
)

type cliTestEnv struct {
	baseDir string
	video   string
	ffprobe string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	testsupport.RequireShell(t)

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("VBRPLOT_FFPROBE", "")

	sizes := make([]int, 10)
	for i := range sizes {
		sizes[i] = 1000
	}
	env := &cliTestEnv{
		baseDir: base,
		video:   filepath.Join(base, "clip.mp4"),
		ffprobe: testsupport.StubFFprobe(t, filepath.Join(base, "bin"), testsupport.PacketPayload(0.5, sizes...)),
	}
	testsupport.WriteVideo(t, env.video, 4096)
	return env
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.baseDir, name)
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader("\n"))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireMissing(t *testing.T, paths ...string) {
	t.Helper()
	for _, path := range paths {
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Fatalf("expected %s to be absent, stat err=%v", path, err)
		}
	}
}

func TestAnalyzeWritesExportsAndStats(t *testing.T) {
	env := setupCLITestEnv(t)
	csvPath := env.path("series.csv")
	jsonPath := env.path("series.json")
	statsPath := env.path("stats.txt")

	out, _, err := runCLI(t,
		"--ffprobe", env.ffprobe,
		"--export-csv", csvPath,
		"--export-json", jsonPath,
		"--stats-file", statsPath,
		"--stats",
		"--target-bitrate", "20",
		env.video,
	)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "Bitrate statistics")
	requireContains(t, out, "16.00 kbps")
	requireContains(t, out, "Target bitrate")

	series, err := export.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if series.Len() != 5 {
		t.Fatalf("expected 5 buckets, got %d", series.Len())
	}
	total := 0.0
	for _, b := range series.Buckets {
		total += series.Bytes(b)
	}
	if total != 10000 {
		t.Fatalf("expected 10000 bytes across buckets, got %v", total)
	}

	doc, err := export.ReadJSON(jsonPath)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.Media == nil || doc.Media.Codec != "h264" || doc.Media.Width != 1920 {
		t.Fatalf("unexpected media: %+v", doc.Media)
	}

	stats, err := os.ReadFile(statsPath)
	if err != nil {
		t.Fatalf("read stats: %v", err)
	}
	requireContains(t, string(stats), "Average bitrate: 16.00 kbps")
}

func TestAnalyzeUsesConfigFileAndBucketFlagOverride(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := testsupport.NewConfig(t,
		testsupport.WithBucketSeconds(2),
		testsupport.WithStubFFprobe(testsupport.PacketPayload(0.5, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000, 1000)),
	)
	configPath := testsupport.WriteConfig(t, env.path("conf"), cfg)
	csvPath := env.path("series.csv")

	if _, _, err := runCLI(t, "--config", configPath, "--export-csv", csvPath, env.video); err != nil {
		t.Fatalf("analyze with config: %v", err)
	}
	series, err := export.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 buckets of 2s, got %d", series.Len())
	}

	if _, _, err := runCLI(t, "--config", configPath, "--bucket", "0.5", "--export-csv", csvPath, env.video); err != nil {
		t.Fatalf("analyze with flag: %v", err)
	}
	series, err = export.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if series.Len() != 10 {
		t.Fatalf("expected 10 buckets of 0.5s, got %d", series.Len())
	}
}

func TestAnalyzeRejectsNonPositiveBucket(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, value := range []string{"--bucket=0", "--bucket=-1"} {
		csvPath := env.path("series.csv")
		jsonPath := env.path("series.json")
		_, _, err := runCLI(t, "--ffprobe", env.ffprobe, value, "--export-csv", csvPath, "--export-json", jsonPath, env.video)
		if !errors.Is(err, failures.ErrConfiguration) {
			t.Fatalf("%s: expected configuration error, got %v", value, err)
		}
		if code := failures.ExitCode(err); code != failures.ExitConfiguration {
			t.Fatalf("%s: unexpected exit code %d", value, code)
		}
		requireMissing(t, csvPath, jsonPath)
	}
}

func TestAnalyzeRejectsUnsupportedPlotFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	csvPath := env.path("series.csv")
	_, _, err := runCLI(t, "--ffprobe", env.ffprobe, "--save-plot", env.path("plot.gif"), "--export-csv", csvPath, env.video)
	if !errors.Is(err, failures.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
	if failures.ExitCode(err) != failures.ExitConfiguration {
		t.Fatalf("unexpected exit code %d", failures.ExitCode(err))
	}
	requireMissing(t, csvPath)
}

func TestAnalyzeMissingVideoIsExtractionError(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, "--ffprobe", env.ffprobe, "--export-csv", env.path("series.csv"), env.path("missing.mp4"))
	if !errors.Is(err, failures.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if failures.ExitCode(err) != failures.ExitExtraction {
		t.Fatalf("unexpected exit code %d", failures.ExitCode(err))
	}
}

func TestAnalyzeReportsFFprobeFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	failing := testsupport.FailingFFprobe(t, env.path("badbin"), "moov atom not found")
	_, _, err := runCLI(t, "--ffprobe", failing, "--export-csv", env.path("series.csv"), env.video)
	if !errors.Is(err, failures.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	requireContains(t, err.Error(), "moov atom not found")
}

func TestAnalyzeMissingFFprobeBinary(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, "--ffprobe", "vbrplot-no-such-ffprobe", "--export-csv", env.path("series.csv"), env.video)
	if failures.ExitCode(err) != failures.ExitExtraction {
		t.Fatalf("expected extraction exit code, got %v", err)
	}
	requireContains(t, err.Error(), "VBRPLOT_FFPROBE")
}

func TestAnalyzeRequiresVideoArgument(t *testing.T) {
	setupCLITestEnv(t)
	_, stderr, err := runCLI(t)
	if failures.ExitCode(err) != failures.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %v", err)
	}
	requireContains(t, stderr, "Usage:")
}

func TestAnalyzeASCIIChart(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, "--ffprobe", env.ffprobe, "--ascii", "--title", "Clip", env.video)
	if err != nil {
		t.Fatalf("analyze --ascii: %v", err)
	}
	requireContains(t, out, "Clip, kbps per 1s bucket")
}

func TestAnalyzeLogsCarryCorrelationID(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, err := runCLI(t, "--log-format", "json", "--log-level", "info",
		"--ffprobe", env.ffprobe, "--export-csv", env.path("series.csv"), env.video)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, stderr, `"correlation_id"`)
	requireContains(t, stderr, `"component":"analysis"`)
}

func TestRenderCommandReplaysJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	jsonPath := env.path("series.json")
	if _, _, err := runCLI(t, "--ffprobe", env.ffprobe, "--export-json", jsonPath, env.video); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	csvPath := env.path("replayed.csv")
	htmlPath := env.path("chart.html")
	out, _, err := runCLI(t, "render", "--export-csv", csvPath, "--html", htmlPath, "--stats", jsonPath)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "Max bitrate")
	series, err := export.ReadCSV(csvPath)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if series.Len() != 5 {
		t.Fatalf("expected 5 buckets, got %d", series.Len())
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Fatalf("expected html output: %v", err)
	}
}

func TestRenderCommandBucketFlagSetsCSVWidth(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.path("single.csv")
	if err := os.WriteFile(source, []byte("time_seconds,bitrate_kbps\n0,32\n"), 0o644); err != nil {
		t.Fatalf("write series: %v", err)
	}

	jsonPath := env.path("single.json")
	if _, _, err := runCLI(t, "render", "--bucket", "0.5", "--export-json", jsonPath, source); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := export.ReadJSON(jsonPath)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if doc.BucketSeconds != 0.5 {
		t.Fatalf("expected bucket width 0.5, got %v", doc.BucketSeconds)
	}
	if doc.Stats == nil || doc.Stats.TotalBytes != 2000 {
		t.Fatalf("expected 2000 bytes from a 0.5s bucket at 32 kbps, got %+v", doc.Stats)
	}
}

func TestRenderCommandRejectsUnknownSeriesFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	source := env.path("series.txt")
	if err := os.WriteFile(source, []byte("0,1\n"), 0o644); err != nil {
		t.Fatalf("write series: %v", err)
	}
	_, _, err := runCLI(t, "render", "--export-csv", env.path("out.csv"), source)
	if !errors.Is(err, failures.ErrUnsupportedFormat) {
		t.Fatalf("expected unsupported format, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "defaults were used")

	target := env.path("config.toml")
	out, _, err = runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, _, err = runCLI(t, "config", "init", "--path", target)
	if !errors.Is(err, failures.ErrConfiguration) {
		t.Fatalf("expected refusal to overwrite, got %v", err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate sample: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
}

func TestConfigValidateReportsInvalidFile(t *testing.T) {
	env := setupCLITestEnv(t)
	configPath := testsupport.WriteConfigFile(t, env.path("conf"), "[logging]\nformat = \"xml\"\n")
	_, _, err := runCLI(t, "--config", configPath, "config", "validate")
	if failures.ExitCode(err) != failures.ExitConfiguration {
		t.Fatalf("expected configuration exit code, got %v", err)
	}
}

func TestDoctorReportsFFprobe(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("VBRPLOT_FFPROBE", env.ffprobe)
	out, _, err := runCLI(t, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "[OK] Ready ("+env.ffprobe+")")

	t.Setenv("VBRPLOT_FFPROBE", "vbrplot-no-such-ffprobe")
	out, _, err = runCLI(t, "doctor")
	if !errors.Is(err, failures.ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
	requireContains(t, out, "[ERROR]")
}
