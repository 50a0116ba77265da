package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"vbrplot/internal/config"
	"vbrplot/internal/logging"
)

func TestNewFromConfigWritesConsoleAndFile(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "vbrplot.jsonl")

	var terminal bytes.Buffer
	logger, err := logging.NewFromConfig(&cfg, &terminal)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "analysis")
	logger.Debug("bucket detail", logging.Int("buckets", 5))
	logger.Warn("sink failed", logging.String(logging.FieldSink, "json"))

	if strings.Contains(terminal.String(), "bucket detail") {
		t.Fatalf("terminal should honour warn level, got %q", terminal.String())
	}
	if !strings.Contains(terminal.String(), "sink failed") {
		t.Fatalf("terminal missing warning, got %q", terminal.String())
	}

	content, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected debug and warn records in file, got %q", content)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("decode log record: %v", err)
	}
	if record["msg"] != "bucket detail" || record["component"] != "analysis" {
		t.Fatalf("unexpected file record %v", record)
	}
}

func TestNewFromConfigNilUsesDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.NewFromConfig(nil, &buf)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("ready")
	if !strings.Contains(buf.String(), "ready") {
		t.Fatalf("expected info output, got %q", buf.String())
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "probe").Info("message without caller", logging.Int("packets", 12))

	line := buf.String()
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if !strings.Contains(line, "INFO probe: message without caller packets=12") {
		t.Fatalf("unexpected console layout: %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	if !strings.Contains(buf.String(), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", buf.String())
	}
}

func TestConsoleLoggerQuotesValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.WithGroup("sink").Info("wrote", logging.String("path", "out dir/plot.png"))
	if !strings.Contains(buf.String(), `sink.path="out dir/plot.png"`) {
		t.Fatalf("expected grouped quoted value, got %q", buf.String())
	}
}

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "json message" || record["level"] != "info" || record["k"] != "v" {
		t.Fatalf("unexpected record: %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("should use info level")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "should use info level") {
		t.Fatalf("unexpected output for default level: %q", buf.String())
	}
}

func TestWithContextAddsRunID(t *testing.T) {
	ctx := logging.WithRunID(context.Background())
	id, ok := logging.RunIDFromContext(ctx)
	if !ok || id == "" {
		t.Fatal("expected run id in context")
	}
	if again := logging.WithRunID(ctx); again != ctx {
		t.Fatal("expected existing run id to be kept")
	}

	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WithContext(ctx, logger).Info("contextual log")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if record[logging.FieldCorrelationID] != id {
		t.Fatalf("field %s = %v, want %s", logging.FieldCorrelationID, record[logging.FieldCorrelationID], id)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "noop")
	if logger.Enabled(context.Background(), 100) {
		t.Fatal("expected no-op logger to be disabled")
	}
	logging.WithContext(context.Background(), nil).Error("dropped")
}
