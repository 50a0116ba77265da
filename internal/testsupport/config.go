package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"vbrplot/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	cfgVal := config.Default()
	cfgVal.Probe.Binary = "ffprobe"
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: t.TempDir(),
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBucketSeconds overrides the default bucket width.
func WithBucketSeconds(width float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.BucketSeconds = width
	}
}

// WithStubFFprobe writes an ffprobe stub that prints payload and points the
// config at it.
func WithStubFFprobe(payload string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Probe.Binary = StubFFprobe(b.t, filepath.Join(b.baseDir, "bin"), payload)
	}
}

// WriteConfigFile writes contents to dir/vbrplot.toml and returns the path.
func WriteConfigFile(t testing.TB, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "vbrplot.toml")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// WriteConfig encodes cfg as TOML under dir and returns the file path.
func WriteConfig(t testing.TB, dir string, cfg *config.Config) string {
	t.Helper()

	payload, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	return WriteConfigFile(t, dir, string(payload))
}
