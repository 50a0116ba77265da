package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

//go:embed sample_config.toml
var sampleConfig string

// Probe contains ffprobe invocation settings.
type Probe struct {
	Binary string `toml:"binary"`
	Stream string `toml:"stream"`
}

// Analysis contains aggregation settings.
type Analysis struct {
	BucketSeconds float64 `toml:"bucket_seconds"`
}

// Plot contains static image rendering settings.
type Plot struct {
	WidthInches  float64 `toml:"width_inches"`
	HeightInches float64 `toml:"height_inches"`
	Title        string  `toml:"title"`
}

// HTML contains interactive chart settings.
type HTML struct {
	Width      string `toml:"width"`
	Height     string `toml:"height"`
	AssetsHost string `toml:"assets_host"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, receives a debug-level JSON copy of every run's logs.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for vbrplot.
//
// Configuration sections:
//   - Probe: ffprobe binary and stream selector
//   - Analysis: default bucket width
//   - Plot: static image size and title
//   - HTML: interactive chart size and script host
//   - Logging: log format and level
type Config struct {
	Probe    Probe    `toml:"probe"`
	Analysis Analysis `toml:"analysis"`
	Plot     Plot     `toml:"plot"`
	HTML     HTML     `toml:"html"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/vbrplot/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults are used instead.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, failures.Wrap(failures.ErrConfiguration, "config", "resolve", "", err)
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, failures.Wrap(failures.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, failures.Wrap(failures.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, failures.Wrap(failures.ErrConfiguration, "config", "normalize", "", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, failures.Wrap(failures.ErrConfiguration, "config", "validate", "", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		info, err := os.Stat(expanded)
		if err != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, err)
		}
		if info.IsDir() {
			return "", false, fmt.Errorf("config file %s is a directory", expanded)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("vbrplot.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// FFprobeBinary returns the ffprobe executable used for packet extraction.
func (c *Config) FFprobeBinary() string {
	if binary := strings.TrimSpace(c.Probe.Binary); binary != "" {
		return binary
	}
	return defaultFFprobeBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if err := fileutil.EnsureParent(path); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, werr := io.WriteString(w, sampleConfig)
		return werr
	})
	if err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
