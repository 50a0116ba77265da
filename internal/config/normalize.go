package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeProbe()
	c.normalizeHTML()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	c.Plot.Title = strings.TrimSpace(c.Plot.Title)
	return nil
}

func (c *Config) normalizeProbe() {
	c.Probe.Binary = strings.TrimSpace(c.Probe.Binary)
	if c.Probe.Binary == "" {
		if value, ok := os.LookupEnv(ffprobeEnv); ok {
			c.Probe.Binary = strings.TrimSpace(value)
		}
	}
	if c.Probe.Binary == "" {
		c.Probe.Binary = defaultFFprobeBinary
	}
	c.Probe.Stream = strings.TrimSpace(c.Probe.Stream)
	if c.Probe.Stream == "" {
		c.Probe.Stream = defaultStream
	}
}

func (c *Config) normalizeHTML() {
	c.HTML.Width = strings.TrimSpace(c.HTML.Width)
	if c.HTML.Width == "" {
		c.HTML.Width = defaultHTMLWidth
	}
	c.HTML.Height = strings.TrimSpace(c.HTML.Height)
	if c.HTML.Height == "" {
		c.HTML.Height = defaultHTMLHeight
	}
	c.HTML.AssetsHost = strings.TrimSpace(c.HTML.AssetsHost)
	if c.HTML.AssetsHost != "" && !strings.HasSuffix(c.HTML.AssetsHost, "/") {
		c.HTML.AssetsHost += "/"
	}
}

func (c *Config) normalizeLogging() error {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text", "pretty":
		c.Logging.Format = "console"
	default:
		c.Logging.Format = format
	}
	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	if level == "warning" {
		level = "warn"
	}
	c.Logging.Level = level

	file, err := expandPath(strings.TrimSpace(c.Logging.File))
	if err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	c.Logging.File = file
	return nil
}
