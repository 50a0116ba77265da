// Package config loads, normalizes, and validates vbrplot configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VBRPLOT_FFPROBE environment
// fallback. Command-line flags override the loaded values in cmd/vbrplot.
//
// Always obtain settings through this package so downstream code receives
// canonical log formats and clear validation errors.
package config
