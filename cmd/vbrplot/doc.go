// Package main hosts the vbrplot CLI entrypoint and command graph.
//
// The root command analyses one video: it resolves configuration, applies
// flag overrides, and hands an analysis.Request to the pipeline. Subcommands
// re-render exported series, scaffold configuration, and check that ffprobe
// is installed.
//
// Keep this package lean: behaviour lives in the internal packages and is
// surfaced here through flags.
package main
