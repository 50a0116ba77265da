// Package analysis runs one bitrate analysis end to end: probe, aggregate,
// summarize, emit.
//
// Pipeline validates the request before spawning ffprobe or touching the
// filesystem, then runs every requested sink in a fixed order. A failing sink
// is logged and does not stop the rest; all failures are returned together
// via errors.Join so the CLI can map the first one to an exit code.
//
// The Extractor interface isolates the pipeline from the ffprobe invocation
// so tests can feed packets directly.
package analysis
