// Package ffprobe provides a typed wrapper around ffprobe's packet-level JSON
// output.
//
// Key types:
//   - Result: parsed packets plus the selected stream and container metadata
//   - Stream: properties of the probed stream
//   - Format: container-level metadata (duration, size, bitrate)
//
// Primary entry point:
//   - Probe: validates the input, executes ffprobe once and returns Result
//
// Helper methods on Result convert ffprobe's string-typed fields into
// numbers and packets into bitrate.Packet values.
package ffprobe
