// Package failures defines the error markers shared by every vbrplot stage.
//
// Errors are tagged with one of the exported sentinels through Wrap so callers
// can classify them with errors.Is regardless of how deeply they were wrapped.
// ExitCode maps a classified error to the process exit status used by the CLI.
package failures
