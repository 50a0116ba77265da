package failures

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrExtraction    = errors.New("extraction error")
	ErrIO            = errors.New("io error")
	ErrEmptySeries   = errors.New("empty series")

	// ErrUnsupportedFormat is a configuration error raised for output paths
	// whose extension no renderer understands.
	ErrUnsupportedFormat = fmt.Errorf("%w: unsupported format", ErrConfiguration)
)

// Exit codes returned by the CLI for each marker.
const (
	ExitGeneric       = 1
	ExitConfiguration = 2
	ExitExtraction    = 3
	ExitIO            = 4
	ExitEmptySeries   = 5
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// ExitCode maps err to the process exit status. A joined error reports the
// code of its first classified member.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, member := range joined.Unwrap() {
			if code := ExitCode(member); code != ExitGeneric {
				return code
			}
		}
		return ExitGeneric
	}
	switch {
	case errors.Is(err, ErrConfiguration):
		return ExitConfiguration
	case errors.Is(err, ErrExtraction):
		return ExitExtraction
	case errors.Is(err, ErrIO):
		return ExitIO
	case errors.Is(err, ErrEmptySeries):
		return ExitEmptySeries
	default:
		return ExitGeneric
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
