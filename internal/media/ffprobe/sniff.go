package ffprobe

import (
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"

	"vbrplot/internal/failures"
)

// headerSize is the number of leading bytes filetype needs to match every
// signature it knows.
const headerSize = 261

// sniff rejects files that are recognisably not media before ffprobe runs.
// Unknown signatures are allowed through; ffprobe has the final word.
func sniff(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return failures.Wrap(failures.ErrExtraction, stage, "input", "open "+path, err)
	}
	defer file.Close()

	header := make([]byte, headerSize)
	n, err := io.ReadFull(file, header)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return failures.Wrap(failures.ErrExtraction, stage, "input", "read "+path, err)
	}
	header = header[:n]
	if n == 0 {
		return failures.Wrap(failures.ErrExtraction, stage, "input", fmt.Sprintf("%s is empty", path), nil)
	}

	kind, err := filetype.Match(header)
	if err != nil || kind == filetype.Unknown {
		return nil
	}
	if filetype.IsVideo(header) || filetype.IsAudio(header) {
		return nil
	}
	return failures.Wrap(failures.ErrExtraction, stage, "input",
		fmt.Sprintf("%s looks like %s, not a media file", path, kind.MIME.Value), nil)
}
