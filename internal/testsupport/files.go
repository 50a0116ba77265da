package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// mp4Header is an ISO BMFF ftyp box that content sniffers classify as video.
var mp4Header = []byte("\x00\x00\x00\x20ftypisom\x00\x00\x02\x00isomiso2avc1mp41")

// WriteVideo creates a placeholder MP4 at path: a valid ftyp header padded to
// size bytes. The payload is not decodable; tests pair it with a stub ffprobe.
func WriteVideo(t testing.TB, path string, size int64) {
	t.Helper()

	if size < int64(len(mp4Header)) {
		size = int64(len(mp4Header))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	if _, err := f.Write(mp4Header); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	remaining := size - int64(len(mp4Header))
	for remaining > 0 {
		toWrite := min(int64(chunkSize), remaining)
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}
