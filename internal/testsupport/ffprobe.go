package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// RequireShell skips tests that rely on POSIX shell stubs.
func RequireShell(t testing.TB) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
}

// StubFFprobe writes an executable named ffprobe into dir that prints payload
// on stdout and exits 0. It returns the stub path.
func StubFFprobe(t testing.TB, dir, payload string) string {
	t.Helper()
	RequireShell(t)

	script := "#!/bin/sh\ncat <<'JSON'\n" + payload + "\nJSON\n"
	return writeStub(t, dir, "ffprobe", script)
}

// FailingFFprobe writes an ffprobe stub that prints message on stderr and
// exits with code 1.
func FailingFFprobe(t testing.TB, dir, message string) string {
	t.Helper()
	RequireShell(t)

	script := fmt.Sprintf("#!/bin/sh\necho %q >&2\nexit 1\n", message)
	return writeStub(t, dir, "ffprobe", script)
}

// PacketPayload builds an ffprobe JSON document with one packet per entry of
// sizes, spaced step seconds apart starting at zero.
func PacketPayload(step float64, sizes ...int) string {
	packets := make([]string, len(sizes))
	for i, size := range sizes {
		packets[i] = fmt.Sprintf(`{"pts_time": "%f", "dts_time": "%f", "size": "%d"}`,
			float64(i)*step, float64(i)*step, size)
	}
	return `{
  "packets": [` + strings.Join(packets, ",\n    ") + `],
  "streams": [{"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 1080}],
  "format": {"filename": "clip.mkv", "format_name": "matroska,webm", "duration": "5.000000", "size": "10000"}
}`
}

func writeStub(t testing.TB, dir, name, script string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}
