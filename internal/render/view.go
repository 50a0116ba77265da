package render

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/browser"

	"vbrplot/internal/failures"
)

// Viewer opens a chart in the default browser and waits for the user.
type Viewer struct {
	// Open launches the viewer for a local file. Defaults to browser.OpenFile.
	Open func(path string) error
	// In is read for the Enter key press that ends the view. Defaults to os.Stdin.
	In io.Reader
	// Prompt receives the "press Enter" hint. Defaults to os.Stderr.
	Prompt io.Writer
	// Dir holds the temporary page. Defaults to os.TempDir().
	Dir  string
	HTML HTMLOptions
}

// Show renders chart to a temporary page, opens it, and blocks until a line
// is read from In or ctx is cancelled. The page is removed before returning.
func (v Viewer) Show(ctx context.Context, chart Chart) error {
	open := v.Open
	if open == nil {
		open = browser.OpenFile
	}
	in := v.In
	if in == nil {
		in = os.Stdin
	}
	prompt := v.Prompt
	if prompt == nil {
		prompt = os.Stderr
	}

	tmp, err := os.CreateTemp(v.Dir, "vbrplot-*.html")
	if err != nil {
		return failures.Wrap(failures.ErrIO, "view", "create page", "", err)
	}
	path := tmp.Name()
	defer os.Remove(path)

	if err := EncodeHTML(tmp, chart, v.HTML); err != nil {
		tmp.Close()
		return failures.Wrap(failures.ErrIO, "view", "render page", path, err)
	}
	if err := tmp.Close(); err != nil {
		return failures.Wrap(failures.ErrIO, "view", "close page", path, err)
	}

	if err := open(path); err != nil {
		return failures.Wrap(failures.ErrIO, "view", "open browser", path, err)
	}
	fmt.Fprintf(prompt, "Viewing %s in browser; press Enter to exit\n", chart.title())

	// Reads on stdin cannot be interrupted, so on cancellation the reader is
	// left blocked until the process exits. It touches nothing but in.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = bufio.NewReader(in).ReadString('\n')
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
