package render

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"
)

// ASCIIOptions sizes the terminal chart.
type ASCIIOptions struct {
	Width  int
	Height int
}

// ASCII writes a terminal line chart of chart to w. An empty series prints a
// placeholder line instead of a graph.
func ASCII(w io.Writer, chart Chart, opts ASCIIOptions) error {
	values := chart.Series.Values()
	if len(values) == 0 {
		_, err := fmt.Fprintln(w, "(no data)")
		return err
	}
	if opts.Height <= 0 {
		opts.Height = 12
	}
	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.Caption(fmt.Sprintf("%s, kbps per %gs bucket", chart.title(), chart.Series.Width)),
	}
	if opts.Width > 0 {
		graphOpts = append(graphOpts, asciigraph.Width(opts.Width))
	}
	_, err := fmt.Fprintln(w, asciigraph.Plot(values, graphOpts...))
	return err
}
