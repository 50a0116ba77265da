package render

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

// ImageFormats lists the extensions SaveImage understands.
var ImageFormats = []string{"eps", "jpeg", "jpg", "pdf", "png", "svg", "tif", "tiff"}

// ImageOptions controls the static image canvas.
type ImageOptions struct {
	WidthInches  float64
	HeightInches float64
}

// DefaultImageOptions matches the 10x5 inch canvas of the plot defaults.
func DefaultImageOptions() ImageOptions {
	return ImageOptions{WidthInches: 10, HeightInches: 5}
}

var (
	lineColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	fillColor = color.RGBA{R: 31, G: 119, B: 180, A: 64}

	referenceColors = map[string]color.Color{
		"Min":     color.RGBA{R: 44, G: 160, B: 44, A: 255},
		"Max":     color.RGBA{R: 214, G: 39, B: 40, A: 255},
		"Average": color.RGBA{R: 255, G: 127, B: 14, A: 255},
		"Target":  color.RGBA{R: 148, G: 103, B: 189, A: 255},
	}
)

// ImageFormat returns the normalized format for path or ErrUnsupportedFormat.
func ImageFormat(path string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if !slices.Contains(ImageFormats, ext) {
		return "", fmt.Errorf("%w: image %q (want one of %s)",
			failures.ErrUnsupportedFormat, path, strings.Join(ImageFormats, ", "))
	}
	return ext, nil
}

// ValidateImagePath rejects paths SaveImage cannot encode.
func ValidateImagePath(path string) error {
	_, err := ImageFormat(path)
	return err
}

// SaveImage draws chart and writes it to path in the format implied by its
// extension.
func SaveImage(path string, chart Chart, opts ImageOptions) error {
	format, err := ImageFormat(path)
	if err != nil {
		return err
	}
	if opts.WidthInches <= 0 || opts.HeightInches <= 0 {
		opts = DefaultImageOptions()
	}

	p, err := buildPlot(chart)
	if err != nil {
		return failures.Wrap(failures.ErrIO, "image", "draw", path, err)
	}
	writer, err := p.WriterTo(vg.Length(opts.WidthInches)*vg.Inch, vg.Length(opts.HeightInches)*vg.Inch, format)
	if err != nil {
		return failures.Wrap(failures.ErrIO, "image", "encode", path, err)
	}
	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		_, werr := writer.WriteTo(w)
		return werr
	})
	if err != nil {
		return failures.Wrap(failures.ErrIO, "image", "write "+path, "", err)
	}
	return nil
}

func buildPlot(chart Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.title()
	p.X.Label.Text = xAxisLabel
	p.Y.Label.Text = yAxisLabel
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Horizontal.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Vertical.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	grid.Horizontal.Width = vg.Points(0.5)
	grid.Vertical.Width = vg.Points(0.5)
	p.Add(grid)

	points := make(plotter.XYs, chart.Series.Len())
	for i, b := range chart.Series.Buckets {
		points[i].X = b.Start
		points[i].Y = b.BitrateKbps
	}
	if len(points) > 0 {
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, err
		}
		line.Color = lineColor
		line.Width = vg.Points(1)
		line.FillColor = fillColor
		p.Add(line)
		p.Legend.Add(seriesName, line)
	}

	top := 0.0
	for _, v := range chart.Series.Values() {
		top = max(top, v)
	}
	for _, ref := range chart.ReferenceLines() {
		value := ref.Kbps
		fn := plotter.NewFunction(func(float64) float64 { return value })
		fn.Color = referenceColors[ref.Label]
		fn.Width = vg.Points(1)
		fn.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(fn)
		p.Legend.Add(fmt.Sprintf("%s (%.0f kbps)", ref.Label, ref.Kbps), fn)
		top = max(top, value)
	}

	p.Y.Min = 0
	if top > 0 {
		p.Y.Max = top * 1.05
	}
	return p, nil
}
