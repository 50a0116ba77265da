package render

import (
	"embed"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

//go:embed assets/page.html.tmpl assets/chart.js
var assets embed.FS

var (
	pageTemplate = template.Must(template.ParseFS(assets, "assets/page.html.tmpl"))
	chartScript  = mustReadAsset("assets/chart.js")
)

// HTMLOptions controls the interactive chart page.
type HTMLOptions struct {
	Width  string
	Height string
	// AssetsHost switches to a go-echarts page that loads echarts.min.js
	// from this URL prefix. Empty keeps the page self-contained.
	AssetsHost string
}

type pageData struct {
	Title  string
	Width  string
	Height string
	Chart  pageChart
	Script template.JS
}

type pageChart struct {
	Title  string    `json:"title"`
	XLabel string    `json:"xLabel"`
	YLabel string    `json:"yLabel"`
	Times  []float64 `json:"times"`
	Kbps   []float64 `json:"kbps"`
	Refs   []pageRef `json:"refs"`
}

type pageRef struct {
	Label string  `json:"label"`
	Kbps  float64 `json:"kbps"`
}

// WriteHTML renders chart as a standalone HTML page at path.
func WriteHTML(path string, chart Chart, htmlOpts HTMLOptions) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeHTML(w, chart, htmlOpts)
	})
	if err != nil {
		return failures.Wrap(failures.ErrIO, "html", "write "+path, "", err)
	}
	return nil
}

// EncodeHTML renders chart as an HTML page to w. Without an assets host the
// page inlines its data and drawing script and needs no network access.
func EncodeHTML(w io.Writer, chart Chart, htmlOpts HTMLOptions) error {
	if strings.TrimSpace(htmlOpts.AssetsHost) != "" {
		return newLineChart(chart, htmlOpts).Render(w)
	}
	return pageTemplate.Execute(w, newPageData(chart, htmlOpts))
}

func newPageData(chart Chart, htmlOpts HTMLOptions) pageData {
	data := pageData{
		Title:  chart.title(),
		Width:  orDefault(htmlOpts.Width, "1200px"),
		Height: orDefault(htmlOpts.Height, "540px"),
		Script: chartScript,
		Chart: pageChart{
			Title:  chart.title(),
			XLabel: xAxisLabel,
			YLabel: yAxisLabel,
			Times:  make([]float64, chart.Series.Len()),
			Kbps:   make([]float64, chart.Series.Len()),
			Refs:   []pageRef{},
		},
	}
	for i, b := range chart.Series.Buckets {
		data.Chart.Times[i] = b.Start
		data.Chart.Kbps[i] = roundKbps(b.BitrateKbps)
	}
	for _, ref := range chart.ReferenceLines() {
		data.Chart.Refs = append(data.Chart.Refs, pageRef{Label: ref.Label, Kbps: roundKbps(ref.Kbps)})
	}
	return data
}

func mustReadAsset(name string) template.JS {
	raw, err := assets.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return template.JS(raw)
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func newLineChart(chart Chart, htmlOpts HTMLOptions) *charts.Line {
	title := chart.title()
	init := opts.Initialization{
		PageTitle:  title,
		Width:      htmlOpts.Width,
		Height:     htmlOpts.Height,
		AssetsHost: htmlOpts.AssetsHost,
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(init),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Right: "5%"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithXAxisOpts(opts.XAxis{Name: xAxisLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: yAxisLabel}),
	)

	labels := make([]string, chart.Series.Len())
	data := make([]opts.LineData, chart.Series.Len())
	for i, b := range chart.Series.Buckets {
		labels[i] = strconv.FormatFloat(b.Start, 'f', -1, 64)
		data[i] = opts.LineData{Value: roundKbps(b.BitrateKbps)}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Color: "rgba(31, 119, 180, 0.25)"}),
	}
	refs := chart.ReferenceLines()
	if len(refs) > 0 {
		items := make([]opts.MarkLineNameYAxisItem, len(refs))
		for i, ref := range refs {
			items[i] = opts.MarkLineNameYAxisItem{Name: ref.Label, YAxis: roundKbps(ref.Kbps)}
		}
		seriesOpts = append(seriesOpts, charts.WithMarkLineNameYAxisItemOpts(items...))
	}

	line.SetXAxis(labels).AddSeries(seriesName, data, seriesOpts...)
	return line
}

func roundKbps(v float64) float64 {
	return math.Round(v*100) / 100
}
