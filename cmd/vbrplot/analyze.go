package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"vbrplot/internal/analysis"
	"vbrplot/internal/config"
	"vbrplot/internal/deps"
	"vbrplot/internal/failures"
	"vbrplot/internal/logging"
	"vbrplot/internal/render"
)

// outputOptions are the sink flags shared by the root and render commands.
type outputOptions struct {
	csvPath   string
	jsonPath  string
	imagePath string
	htmlPath  string
	statsPath string
	stats     bool
	target    float64
	show      bool
	ascii     bool
	title     string
}

func (o *outputOptions) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.csvPath, "export-csv", "", "Write the series as CSV")
	flags.StringVar(&o.jsonPath, "export-json", "", "Write the series as JSON")
	flags.StringVar(&o.imagePath, "save-plot", "", "Save a static plot (png, jpg, svg, pdf, eps, tif)")
	flags.StringVar(&o.htmlPath, "plotly-html", "", "Write an interactive HTML chart")
	flags.StringVar(&o.htmlPath, "html", "", "Alias for --plotly-html")
	flags.BoolVar(&o.stats, "stats", false, "Overlay min/max/average on plots and print a stats table")
	flags.StringVar(&o.statsPath, "stats-file", "", "Write the stats summary as text")
	flags.Float64Var(&o.target, "target-bitrate", 0, "Draw a target bitrate reference line (kbps)")
	flags.BoolVar(&o.show, "show", false, "Open the interactive view even when other outputs are written")
	flags.BoolVar(&o.ascii, "ascii", false, "Print a terminal chart")
	flags.StringVar(&o.title, "title", "", "Chart title")
}

// request expands user paths and fills the sink fields of an analysis request.
func (o *outputOptions) request(source string, cfg *config.Config) (analysis.Request, error) {
	req := analysis.Request{
		Source:     source,
		ShowStats:  o.stats,
		TargetKbps: o.target,
		ASCII:      o.ascii,
		Show:       o.show,
		Title:      strings.TrimSpace(o.title),
	}
	if req.Title == "" {
		req.Title = cfg.Plot.Title
	}
	targets := []struct {
		dst *string
		src string
	}{
		{&req.CSVPath, o.csvPath},
		{&req.JSONPath, o.jsonPath},
		{&req.ImagePath, o.imagePath},
		{&req.HTMLPath, o.htmlPath},
		{&req.StatsPath, o.statsPath},
	}
	for _, t := range targets {
		expanded, err := config.ExpandPath(strings.TrimSpace(t.src))
		if err != nil {
			return analysis.Request{}, failures.Wrap(failures.ErrConfiguration, "cli", "output path", t.src, err)
		}
		*t.dst = expanded
	}
	return req, nil
}

type analyzeOptions struct {
	bucket  float64
	stream  string
	ffprobe string
	outputs outputOptions
}

func runAnalyze(cmd *cobra.Command, ctx *commandContext, opts *analyzeOptions, source string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}

	req, err := opts.outputs.request(source, cfg)
	if err != nil {
		return err
	}
	req.BucketSeconds = cfg.Analysis.BucketSeconds
	if cmd.Flags().Changed("bucket") {
		req.BucketSeconds = opts.bucket
	}
	if err := req.Validate(); err != nil {
		return err
	}

	binary := cfg.FFprobeBinary()
	if value := strings.TrimSpace(opts.ffprobe); value != "" {
		binary = value
	}
	stream := cfg.Probe.Stream
	if value := strings.TrimSpace(opts.stream); value != "" {
		stream = value
	}
	if err := requireFFprobe(cmd.Context(), binary); err != nil {
		return err
	}

	runCtx := logging.WithRunID(cmd.Context())
	pipeline := newPipeline(cmd, cfg, logger)
	pipeline.Extractor = analysis.FFprobeExtractor{Binary: binary, Stream: stream}
	logging.WithContext(runCtx, logger).Debug("analysis starting",
		logging.String(logging.FieldInput, source),
		logging.String("ffprobe", binary),
		logging.String("stream", stream),
	)

	result, err := pipeline.Run(runCtx, req)
	printStatsTable(cmd, opts.outputs.stats, req, result)
	return err
}

func newPipeline(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) *analysis.Pipeline {
	htmlOpts := render.HTMLOptions{
		Width:      cfg.HTML.Width,
		Height:     cfg.HTML.Height,
		AssetsHost: cfg.HTML.AssetsHost,
	}
	return &analysis.Pipeline{
		Viewer: render.Viewer{
			In:     cmd.InOrStdin(),
			Prompt: cmd.ErrOrStderr(),
			HTML:   htmlOpts,
		},
		Logger: logger,
		Stdout: cmd.OutOrStdout(),
		Image: render.ImageOptions{
			WidthInches:  cfg.Plot.WidthInches,
			HeightInches: cfg.Plot.HeightInches,
		},
		HTML: htmlOpts,
	}
}

// requireFFprobe fails fast with an actionable message when the probe binary
// cannot be resolved.
func requireFFprobe(ctx context.Context, binary string) error {
	status := deps.CheckBinaries(ctx, []deps.Requirement{{Name: "FFprobe", Command: binary}})[0]
	if status.Available {
		return nil
	}
	return failures.Wrap(failures.ErrExtraction, "probe", "lookup",
		fmt.Sprintf("%s; install FFmpeg or set probe.binary / VBRPLOT_FFPROBE", status.Detail), nil)
}

func printStatsTable(cmd *cobra.Command, enabled bool, req analysis.Request, result analysis.Result) {
	if !enabled || result.Stats == nil {
		return
	}
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	for _, line := range renderSectionHeader("Bitrate statistics", colorize) {
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, statsTable(req.Source, result.Series.Width, *result.Stats))
}

func missingInputError(cmd *cobra.Command, message string) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	return failures.Wrap(failures.ErrConfiguration, "cli", "args", message, nil)
}
