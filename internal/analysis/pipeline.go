package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/export"
	"vbrplot/internal/failures"
	"vbrplot/internal/logging"
	"vbrplot/internal/render"
)

// Viewer displays a chart interactively.
type Viewer interface {
	Show(ctx context.Context, chart render.Chart) error
}

// Pipeline wires extraction, aggregation and sinks together.
type Pipeline struct {
	Extractor Extractor
	Viewer    Viewer
	Logger    *slog.Logger
	// Stdout receives the terminal chart. Defaults to os.Stdout.
	Stdout io.Writer
	Image  render.ImageOptions
	HTML   render.HTMLOptions
}

// Result summarises a completed run.
type Result struct {
	Series bitrate.Series
	// Stats is nil when the series is empty.
	Stats   *bitrate.Stats
	Media   *export.Media
	Packets int
	Skipped int
	// Written lists the files produced, in sink order.
	Written []string
}

// Run probes req.Source and emits every requested sink.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	if p.Extractor == nil {
		return Result{}, failures.Wrap(failures.ErrConfiguration, "analysis", "extract", "no extractor configured", nil)
	}
	logger := p.logger(ctx).With(logging.String(logging.FieldInput, req.Source))

	extraction, err := p.Extractor.Extract(ctx, req.Source)
	if err != nil {
		logger.Error("packet extraction failed", logging.Error(err))
		return Result{}, err
	}
	if extraction.Skipped > 0 {
		logger.Warn("packets without timestamp skipped", logging.Int("skipped", extraction.Skipped))
	}

	series, err := bitrate.Aggregate(extraction.Packets, req.BucketSeconds)
	if err != nil {
		return Result{}, err
	}
	logger.Info("packets aggregated",
		logging.Int("packets", len(extraction.Packets)),
		logging.Int("buckets", series.Len()),
		logging.Float64("bucket_seconds", series.Width),
	)

	result, err := p.Emit(ctx, req, series, extraction.Media)
	result.Packets = len(extraction.Packets)
	result.Skipped = extraction.Skipped
	return result, err
}

// Emit summarizes series and runs every sink in req. It is shared by Run and
// by re-rendering a previously exported series.
func (p *Pipeline) Emit(ctx context.Context, req Request, series bitrate.Series, media *export.Media) (Result, error) {
	logger := p.logger(ctx).With(logging.String(logging.FieldInput, req.Source))
	result := Result{Series: series, Media: media}

	var errs []error
	stats, err := bitrate.Summarize(series)
	if err != nil {
		if !errors.Is(err, failures.ErrEmptySeries) {
			return result, err
		}
		logger.Warn("no packets in selected stream; only data exports will be written")
		errs = append(errs, err)
	} else {
		if req.TargetKbps > 0 {
			stats = stats.WithTarget(req.TargetKbps)
		}
		result.Stats = &stats
		logger.Info("bitrate summary",
			logging.Float64("min_kbps", stats.Min),
			logging.Float64("max_kbps", stats.Max),
			logging.Float64("average_kbps", stats.Average),
		)
	}

	chart := render.Chart{Title: req.title(), Series: series, Stats: result.Stats, ShowStats: req.ShowStats}
	for _, s := range p.sinks(req, chart, media) {
		if s.needsStats && result.Stats == nil {
			logger.Debug("sink skipped for empty series", logging.String(logging.FieldSink, s.name))
			continue
		}
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := s.run(ctx); err != nil {
			logger.Error("sink failed",
				logging.String(logging.FieldSink, s.name),
				logging.String("path", s.path),
				logging.Error(err),
			)
			errs = append(errs, err)
			continue
		}
		if s.path != "" {
			result.Written = append(result.Written, s.path)
			logger.Info("output written",
				logging.String(logging.FieldSink, s.name),
				logging.String("path", s.path),
			)
		}
	}
	return result, errors.Join(errs...)
}

type sink struct {
	name       string
	path       string
	needsStats bool
	run        func(ctx context.Context) error
}

// sinks returns the enabled sinks in execution order. The interactive view
// is last because it blocks until the user dismisses it.
func (p *Pipeline) sinks(req Request, chart render.Chart, media *export.Media) []sink {
	var out []sink
	if req.CSVPath != "" {
		out = append(out, sink{name: "csv", path: req.CSVPath, run: func(context.Context) error {
			return export.WriteCSV(req.CSVPath, chart.Series)
		}})
	}
	if req.JSONPath != "" {
		out = append(out, sink{name: "json", path: req.JSONPath, run: func(context.Context) error {
			doc := export.NewDocument(req.Source, chart.Series, media, chart.Stats)
			return export.WriteJSON(req.JSONPath, doc)
		}})
	}
	if req.StatsPath != "" {
		out = append(out, sink{name: "stats", path: req.StatsPath, needsStats: true, run: func(context.Context) error {
			return export.WriteStats(req.StatsPath, req.Source, chart.Series.Width, *chart.Stats)
		}})
	}
	if req.ImagePath != "" {
		out = append(out, sink{name: "image", path: req.ImagePath, needsStats: true, run: func(context.Context) error {
			return render.SaveImage(req.ImagePath, chart, p.Image)
		}})
	}
	if req.HTMLPath != "" {
		out = append(out, sink{name: "html", path: req.HTMLPath, needsStats: true, run: func(context.Context) error {
			return render.WriteHTML(req.HTMLPath, chart, p.HTML)
		}})
	}
	if req.ASCII {
		out = append(out, sink{name: "ascii", needsStats: true, run: func(context.Context) error {
			return render.ASCII(p.stdout(), chart, render.ASCIIOptions{})
		}})
	}
	if req.WantsView() {
		out = append(out, sink{name: "view", needsStats: true, run: func(ctx context.Context) error {
			if p.Viewer == nil {
				return failures.Wrap(failures.ErrConfiguration, "view", "show", "no viewer configured", nil)
			}
			return p.Viewer.Show(ctx, chart)
		}})
	}
	return out
}

func (p *Pipeline) logger(ctx context.Context) *slog.Logger {
	return logging.WithContext(ctx, logging.NewComponentLogger(p.Logger, "analysis"))
}

func (p *Pipeline) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}
