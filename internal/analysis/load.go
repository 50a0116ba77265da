package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/export"
	"vbrplot/internal/failures"
	"vbrplot/internal/logging"
)

// LoadSeries reads a series previously written by the CSV or JSON sink. The
// format follows the file extension. A non-zero width is used when the file
// does not record one itself (CSV, or JSON without bucket_seconds).
func LoadSeries(path string, width float64) (bitrate.Series, *export.Media, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err := export.ReadJSON(path)
		if err != nil {
			return bitrate.Series{}, nil, err
		}
		if doc.BucketSeconds == 0 {
			doc.BucketSeconds = width
		}
		series, err := doc.Series()
		if err != nil {
			return bitrate.Series{}, nil, err
		}
		return series, doc.Media, nil
	case ".csv":
		series, err := export.ReadCSVWidth(path, width)
		if err != nil {
			return bitrate.Series{}, nil, err
		}
		return series, nil, nil
	default:
		return bitrate.Series{}, nil, fmt.Errorf("%w: series %q (want .json or .csv)", failures.ErrUnsupportedFormat, path)
	}
}

// Render re-emits a series loaded from req.Source without probing. A non-zero
// req.BucketSeconds supplies the width for files that do not record it.
func (p *Pipeline) Render(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.Source) == "" {
		return Result{}, failures.Wrap(failures.ErrConfiguration, "request", "source", "series path is required", nil)
	}
	if req.BucketSeconds != 0 {
		if err := bitrate.ValidateWidth(req.BucketSeconds); err != nil {
			return Result{}, err
		}
	}
	if err := req.validateOutputs(); err != nil {
		return Result{}, err
	}
	series, media, err := LoadSeries(req.Source, req.BucketSeconds)
	if err != nil {
		return Result{}, err
	}
	req.BucketSeconds = series.Width
	p.logger(ctx).Info("series loaded",
		logging.String(logging.FieldInput, req.Source),
		logging.Int("buckets", series.Len()),
	)
	return p.Emit(ctx, req, series, media)
}
