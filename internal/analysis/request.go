package analysis

import (
	"fmt"
	"math"
	"strings"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/failures"
	"vbrplot/internal/render"
)

// Request describes one run: the input plus every requested sink.
type Request struct {
	Source        string
	BucketSeconds float64
	Title         string

	CSVPath   string
	JSONPath  string
	ImagePath string
	HTMLPath  string
	StatsPath string

	// ShowStats overlays min, max and average lines on the plots.
	ShowStats bool
	// TargetKbps is drawn as a reference line when positive.
	TargetKbps float64
	ASCII      bool
	// Show forces the interactive view even when other sinks run.
	Show bool
}

// Validate rejects requests that cannot run. It performs no I/O.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return failures.Wrap(failures.ErrConfiguration, "request", "source", "input path is required", nil)
	}
	if err := bitrate.ValidateWidth(r.BucketSeconds); err != nil {
		return err
	}
	return r.validateOutputs()
}

func (r Request) validateOutputs() error {
	if math.IsNaN(r.TargetKbps) || math.IsInf(r.TargetKbps, 0) || r.TargetKbps < 0 {
		return failures.Wrap(failures.ErrConfiguration, "request", "target",
			fmt.Sprintf("target bitrate must be a positive number, got %v", r.TargetKbps), nil)
	}
	if r.ImagePath != "" {
		if err := render.ValidateImagePath(r.ImagePath); err != nil {
			return err
		}
	}
	return nil
}

// WantsView reports whether the interactive view runs: on request, or when no
// other output was asked for.
func (r Request) WantsView() bool {
	if r.Show {
		return true
	}
	return r.CSVPath == "" && r.JSONPath == "" && r.ImagePath == "" &&
		r.HTMLPath == "" && r.StatsPath == "" && !r.ASCII
}

func (r Request) title() string {
	if t := strings.TrimSpace(r.Title); t != "" {
		return t
	}
	return render.DefaultTitle(r.Source)
}
