package render

import (
	"path/filepath"
	"strings"

	"vbrplot/internal/bitrate"
)

const (
	xAxisLabel = "Time (s)"
	yAxisLabel = "Bitrate (kbps)"
	seriesName = "Bitrate"
)

// Chart is the input shared by every renderer.
type Chart struct {
	Title  string
	Series bitrate.Series
	// Stats, when set, supplies the target reference line.
	Stats *bitrate.Stats
	// ShowStats adds min, max and average reference lines.
	ShowStats bool
}

// DefaultTitle returns the chart title used when none is configured.
func DefaultTitle(source string) string {
	name := strings.TrimSpace(filepath.Base(source))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "Variable Bitrate"
	}
	return "Variable Bitrate - " + name
}

// ReferenceLine is a horizontal marker drawn across the chart.
type ReferenceLine struct {
	Label string
	Kbps  float64
}

// ReferenceLines lists the horizontal markers for c in drawing order.
func (c Chart) ReferenceLines() []ReferenceLine {
	if c.Stats == nil {
		return nil
	}
	var lines []ReferenceLine
	if c.ShowStats {
		lines = append(lines,
			ReferenceLine{Label: "Min", Kbps: c.Stats.Min},
			ReferenceLine{Label: "Max", Kbps: c.Stats.Max},
			ReferenceLine{Label: "Average", Kbps: c.Stats.Average},
		)
	}
	if c.Stats.HasTarget() {
		lines = append(lines, ReferenceLine{Label: "Target", Kbps: *c.Stats.Target})
	}
	return lines
}

func (c Chart) title() string {
	if t := strings.TrimSpace(c.Title); t != "" {
		return t
	}
	return "Variable Bitrate"
}
