package bitrate

import "vbrplot/internal/failures"

// Stats summarizes a series. Target is display-only and never feeds back
// into the computed values.
type Stats struct {
	Min        float64  `json:"min_kbps"`
	Max        float64  `json:"max_kbps"`
	Average    float64  `json:"average_kbps"`
	PeakTime   float64  `json:"peak_time_seconds"`
	Duration   float64  `json:"duration_seconds"`
	TotalBytes int64    `json:"total_bytes"`
	Buckets    int      `json:"buckets"`
	Target     *float64 `json:"target_kbps,omitempty"`
}

// Summarize computes min, max and mean bitrate over the series. An empty
// series yields failures.ErrEmptySeries.
func Summarize(series Series) (Stats, error) {
	if series.Empty() {
		return Stats{}, failures.Wrap(failures.ErrEmptySeries, "stats", "summarize", "series has no buckets", nil)
	}

	first := series.Buckets[0]
	stats := Stats{
		Min:      first.BitrateKbps,
		Max:      first.BitrateKbps,
		PeakTime: first.Start,
		Buckets:  len(series.Buckets),
		Duration: float64(len(series.Buckets)) * series.Width,
	}
	var sum, bytes float64
	for _, b := range series.Buckets {
		sum += b.BitrateKbps
		bytes += series.Bytes(b)
		if b.BitrateKbps < stats.Min {
			stats.Min = b.BitrateKbps
		}
		if b.BitrateKbps > stats.Max {
			stats.Max = b.BitrateKbps
			stats.PeakTime = b.Start
		}
	}
	stats.Average = clamp(sum/float64(len(series.Buckets)), stats.Min, stats.Max)
	stats.TotalBytes = int64(bytes + 0.5)
	return stats, nil
}

// WithTarget returns a copy of s carrying a reference bitrate.
func (s Stats) WithTarget(kbps float64) Stats {
	v := kbps
	s.Target = &v
	return s
}

// HasTarget reports whether a reference bitrate is attached.
func (s Stats) HasTarget() bool { return s.Target != nil }

// clamp absorbs rounding in the mean of a constant series.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
