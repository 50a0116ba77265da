package bitrate

import (
	"fmt"
	"math"

	"vbrplot/internal/failures"
)

// DefaultBucketSeconds is the window width used when none is configured.
const DefaultBucketSeconds = 1.0

// MaxBuckets caps the series length so a tiny width over a long timeline
// fails instead of exhausting memory.
const MaxBuckets = 10_000_000

// Packet is a single demuxed packet as reported by the probe.
type Packet struct {
	Time float64 // presentation time in seconds
	Size int64   // payload size in bytes
}

// Bucket is one fixed-width window of the series.
type Bucket struct {
	Index       int
	Start       float64
	BitrateKbps float64
}

// Series is the ordered, gapless sequence of buckets for one stream.
type Series struct {
	Width   float64
	Buckets []Bucket
}

// Len returns the number of buckets.
func (s Series) Len() int { return len(s.Buckets) }

// Empty reports whether the series holds no buckets.
func (s Series) Empty() bool { return len(s.Buckets) == 0 }

// Times returns the bucket start times.
func (s Series) Times() []float64 {
	out := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Start
	}
	return out
}

// Values returns the bucket bitrates in kbps.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.BitrateKbps
	}
	return out
}

// Bytes returns the byte total a bucket represents.
func (s Series) Bytes(b Bucket) float64 {
	return b.BitrateKbps * 1000 * s.Width / 8
}

// ValidateWidth rejects bucket widths that cannot partition a timeline.
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) || width <= 0 {
		return failures.Wrap(failures.ErrConfiguration, "aggregate", "bucket width",
			fmt.Sprintf("must be a positive number of seconds, got %v", width), nil)
	}
	return nil
}

// Aggregate sums packet sizes into windows of width seconds. Packets with a
// negative timestamp are counted in the first bucket. An empty packet list
// produces an empty series.
func Aggregate(packets []Packet, width float64) (Series, error) {
	if err := ValidateWidth(width); err != nil {
		return Series{}, err
	}
	series := Series{Width: width}
	if len(packets) == 0 {
		return series, nil
	}

	last := 0.0
	for i, pkt := range packets {
		if math.IsNaN(pkt.Time) || math.IsInf(pkt.Time, 0) {
			return Series{}, failures.Wrap(failures.ErrExtraction, "aggregate", "packet timestamp",
				fmt.Sprintf("packet %d has non-finite timestamp %v", i, pkt.Time), nil)
		}
		if pkt.Time > last {
			last = pkt.Time
		}
	}
	n := math.Floor(last / width)
	if math.IsNaN(n) || math.IsInf(n, 0) || n >= MaxBuckets {
		return Series{}, failures.Wrap(failures.ErrConfiguration, "aggregate", "bucket width",
			fmt.Sprintf("%v seconds is too small for a %.3fs timeline (limit %d buckets)", width, last, MaxBuckets), nil)
	}
	count := int(n) + 1

	totals := make([]int64, count)
	for _, pkt := range packets {
		totals[bucketIndex(pkt.Time, width, count)] += pkt.Size
	}

	series.Buckets = make([]Bucket, count)
	for i, bytes := range totals {
		series.Buckets[i] = Bucket{
			Index:       i,
			Start:       float64(i) * width,
			BitrateKbps: float64(bytes) * 8 / width / 1000,
		}
	}
	return series, nil
}

func bucketIndex(ts, width float64, count int) int {
	if ts <= 0 || math.IsNaN(ts) {
		return 0
	}
	idx := int(math.Floor(ts / width))
	if idx >= count {
		return count - 1
	}
	return idx
}
