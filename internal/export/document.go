package export

import (
	"fmt"
	"math"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/failures"
)

// Media carries descriptive metadata about the probed stream. It is
// informational only.
type Media struct {
	Codec           string  `json:"codec,omitempty"`
	Width           int     `json:"width,omitempty"`
	Height          int     `json:"height,omitempty"`
	Container       string  `json:"container,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	DeclaredBitRate int64   `json:"declared_bit_rate,omitempty"`
}

// Point is one exported bucket.
type Point struct {
	Time        float64 `json:"time"`
	BitrateKbps float64 `json:"bitrate_kbps"`
}

// Document is the JSON export envelope.
type Document struct {
	Source        string         `json:"source,omitempty"`
	BucketSeconds float64        `json:"bucket_seconds"`
	Media         *Media         `json:"media,omitempty"`
	Buckets       []Point        `json:"buckets"`
	Stats         *bitrate.Stats `json:"stats,omitempty"`
}

// NewDocument builds an export envelope for series. stats may be nil.
func NewDocument(source string, series bitrate.Series, media *Media, stats *bitrate.Stats) Document {
	return Document{
		Source:        source,
		BucketSeconds: series.Width,
		Media:         media,
		Buckets:       Points(series),
		Stats:         stats,
	}
}

// Points flattens a series into exportable pairs.
func Points(series bitrate.Series) []Point {
	points := make([]Point, len(series.Buckets))
	for i, b := range series.Buckets {
		points[i] = Point{Time: b.Start, BitrateKbps: b.BitrateKbps}
	}
	return points
}

// Series rebuilds the in-memory series described by the document.
func (d Document) Series() (bitrate.Series, error) {
	width := d.BucketSeconds
	if width == 0 {
		width = inferWidth(d.Buckets)
	}
	return seriesFromPoints(d.Buckets, width)
}

func seriesFromPoints(points []Point, width float64) (bitrate.Series, error) {
	if err := bitrate.ValidateWidth(width); err != nil {
		return bitrate.Series{}, err
	}
	series := bitrate.Series{Width: width, Buckets: make([]bitrate.Bucket, len(points))}
	for i, p := range points {
		if math.IsNaN(p.BitrateKbps) || p.BitrateKbps < 0 {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "import", "series",
				fmt.Sprintf("row %d has invalid bitrate %v", i+1, p.BitrateKbps), nil)
		}
		series.Buckets[i] = bitrate.Bucket{Index: i, Start: p.Time, BitrateKbps: p.BitrateKbps}
	}
	return series, nil
}

func inferWidth(points []Point) float64 {
	if len(points) < 2 {
		return bitrate.DefaultBucketSeconds
	}
	if step := points[1].Time - points[0].Time; step > 0 {
		return step
	}
	return bitrate.DefaultBucketSeconds
}
