package export

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

// WriteStats writes a human-readable summary of stats to path.
func WriteStats(path, source string, width float64, stats bitrate.Stats) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeStats(w, source, width, stats)
	})
	if err != nil {
		return failures.Wrap(failures.ErrIO, "stats", "write "+path, "", err)
	}
	return nil
}

// EncodeStats renders the stats report, one "Label: value" line per field.
func EncodeStats(w io.Writer, source string, width float64, stats bitrate.Stats) error {
	p := message.NewPrinter(language.English)
	for _, line := range StatsLines(p, source, width, stats) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line[0], line[1]); err != nil {
			return err
		}
	}
	return nil
}

// StatsLines returns the (label, value) pairs of the stats report.
func StatsLines(p *message.Printer, source string, width float64, stats bitrate.Stats) [][2]string {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	lines := make([][2]string, 0, 10)
	if source != "" {
		lines = append(lines, [2]string{"Source", source})
	}
	lines = append(lines,
		[2]string{"Bucket width", p.Sprintf("%g s", width)},
		[2]string{"Min bitrate", p.Sprintf("%.2f kbps", stats.Min)},
		[2]string{"Max bitrate", p.Sprintf("%.2f kbps", stats.Max)},
		[2]string{"Average bitrate", p.Sprintf("%.2f kbps", stats.Average)},
		[2]string{"Peak at", p.Sprintf("%.2f s", stats.PeakTime)},
		[2]string{"Duration", p.Sprintf("%.2f s", stats.Duration)},
		[2]string{"Total size", humanize.Bytes(uint64(max(stats.TotalBytes, 0)))},
		[2]string{"Buckets", p.Sprintf("%d", stats.Buckets)},
	)
	if stats.HasTarget() {
		target := *stats.Target
		lines = append(lines, [2]string{"Target bitrate", p.Sprintf("%.2f kbps", target)})
		if target > 0 {
			lines = append(lines, [2]string{"Average vs target", p.Sprintf("%+.1f%%", (stats.Average-target)/target*100)})
		}
	}
	return lines
}
