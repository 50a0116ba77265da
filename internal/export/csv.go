package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/failures"
	"vbrplot/internal/fileutil"
)

var csvHeader = []string{"time_seconds", "bitrate_kbps"}

// WriteCSV writes one row per bucket, preceded by a header row.
func WriteCSV(path string, series bitrate.Series) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeCSV(w, series)
	})
	if err != nil {
		return failures.Wrap(failures.ErrIO, "csv", "write "+path, "", err)
	}
	return nil
}

// EncodeCSV writes the CSV representation of series to w.
func EncodeCSV(w io.Writer, series bitrate.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, b := range series.Buckets {
		record := []string{formatFloat(b.Start), formatFloat(b.BitrateKbps)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV loads a series previously written by WriteCSV. The bucket width is
// inferred from the first two rows.
func ReadCSV(path string) (bitrate.Series, error) {
	return ReadCSVWidth(path, 0)
}

// ReadCSVWidth is ReadCSV with a known bucket width. A width of 0 falls back
// to inference, which cannot recover the width of a single-row file.
func ReadCSVWidth(path string, width float64) (bitrate.Series, error) {
	file, err := os.Open(path)
	if err != nil {
		return bitrate.Series{}, failures.Wrap(failures.ErrIO, "csv", "open "+path, "", err)
	}
	defer file.Close()
	return DecodeCSVWidth(file, width)
}

// DecodeCSV parses the CSV representation of a series.
func DecodeCSV(r io.Reader) (bitrate.Series, error) {
	return DecodeCSVWidth(r, 0)
}

// DecodeCSVWidth parses a CSV series using width instead of inferring it
// when width is non-zero.
func DecodeCSVWidth(r io.Reader, width float64) (bitrate.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read", "missing header", nil)
		}
		return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read", "header", err)
	}
	for i, name := range csvHeader {
		if strings.TrimSpace(header[i]) != name {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read",
				fmt.Sprintf("unexpected header %q", strings.Join(header, ",")), nil)
		}
	}

	var points []Point
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read", "", err)
		}
		ts, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read",
				fmt.Sprintf("row %d time %q", len(points)+1, record[0]), err)
		}
		kbps, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return bitrate.Series{}, failures.Wrap(failures.ErrConfiguration, "csv", "read",
				fmt.Sprintf("row %d bitrate %q", len(points)+1, record[1]), err)
		}
		points = append(points, Point{Time: ts, BitrateKbps: kbps})
	}
	if width == 0 {
		width = inferWidth(points)
	}
	return seriesFromPoints(points, width)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
