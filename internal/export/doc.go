// Package export writes and reads the file-based representations of a
// bitrate series: CSV, JSON, and a human-readable stats report.
//
// CSV and JSON writers use shortest round-trip float formatting so ReadCSV and
// ReadJSON reproduce the exact (time, bitrate) pairs that were written. All
// writers go through fileutil.WriteAtomic and tag failures with
// failures.ErrIO.
package export
