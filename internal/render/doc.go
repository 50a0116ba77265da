// Package render draws a bitrate series as a static image, an interactive
// HTML chart, a terminal chart, or a short-lived browser view.
//
// Every renderer takes a Chart, which bundles the series with an optional
// stats overlay. Reference lines (min, max, average, target) are derived from
// the overlay in one place so the image and HTML outputs stay consistent.
// HTML pages are self-contained unless an assets host is configured, in
// which case go-echarts renders them against that host.
// File outputs go through fileutil.WriteAtomic and are tagged with
// failures.ErrIO; unknown image extensions are rejected with
// failures.ErrUnsupportedFormat before anything is drawn.
package render
