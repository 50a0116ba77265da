// Package bitrate turns per-packet sizes into a bucketed bitrate series and
// summarizes it.
//
// Aggregate is the only constructor for Series; it allocates one bucket per
// fixed-width window between zero and the last packet timestamp so the series
// is always gapless. Summarize derives min/max/average statistics from a
// finished series. Neither function mutates its input.
package bitrate
