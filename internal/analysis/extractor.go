package analysis

import (
	"context"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/export"
	"vbrplot/internal/media/ffprobe"
)

// Extraction is the packet list and stream metadata for one input.
type Extraction struct {
	Packets []bitrate.Packet
	// Skipped counts packets that carried no usable timestamp.
	Skipped int
	Media   *export.Media
}

// Extractor produces packets for a media file.
type Extractor interface {
	Extract(ctx context.Context, path string) (Extraction, error)
}

// FFprobeExtractor extracts packets with a single ffprobe invocation.
type FFprobeExtractor struct {
	Binary string
	Stream string
}

// Extract implements Extractor.
func (e FFprobeExtractor) Extract(ctx context.Context, path string) (Extraction, error) {
	result, err := ffprobe.Probe(ctx, ffprobe.Options{Binary: e.Binary, Stream: e.Stream}, path)
	if err != nil {
		return Extraction{}, err
	}
	packets, skipped, err := result.BitratePackets()
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Packets: packets, Skipped: skipped, Media: mediaFromProbe(result)}, nil
}

func mediaFromProbe(result ffprobe.Result) *export.Media {
	media := &export.Media{
		Container:       result.Format.FormatName,
		DurationSeconds: result.DurationSeconds(),
		DeclaredBitRate: result.BitRate(),
	}
	if stream, ok := result.Stream(); ok {
		media.Codec = stream.CodecName
		media.Width = stream.Width
		media.Height = stream.Height
	}
	return media
}
