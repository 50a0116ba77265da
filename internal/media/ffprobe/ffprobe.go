package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"vbrplot/internal/bitrate"
	"vbrplot/internal/failures"
)

// DefaultStream selects the first video stream.
const DefaultStream = "v:0"

const stage = "probe"

// Options controls how ffprobe is invoked.
type Options struct {
	Binary string
	Stream string
}

// Result represents the parsed output from a packet probe.
type Result struct {
	Packets []RawPacket `json:"packets"`
	Streams []Stream    `json:"streams"`
	Format  Format      `json:"format"`
	raw     []byte
}

// RawPacket is a packet entry exactly as ffprobe reports it.
type RawPacket struct {
	PTSTime string `json:"pts_time"`
	DTSTime string `json:"dts_time"`
	Size    string `json:"size"`
}

// Stream describes the probed stream.
type Stream struct {
	Index     int    `json:"index"`
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"`
	Duration  string `json:"duration"`
	BitRate   string `json:"bit_rate"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
	FormatName string `json:"format_name"`
}

// Args returns the ffprobe argument list used for path.
func Args(stream, path string) []string {
	stream = strings.TrimSpace(stream)
	if stream == "" {
		stream = DefaultStream
	}
	return []string{
		"-v", "error",
		"-hide_banner",
		"-select_streams", stream,
		"-show_entries", "packet=pts_time,dts_time,size:stream=index,codec_name,codec_type,width,height,bit_rate,duration:format=filename,format_name,duration,size,bit_rate",
		"-of", "json",
		"--", path,
	}
}

// Probe validates path, executes ffprobe against it and decodes the JSON
// response. Every failure is tagged with failures.ErrExtraction.
func Probe(ctx context.Context, opts Options, path string) (Result, error) {
	binary := strings.TrimSpace(opts.Binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, failures.Wrap(failures.ErrExtraction, stage, "input", "empty path", nil)
	}
	if err := checkInput(path); err != nil {
		return Result{}, err
	}

	cmd := exec.CommandContext(ctx, binary, Args(opts.Stream, path)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = "ffprobe failed"
		}
		return Result{}, failures.Wrap(failures.ErrExtraction, stage, "run "+binary, detail, err)
	}

	return Parse(stdout.Bytes())
}

// Parse decodes an ffprobe JSON document.
func Parse(payload []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return Result{}, failures.Wrap(failures.ErrExtraction, stage, "parse", "invalid ffprobe json", err)
	}
	result.raw = append([]byte(nil), payload...)
	return result, nil
}

func checkInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return failures.Wrap(failures.ErrExtraction, stage, "input", fmt.Sprintf("%s does not exist", path), nil)
		}
		return failures.Wrap(failures.ErrExtraction, stage, "input", "stat "+path, err)
	}
	if info.IsDir() {
		return failures.Wrap(failures.ErrExtraction, stage, "input", fmt.Sprintf("%s is a directory", path), nil)
	}
	return sniff(path)
}

// RawJSON returns the raw ffprobe JSON payload.
func (r Result) RawJSON() []byte {
	return append([]byte(nil), r.raw...)
}

// BitratePackets converts the raw packet list. The presentation timestamp is
// preferred; the decode timestamp is used when it is missing. Packets with
// neither are skipped and counted.
func (r Result) BitratePackets() ([]bitrate.Packet, int, error) {
	packets := make([]bitrate.Packet, 0, len(r.Packets))
	skipped := 0
	for i, raw := range r.Packets {
		size, err := parseSize(raw.Size)
		if err != nil {
			return nil, 0, failures.Wrap(failures.ErrExtraction, stage, "parse", fmt.Sprintf("packet %d size %q", i, raw.Size), err)
		}
		ts, ok, err := packetTime(raw)
		if err != nil {
			return nil, 0, failures.Wrap(failures.ErrExtraction, stage, "parse", fmt.Sprintf("packet %d timestamp", i), err)
		}
		if !ok {
			skipped++
			continue
		}
		packets = append(packets, bitrate.Packet{Time: ts, Size: size})
	}
	return packets, skipped, nil
}

// Stream returns the probed stream, if ffprobe reported one.
func (r Result) Stream() (Stream, bool) {
	if len(r.Streams) == 0 {
		return Stream{}, false
	}
	return r.Streams[0], true
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

// SizeBytes returns the reported container size in bytes, or 0 when unavailable.
func (r Result) SizeBytes() int64 {
	size := parseFloat(r.Format.Size)
	if math.IsNaN(size) || size < 0 {
		return 0
	}
	return int64(size)
}

// BitRate returns the declared stream bitrate in bits per second, falling back
// to the container bitrate, or 0 when unavailable.
func (r Result) BitRate() int64 {
	if stream, ok := r.Stream(); ok {
		if rate := parseFloat(stream.BitRate); !math.IsNaN(rate) && rate > 0 {
			return int64(rate)
		}
	}
	rate := parseFloat(r.Format.BitRate)
	if math.IsNaN(rate) || rate < 0 {
		return 0
	}
	return int64(rate)
}

func packetTime(raw RawPacket) (float64, bool, error) {
	for _, candidate := range []string{raw.PTSTime, raw.DTSTime} {
		cleaned := strings.TrimSpace(candidate)
		if cleaned == "" || strings.EqualFold(cleaned, "N/A") {
			continue
		}
		value, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false, err
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return 0, false, fmt.Errorf("non-finite timestamp %q", cleaned)
		}
		return value, true, nil
	}
	return 0, false, nil
}

func parseSize(value string) (int64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, errors.New("missing size")
	}
	size, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, err
	}
	if size < 0 {
		return 0, fmt.Errorf("negative size %d", size)
	}
	return size, nil
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}
