package config

const (
	defaultFFprobeBinary = "ffprobe"
	defaultStream        = "v:0"
	defaultBucketSeconds = 1.0
	defaultPlotWidth     = 10.0
	defaultPlotHeight    = 5.0
	defaultHTMLWidth     = "1200px"
	defaultHTMLHeight    = "540px"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"

	ffprobeEnv = "VBRPLOT_FFPROBE"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Probe: Probe{
			Stream: defaultStream,
		},
		Analysis: Analysis{
			BucketSeconds: defaultBucketSeconds,
		},
		Plot: Plot{
			WidthInches:  defaultPlotWidth,
			HeightInches: defaultPlotHeight,
		},
		HTML: HTML{
			Width:  defaultHTMLWidth,
			Height: defaultHTMLHeight,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
