package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string
	var opts analyzeOptions

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "vbrplot [flags] <video>",
		Short: "Plot the variable bitrate of a video file",
		Long: `vbrplot runs ffprobe once against a video, sums packet sizes into fixed
time buckets and renders the resulting bitrate curve.

Without output flags the chart opens in the default browser.`,
		Example: `  vbrplot movie.mkv
  vbrplot --bucket 0.5 --save-plot bitrate.png --stats movie.mkv
  vbrplot --export-json series.json --export-csv series.csv movie.mp4`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return missingInputError(cmd, "video path is required")
			}
			return runAnalyze(cmd, ctx, &opts, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format (console, json)")

	flags := rootCmd.Flags()
	flags.Float64Var(&opts.bucket, "bucket", 0, "Bucket width in seconds (default from config, 1)")
	flags.StringVar(&opts.stream, "stream", "", "ffprobe stream selector (default v:0)")
	flags.StringVar(&opts.ffprobe, "ffprobe", "", "ffprobe binary")
	opts.outputs.bind(rootCmd)

	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}
