package main

import (
	"github.com/spf13/cobra"

	"vbrplot/internal/logging"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		opts   outputOptions
		bucket float64
	)

	cmd := &cobra.Command{
		Use:   "render <series.json|series.csv>",
		Short: "Re-render plots and exports from a saved series",
		Long: `render loads a series written by --export-json or --export-csv and runs the
requested outputs without probing the video again.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return missingInputError(cmd, "series path is required")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			req, err := opts.request(args[0], cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("bucket") {
				req.BucketSeconds = bucket
			}

			runCtx := logging.WithRunID(cmd.Context())
			result, err := newPipeline(cmd, cfg, logger).Render(runCtx, req)
			printStatsTable(cmd, opts.stats, req, result)
			return err
		},
	}
	opts.bind(cmd)
	cmd.Flags().Float64Var(&bucket, "bucket", 0, "Bucket width in seconds for series files that do not record it (CSV)")
	return cmd
}
