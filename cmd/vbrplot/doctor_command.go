package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"vbrplot/internal/deps"
	"vbrplot/internal/failures"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that external tools are available",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(cmd.Context(), []deps.Requirement{deps.FFprobe(cfg.FFprobeBinary())})
			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(out, line)
			}
			lines, missing := dependencyLines(statuses, colorize)
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if len(missing) > 0 {
				return failures.Wrap(failures.ErrExtraction, "doctor", "dependencies",
					"missing "+strings.Join(missing, ", "), nil)
			}
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) ([]string, []string) {
	lines := make([]string, 0, len(statuses))
	var missing []string
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			lines = append(lines, renderStatusLine(dep.Name, dependencyKind(dep), message, colorize))
			if dep.Version != "" {
				lines = append(lines, renderStatusLine("Version", statusInfo, dep.Version, colorize))
			}
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		if !dep.Optional {
			missing = append(missing, dep.Name)
		}
		lines = append(lines, renderStatusLine(dep.Name, dependencyKind(dep), detail, colorize))
	}
	return lines, missing
}
