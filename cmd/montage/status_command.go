package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"montage/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show dependency, directory and history status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("System", colorize)
			lines = append(lines, renderStatusLine("Config", statusInfo, ctx.configPath, colorize))
			lines = append(lines, preflightLine(preflight.CheckRunLock(cfg), statusError, colorize))
			lines = append(lines, preflightLine(preflight.CheckHistoryFromConfig(cmd.Context(), cfg), statusWarn, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			lines = append(lines, dependencyLines(preflight.CheckSystemDeps(cmd.Context(), cfg), colorize)...)

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Paths", colorize)...)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				lines = append(lines, preflightLine(result, statusError, colorize))
			}
			lines = append(lines, preflightLine(preflight.CheckAudio("Default audio", cfg.Slideshow.AudioPath), statusWarn, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Slideshow", colorize)...)
			lines = append(lines, renderStatusLine("Timing", statusInfo, fmt.Sprintf("%gs per image, %gs fades, zoom %g/s",
				cfg.Slideshow.DisplayDuration, cfg.Slideshow.FadeDuration, cfg.Slideshow.ZoomRate), colorize))
			lines = append(lines, renderStatusLine("Encoder", statusInfo, fmt.Sprintf("%s %s crf %d, %s, %d fps",
				cfg.Encoder.VideoCodec, cfg.Encoder.Preset, cfg.Encoder.CRF, cfg.Encoder.Bitrate, cfg.Encoder.FPS), colorize))
			lines = append(lines, renderStatusLine("History", statusInfo, fmt.Sprintf("enabled: %s, retention %d days",
				yesNo(cfg.History.Enabled), cfg.History.RetentionDays), colorize))

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}
