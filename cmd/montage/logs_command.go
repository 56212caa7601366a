package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"montage/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var lines int
	var follow bool
	var runID string

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show recent montage.log entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.LogPath()
			opts := logs.TailOptions{Offset: -1, Limit: lines, Match: logs.MatchRun(runID)}
			return printLogs(cmd.Context(), cmd.OutOrStdout(), path, opts, follow)
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&runID, "run", "", "Only show lines for this run ID (see `montage history`)")
	return cmd
}

func printLogs(ctx context.Context, out io.Writer, path string, opts logs.TailOptions, follow bool) error {
	result, err := logs.Tail(ctx, path, opts)
	if err != nil {
		return err
	}
	for _, line := range result.Lines {
		fmt.Fprintln(out, line)
	}
	if !follow {
		return nil
	}

	opts.Follow = true
	opts.Wait = 5 * time.Second
	for {
		opts.Offset = result.Offset
		result, err = logs.Tail(ctx, path, opts)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		for _, line := range result.Lines {
			fmt.Fprintln(out, line)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}
