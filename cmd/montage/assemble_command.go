package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"montage/internal/config"
	"montage/internal/ffmpeg"
	"montage/internal/history"
	"montage/internal/logging"
	"montage/internal/preflight"
	"montage/internal/runlock"
	"montage/internal/services"
	"montage/internal/slideshow"
)

type assembleOptions struct {
	audio           string
	displayDuration float64
	fadeDuration    float64
	fps             int
	bitrate         string
	preset          string
	crf             int
	zoomRate        float64
	dryRun          bool
	noProgress      bool
}

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var opts assembleOptions

	cmd := &cobra.Command{
		Use:   "assemble <image>...",
		Short: "Build a slideshow video from images and a background track",
		Long: `Build a slideshow video from images and a background track.

Images are shown in argument order, each for --display-duration seconds with a
slow zoom and fades. The video is cut to the length of the audio when the
audio is shorter, and is written next to the first image as <uuid>.mp4.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			runCfg, err := applyAssembleFlags(cmd, *cfg, opts)
			if err != nil {
				return err
			}
			images, err := absolutePaths(args)
			if err != nil {
				return err
			}
			return runAssemble(cmd, &runCfg, logger, images, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.audio, "audio", "a", "", "Background audio file (default slideshow.audio_path / BGM_PATH)")
	cmd.Flags().Float64Var(&opts.displayDuration, "display-duration", 0, "Seconds each image is shown")
	cmd.Flags().Float64Var(&opts.fadeDuration, "fade-duration", 0, "Seconds for each fade in/out")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "Output frame rate")
	cmd.Flags().StringVar(&opts.bitrate, "bitrate", "", "Target video bitrate (e.g. 5000k)")
	cmd.Flags().StringVar(&opts.preset, "preset", "", "Encoder preset (e.g. slow)")
	cmd.Flags().IntVar(&opts.crf, "crf", 0, "Constant rate factor, 0-51")
	cmd.Flags().Float64Var(&opts.zoomRate, "zoom-rate", 0, "Zoom added per second of each image")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the ffmpeg command without encoding")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the terminal progress bar")
	return cmd
}

// applyAssembleFlags overlays explicitly set flags on a copy of the config and
// re-validates it.
func applyAssembleFlags(cmd *cobra.Command, cfg config.Config, opts assembleOptions) (config.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("audio") {
		path, err := config.ExpandPath(strings.TrimSpace(opts.audio))
		if err != nil {
			return cfg, err
		}
		cfg.Slideshow.AudioPath = path
	}
	if flags.Changed("display-duration") {
		cfg.Slideshow.DisplayDuration = opts.displayDuration
	}
	if flags.Changed("fade-duration") {
		cfg.Slideshow.FadeDuration = opts.fadeDuration
	}
	if flags.Changed("zoom-rate") {
		cfg.Slideshow.ZoomRate = opts.zoomRate
	}
	if flags.Changed("fps") {
		cfg.Encoder.FPS = opts.fps
	}
	if flags.Changed("bitrate") {
		cfg.Encoder.Bitrate = strings.TrimSpace(opts.bitrate)
	}
	if flags.Changed("preset") {
		cfg.Encoder.Preset = strings.ToLower(strings.TrimSpace(opts.preset))
	}
	if flags.Changed("crf") {
		cfg.Encoder.CRF = opts.crf
	}
	if err := cfg.Validate(); err != nil {
		return cfg, usageError{err: err}
	}
	return cfg, nil
}

func absolutePaths(args []string) ([]string, error) {
	images := make([]string, 0, len(args))
	for _, arg := range args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", arg, err)
		}
		images = append(images, abs)
	}
	return images, nil
}

func runAssemble(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, images []string, opts assembleOptions) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	params := slideshow.ParamsFromConfig(cfg)
	audio := cfg.Slideshow.AudioPath

	if opts.dryRun {
		asm := slideshow.NewFromConfig(cfg, logger)
		plan, err := asm.DryRun(cmd.Context(), images, audio, params)
		if err != nil {
			return err
		}
		printPlan(stdout, cfg.Encoder.FFmpegBinary, plan)
		return nil
	}

	if failed, ok := preflight.FirstFailure(preflight.RunAll(cmd.Context(), cfg)); ok {
		return services.Wrap(services.ErrConfiguration, "preflight", failed.Name, failed.Detail, nil)
	}

	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("failed to release run lock", logging.Error(err))
		}
	}()

	runCtx := cmd.Context()
	var store *history.Store
	var run *history.Run
	if cfg.History.Enabled {
		store, run, err = beginHistory(runCtx, cfg, logger, images, audio)
		if err != nil {
			logging.WarnWithContext(logger, "run history unavailable", "history_unavailable",
				logging.Error(err),
				logging.String(logging.FieldImpact, "this run will not appear in `montage history`"),
			)
		}
		if store != nil {
			defer store.Close()
		}
		if run != nil {
			runCtx = services.WithRunID(runCtx, run.ID)
		}
	}

	var bar *progressbar.ProgressBar
	asmOpts := []slideshow.Option{}
	if !opts.noProgress && shouldColorize(stderr) {
		bar = newEncodeBar(stderr)
		asmOpts = append(asmOpts, slideshow.WithProgress(func(p ffmpeg.Progress) {
			if p.Percent >= 0 {
				_ = bar.Set(int(p.Percent))
			}
		}))
	}

	asm := slideshow.NewFromConfig(cfg, logger, asmOpts...)
	result, err := asm.Assemble(runCtx, images, audio, params)
	if bar != nil {
		if err == nil {
			_ = bar.Finish()
		}
		fmt.Fprintln(stderr)
	}
	if err != nil {
		if store != nil && run != nil {
			// The parent context may already be cancelled.
			if ferr := store.Fail(context.WithoutCancel(runCtx), run.ID, err); ferr != nil {
				logger.Warn("failed to record run failure", logging.Error(ferr))
			}
		}
		return err
	}

	if store != nil && run != nil {
		outcome := history.Outcome{OutputPath: result.OutputPath, OutputDuration: result.Duration, SizeBytes: result.SizeBytes}
		if err := store.Complete(runCtx, run.ID, outcome); err != nil {
			logger.Warn("failed to record run completion", logging.Error(err))
		}
	}

	fmt.Fprintln(stdout, result.OutputPath)
	summary := fmt.Sprintf("%d images, %s, %s, %s", result.Images, formatSeconds(result.Duration),
		humanize.IBytes(uint64(max(result.SizeBytes, 0))), result.Elapsed.Round(time.Second))
	if result.Audio < result.Planned {
		summary += fmt.Sprintf(" (trimmed from %s to match audio)", formatSeconds(result.Planned))
	}
	fmt.Fprintln(stderr, summary)
	return nil
}

func beginHistory(ctx context.Context, cfg *config.Config, logger *slog.Logger, images []string, audio string) (*history.Store, *history.Run, error) {
	store, err := history.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	if n, err := store.ResetInterrupted(ctx); err != nil {
		logger.Warn("failed to reset interrupted runs", logging.Error(err))
	} else if n > 0 {
		logger.Info("marked interrupted runs as failed", logging.Int64("count", n))
	}
	if cfg.History.RetentionDays > 0 {
		retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
		if n, err := store.Prune(ctx, retention); err != nil {
			logger.Warn("failed to prune history", logging.Error(err))
		} else if n > 0 {
			logger.Debug("pruned history", logging.Int64("count", n))
		}
	}
	run, err := store.Begin(ctx, images, audio)
	if err != nil {
		return store, nil, err
	}
	return store, run, nil
}

func newEncodeBar(w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(100,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Encoding"),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
	)
}

func printPlan(w io.Writer, binary string, plan slideshow.Plan) {
	tl := plan.Timeline
	fmt.Fprintf(w, "Output:   %s\n", plan.OutputPath)
	fmt.Fprintf(w, "Canvas:   %s\n", tl.Canvas)
	fmt.Fprintf(w, "Images:   %d used, %d skipped\n", len(tl.Segments), tl.Skipped)
	fmt.Fprintf(w, "Duration: %s (slideshow %s, audio %s)\n", formatSeconds(tl.Output), formatSeconds(tl.Total), formatSeconds(tl.Audio))
	fmt.Fprintln(w)
	fmt.Fprintln(w, shellJoin(append([]string{binary}, plan.Args...)))
}

func formatSeconds(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

// shellJoin quotes arguments for copy-pasting into a POSIX shell.
func shellJoin(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg != "" && strings.IndexFunc(arg, needsShellQuote) < 0 {
			quoted[i] = arg
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
	}
	return strings.Join(quoted, " ")
}

func needsShellQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./:+=,@%", r)
}
