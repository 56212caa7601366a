package ffmpeg

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"montage/internal/logging"
	"montage/internal/services"
)

const stderrTailLines = 12

// Runner executes ffmpeg invocations.
type Runner struct {
	binary string
	exec   Executor
	logger *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger attaches a logger for ffmpeg diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// New constructs a Runner for the given ffmpeg binary.
func New(binary string, opts ...Option) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	r := &Runner{
		binary: binary,
		exec:   commandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes ffmpeg with args. When args request `-progress pipe:1`, each
// completed progress block is passed to onProgress with Percent computed
// against total.
func (r *Runner) Run(ctx context.Context, args []string, total time.Duration, onProgress func(Progress)) error {
	parser := newProgressParser(total)
	tail := make([]string, 0, stderrTailLines)

	handle := func(line string) {
		if isProgressLine(line) {
			if snapshot, ok := parser.Feed(line); ok && onProgress != nil {
				onProgress(snapshot)
			}
			return
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return
		}
		r.logger.Debug("ffmpeg output", logging.String("line", trimmed))
		if len(tail) == stderrTailLines {
			tail = append(tail[:0], tail[1:]...)
		}
		tail = append(tail, trimmed)
	}

	started := time.Now()
	err := r.exec.Run(ctx, r.binary, args, handle)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return services.Wrap(services.ErrExternalTool, "encode", "run ffmpeg", strings.Join(tail, "; "), err)
	}
	r.logger.Debug("ffmpeg finished", logging.Duration("stage_duration", time.Since(started)))
	return nil
}
