package slideshow

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"montage/internal/config"
	"montage/internal/ffmpeg"
	"montage/internal/logging"
	"montage/internal/media/ffprobe"
	"montage/internal/services"
)

// Encoder runs one ffmpeg invocation. *ffmpeg.Runner satisfies it.
type Encoder interface {
	Run(ctx context.Context, args []string, total time.Duration, onProgress func(ffmpeg.Progress)) error
}

// Result describes a finished slideshow.
type Result struct {
	RunID      string
	OutputPath string
	// Planned is the untrimmed slideshow length.
	Planned time.Duration
	// Audio is the probed length of the background track.
	Audio time.Duration
	// Duration is the measured length of OutputPath.
	Duration  time.Duration
	Images    int
	Skipped   int
	Canvas    Size
	SizeBytes int64
	// BitRate is the container bitrate of OutputPath in bits per second.
	BitRate int64
	Elapsed time.Duration
}

// Plan is everything Assemble would hand to ffmpeg.
type Plan struct {
	RunID      string
	Timeline   Timeline
	AudioPath  string
	OutputPath string
	Args       []string
}

// Assembler turns images plus a background track into a video.
type Assembler struct {
	prober     ffprobe.Prober
	encoder    Encoder
	logger     *slog.Logger
	newID      func() string
	onProgress func(ffmpeg.Progress)
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithProber overrides how inputs are inspected.
func WithProber(p ffprobe.Prober) Option {
	return func(a *Assembler) {
		if p != nil {
			a.prober = p
		}
	}
}

// WithEncoder overrides how ffmpeg is executed.
func WithEncoder(e Encoder) Option {
	return func(a *Assembler) {
		if e != nil {
			a.encoder = e
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logging.NewComponentLogger(logger, "slideshow")
	}
}

// WithProgress registers a callback for ffmpeg progress snapshots.
func WithProgress(fn func(ffmpeg.Progress)) Option {
	return func(a *Assembler) {
		a.onProgress = fn
	}
}

// WithIDGenerator replaces the output name generator (tests only).
func WithIDGenerator(fn func() string) Option {
	return func(a *Assembler) {
		if fn != nil {
			a.newID = fn
		}
	}
}

// New constructs an Assembler that shells out to ffprobe and ffmpeg from PATH
// unless overridden.
func New(opts ...Option) *Assembler {
	a := &Assembler{
		prober:  ffprobe.CLI{Binary: "ffprobe"},
		encoder: ffmpeg.New("ffmpeg"),
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewFromConfig wires the configured ffmpeg and ffprobe binaries.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, opts ...Option) *Assembler {
	base := []Option{WithLogger(logger)}
	if cfg != nil {
		base = append(base,
			WithProber(ffprobe.CLI{Binary: cfg.Encoder.FFprobeBinary}),
			WithEncoder(ffmpeg.New(cfg.Encoder.FFmpegBinary, ffmpeg.WithLogger(logger))),
		)
	}
	return New(append(base, opts...)...)
}

// Validate performs the two checks a user can act on: something must be
// selected and the audio track must exist.
func Validate(images []string, audioPath string) error {
	if len(images) == 0 {
		return &ValidationError{Field: "images", Reason: reasonNoImages}
	}
	info, err := os.Stat(audioPath)
	if strings.TrimSpace(audioPath) == "" || err != nil || info.IsDir() {
		return &ValidationError{Field: "audio", Path: audioPath, Reason: reasonAudioMissing}
	}
	return nil
}

// DryRun validates and probes the inputs and returns the ffmpeg invocation
// without running it.
func (a *Assembler) DryRun(ctx context.Context, images []string, audioPath string, params Params) (Plan, error) {
	return a.prepare(ctx, images, audioPath, params)
}

// Assemble builds the slideshow and returns where it was written. Partial
// output is left in place when ffmpeg fails.
func (a *Assembler) Assemble(ctx context.Context, images []string, audioPath string, params Params) (Result, error) {
	started := time.Now()
	plan, err := a.prepare(ctx, images, audioPath, params)
	if err != nil {
		return Result{}, err
	}
	ctx = services.WithStage(services.WithRunID(ctx, plan.RunID), "encode")
	logger := logging.WithContext(ctx, a.logger)

	timeline := plan.Timeline
	logger.Info("encoding slideshow",
		logging.String(logging.FieldEventType, "encode_started"),
		logging.Int("image_count", len(timeline.Segments)),
		logging.String("output", plan.OutputPath),
		logging.Duration("output_duration", timeline.Output),
		logging.String("canvas", timeline.Canvas.String()),
		logging.Int("fps", params.FPS),
		logging.String("bitrate", params.Bitrate),
		logging.String("preset", params.Preset),
		logging.Int("crf", params.CRF),
	)
	logger.Debug("ffmpeg invocation", logging.String("command", strings.Join(plan.Args, " ")))

	sampler := logging.NewProgressSampler(25)
	progress := func(p ffmpeg.Progress) {
		if a.onProgress != nil {
			a.onProgress(p)
		}
		if p.Percent >= 0 && sampler.ShouldLog(p.Percent, "encode") {
			logger.Info("encode progress",
				logging.Float64(logging.FieldProgressPercent, p.Percent),
				logging.Float64("speed", p.Speed),
			)
		}
	}

	if err := a.encoder.Run(ctx, plan.Args, timeline.Output, progress); err != nil {
		logging.ErrorWithContext(logger, "slideshow encode failed", "encode_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see the ffmpeg command"),
		)
		return Result{}, err
	}

	info, err := os.Stat(plan.OutputPath)
	if err != nil {
		return Result{}, services.Wrap(services.ErrExternalTool, "encode", "verify output", "ffmpeg produced no output", err)
	}
	written, err := a.verifyOutput(ctx, plan.OutputPath, timeline.Output, params)
	if err != nil {
		logging.ErrorWithContext(logger, "encoded slideshow failed verification", "verify_failed",
			logging.Error(err),
			logging.String("output", plan.OutputPath),
			logging.String(logging.FieldImpact, "the file was left in place but may be unusable"),
		)
		return Result{}, err
	}

	result := Result{
		RunID:      plan.RunID,
		OutputPath: plan.OutputPath,
		Planned:    timeline.Total,
		Audio:      timeline.Audio,
		Duration:   secondsToDuration(written.DurationSeconds()),
		Images:     len(timeline.Segments),
		Skipped:    timeline.Skipped,
		Canvas:     timeline.Canvas,
		SizeBytes:  written.SizeBytes(),
		BitRate:    written.BitRate(),
		Elapsed:    time.Since(started),
	}
	if result.SizeBytes == 0 {
		result.SizeBytes = info.Size()
	}
	logger.Info("slideshow written",
		logging.String(logging.FieldEventType, "encode_completed"),
		logging.String("output", result.OutputPath),
		logging.Duration("output_duration", result.Duration),
		logging.Int64("output_bytes", result.SizeBytes),
		logging.Duration("stage_duration", result.Elapsed),
	)
	return result, nil
}

// verifyOutput probes the encoded file. It must carry one video and one audio
// stream and must not run longer than want by more than one frame.
func (a *Assembler) verifyOutput(ctx context.Context, path string, want time.Duration, params Params) (ffprobe.Result, error) {
	written, err := a.prober.Probe(ctx, path)
	if err != nil {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, "verify", "inspect output", path, err)
	}
	if v, au := written.VideoStreamCount(), written.AudioStreamCount(); v != 1 || au != 1 {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, "verify", "inspect output",
			fmt.Sprintf("%s has %d video and %d audio streams, want 1 and 1", path, v, au), nil)
	}
	got := secondsToDuration(written.DurationSeconds())
	if got <= 0 {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, "verify", "inspect output",
			fmt.Sprintf("%s reports no duration", path), nil)
	}
	if got > want+params.frameDuration() {
		return ffprobe.Result{}, services.Wrap(services.ErrExternalTool, "verify", "inspect output",
			fmt.Sprintf("%s runs %s, longer than the planned %s", path, got, want), nil)
	}
	return written, nil
}

func (a *Assembler) prepare(ctx context.Context, images []string, audioPath string, params Params) (Plan, error) {
	if err := params.Check(); err != nil {
		return Plan{}, err
	}
	if err := Validate(images, audioPath); err != nil {
		return Plan{}, err
	}

	id := a.newID()
	runID := id
	if existing, ok := services.RunIDFromContext(ctx); ok {
		runID = existing
	}
	ctx = services.WithStage(services.WithRunID(ctx, runID), "probe")
	logger := logging.WithContext(ctx, a.logger)

	dims := make([]Size, len(images))
	for idx, path := range images {
		result, err := a.prober.Probe(ctx, path)
		if err != nil {
			return Plan{}, services.Wrap(services.ErrExternalTool, "probe", "inspect image", path, err)
		}
		width, height, ok := result.Dimensions()
		if !ok {
			return Plan{}, services.Wrap(services.ErrExternalTool, "probe", "inspect image", fmt.Sprintf("%s has no picture", path), nil)
		}
		dims[idx] = Size{Width: width, Height: height}
	}

	audio, err := a.prober.Probe(ctx, audioPath)
	if err != nil {
		return Plan{}, services.Wrap(services.ErrExternalTool, "probe", "inspect audio", audioPath, err)
	}
	if audio.AudioStreamCount() == 0 {
		return Plan{}, services.Wrap(services.ErrExternalTool, "probe", "inspect audio", fmt.Sprintf("%s has no audio stream", audioPath), nil)
	}
	seconds := audio.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return Plan{}, services.Wrap(services.ErrExternalTool, "probe", "inspect audio", fmt.Sprintf("%s reports no duration", audioPath), nil)
	}
	audioDuration := secondsToDuration(seconds)

	timeline := PlanTimeline(images, dims, audioDuration, params)
	if timeline.Truncated() {
		logger.Info("audio shorter than slideshow; trimming video",
			logging.Duration("planned_duration", timeline.Total),
			logging.Duration("audio_duration", audioDuration),
			logging.Int("skipped_images", timeline.Skipped),
		)
	}

	output := OutputPath(images[0], id)
	return Plan{
		RunID:      runID,
		Timeline:   timeline,
		AudioPath:  audioPath,
		OutputPath: output,
		Args:       BuildArgs(timeline, audioPath, output, params),
	}, nil
}
