package slideshow

import (
	"fmt"
	"math"
	"strings"
	"time"

	"montage/internal/config"
)

// Params are the per-run encoding and effect settings. They are immutable for
// the duration of one Assemble call.
type Params struct {
	DisplayDuration time.Duration
	FadeDuration    time.Duration
	FPS             int
	Bitrate         string
	Preset          string
	CRF             int
	ZoomRate        float64
	VideoCodec      string
	AudioCodec      string
	PixelFormat     string
}

// DefaultParams returns the stock slideshow look: 5s per image, 1s fades,
// 30 fps, 5000k, preset slow, CRF 18.
func DefaultParams() Params {
	cfg := config.Default()
	return ParamsFromConfig(&cfg)
}

// ParamsFromConfig converts the configured slideshow and encoder sections.
func ParamsFromConfig(cfg *config.Config) Params {
	if cfg == nil {
		return DefaultParams()
	}
	return Params{
		DisplayDuration: secondsToDuration(cfg.Slideshow.DisplayDuration),
		FadeDuration:    secondsToDuration(cfg.Slideshow.FadeDuration),
		FPS:             cfg.Encoder.FPS,
		Bitrate:         cfg.Encoder.Bitrate,
		Preset:          cfg.Encoder.Preset,
		CRF:             cfg.Encoder.CRF,
		ZoomRate:        cfg.Slideshow.ZoomRate,
		VideoCodec:      cfg.Encoder.VideoCodec,
		AudioCodec:      cfg.Encoder.AudioCodec,
		PixelFormat:     cfg.Encoder.PixelFormat,
	}
}

// Check rejects parameter combinations ffmpeg cannot honour.
func (p Params) Check() error {
	switch {
	case p.DisplayDuration <= 0:
		return &ValidationError{Field: "display_duration", Reason: "display duration must be positive"}
	case p.FadeDuration < 0:
		return &ValidationError{Field: "fade_duration", Reason: "fade duration must not be negative"}
	case p.FadeDuration > p.DisplayDuration:
		return &ValidationError{Field: "fade_duration", Reason: "fade duration must not exceed display duration"}
	case p.FPS <= 0:
		return &ValidationError{Field: "fps", Reason: "frame rate must be positive"}
	case p.CRF < 0 || p.CRF > 51:
		return &ValidationError{Field: "crf", Reason: fmt.Sprintf("crf %d outside 0-51", p.CRF)}
	case p.ZoomRate < 0 || math.IsNaN(p.ZoomRate) || math.IsInf(p.ZoomRate, 0):
		return &ValidationError{Field: "zoom_rate", Reason: "zoom rate must be a non-negative number"}
	case strings.TrimSpace(p.VideoCodec) == "":
		return &ValidationError{Field: "video_codec", Reason: "video codec is required"}
	case strings.TrimSpace(p.AudioCodec) == "":
		return &ValidationError{Field: "audio_codec", Reason: "audio codec is required"}
	}
	return nil
}

// frameDuration is the length of a single output frame.
func (p Params) frameDuration() time.Duration {
	if p.FPS <= 0 {
		return 0
	}
	return time.Second / time.Duration(p.FPS)
}

func secondsToDuration(seconds float64) time.Duration {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0
	}
	return time.Duration(math.Round(seconds * float64(time.Second)))
}
