package config

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var (
	bitratePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?[kKM]?$`)
	x264Presets    = map[string]struct{}{
		"ultrafast": {},
		"superfast": {},
		"veryfast":  {},
		"faster":    {},
		"fast":      {},
		"medium":    {},
		"slow":      {},
		"slower":    {},
		"veryslow":  {},
		"placebo":   {},
	}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSlideshow(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSlideshow() error {
	s := c.Slideshow
	if math.IsNaN(s.DisplayDuration) || s.DisplayDuration <= 0 {
		return errors.New("slideshow.display_duration must be positive (seconds)")
	}
	if math.IsNaN(s.FadeDuration) || s.FadeDuration < 0 {
		return errors.New("slideshow.fade_duration must be >= 0 (seconds)")
	}
	if s.FadeDuration > s.DisplayDuration {
		return fmt.Errorf("slideshow.fade_duration (%gs) must not exceed slideshow.display_duration (%gs)", s.FadeDuration, s.DisplayDuration)
	}
	if math.IsNaN(s.ZoomRate) || s.ZoomRate < 0 {
		return errors.New("slideshow.zoom_rate must be >= 0")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	e := c.Encoder
	if e.FPS <= 0 {
		return errors.New("encoder.fps must be positive")
	}
	if e.Bitrate != "" && !bitratePattern.MatchString(e.Bitrate) {
		return fmt.Errorf("encoder.bitrate %q is not a valid bitrate (e.g. 5000k)", e.Bitrate)
	}
	if e.CRF < 0 || e.CRF > 51 {
		return errors.New("encoder.crf must be between 0 and 51")
	}
	if e.VideoCodec == defaultVideoCodec {
		if _, ok := x264Presets[e.Preset]; !ok {
			return fmt.Errorf("encoder.preset %q is not a libx264 preset", e.Preset)
		}
	}
	return nil
}
