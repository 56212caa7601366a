package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that override the slideshow and encoder settings
// from the config file.
const (
	EnvAudioPath       = "BGM_PATH"
	EnvDisplayDuration = "DISPLAY_DURATION"
	EnvFadeDuration    = "FADE_DURATION"
	EnvFPS             = "FPS"
	EnvBitrate         = "BITRATE"
	EnvPreset          = "FFMPEG_PRESET"
	EnvCRF             = "CRF"
)

func (c *Config) applyEnv() error {
	if value, ok := lookupEnv(EnvAudioPath); ok {
		c.Slideshow.AudioPath = value
	}
	if value, ok := lookupEnv(EnvDisplayDuration); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", EnvDisplayDuration, value)
		}
		c.Slideshow.DisplayDuration = parsed
	}
	if value, ok := lookupEnv(EnvFadeDuration); ok {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", EnvFadeDuration, value)
		}
		c.Slideshow.FadeDuration = parsed
	}
	if value, ok := lookupEnv(EnvFPS); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvFPS, value)
		}
		c.Encoder.FPS = parsed
	}
	if value, ok := lookupEnv(EnvBitrate); ok {
		c.Encoder.Bitrate = value
	}
	if value, ok := lookupEnv(EnvPreset); ok {
		c.Encoder.Preset = value
	}
	if value, ok := lookupEnv(EnvCRF); ok {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", EnvCRF, value)
		}
		c.Encoder.CRF = parsed
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}
