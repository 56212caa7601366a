// Package config loads, normalizes, and validates montage configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads .env files, and honours the environment
// overrides BGM_PATH, DISPLAY_DURATION, FADE_DURATION, FPS, BITRATE,
// FFMPEG_PRESET and CRF. The Config type centralizes every knob the CLI and
// the slideshow assembler need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
