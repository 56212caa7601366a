package config

const (
	defaultStateDir          = "~/.local/share/montage"
	defaultLogDir            = "~/.local/share/montage/logs"
	defaultAudioPath         = "./bgm.mp3"
	defaultDisplayDuration   = 5.0
	defaultFadeDuration      = 1.0
	defaultZoomRate          = 0.05
	defaultFPS               = 30
	defaultBitrate           = "5000k"
	defaultPreset            = "slow"
	defaultCRF               = 18
	defaultVideoCodec        = "libx264"
	defaultAudioCodec        = "aac"
	defaultPixelFormat       = "yuv420p"
	defaultFFmpegBinary      = "ffmpeg"
	defaultFFprobeBinary     = "ffprobe"
	defaultHistoryEnabled    = true
	defaultHistoryRetainDays = 90
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Slideshow: Slideshow{
			AudioPath:       defaultAudioPath,
			DisplayDuration: defaultDisplayDuration,
			FadeDuration:    defaultFadeDuration,
			ZoomRate:        defaultZoomRate,
		},
		Encoder: Encoder{
			FPS:           defaultFPS,
			Bitrate:       defaultBitrate,
			Preset:        defaultPreset,
			CRF:           defaultCRF,
			VideoCodec:    defaultVideoCodec,
			AudioCodec:    defaultAudioCodec,
			PixelFormat:   defaultPixelFormat,
			FFmpegBinary:  defaultFFmpegBinary,
			FFprobeBinary: defaultFFprobeBinary,
		},
		History: History{
			Enabled:       defaultHistoryEnabled,
			RetentionDays: defaultHistoryRetainDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
