package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"montage/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvAudioPath,
		config.EnvDisplayDuration,
		config.EnvFadeDuration,
		config.EnvFPS,
		config.EnvBitrate,
		config.EnvPreset,
		config.EnvCRF,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	clearEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	chdir(t, t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "montage")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Slideshow.AudioPath) || filepath.Base(cfg.Slideshow.AudioPath) != "bgm.mp3" {
		t.Fatalf("unexpected audio path: %q", cfg.Slideshow.AudioPath)
	}
	if cfg.Slideshow.DisplayDuration != 5 || cfg.Slideshow.FadeDuration != 1 {
		t.Fatalf("unexpected durations: %+v", cfg.Slideshow)
	}
	if cfg.Encoder.FPS != 30 || cfg.Encoder.Bitrate != "5000k" || cfg.Encoder.Preset != "slow" || cfg.Encoder.CRF != 18 {
		t.Fatalf("unexpected encoder defaults: %+v", cfg.Encoder)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.StateDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
	if cfg.HistoryPath() != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
}

func TestLoadCustomPath(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "montage.toml")

	type payload struct {
		Slideshow struct {
			AudioPath       string  `toml:"audio_path"`
			DisplayDuration float64 `toml:"display_duration"`
		} `toml:"slideshow"`
		Encoder struct {
			FPS    int    `toml:"fps"`
			Preset string `toml:"preset"`
		} `toml:"encoder"`
	}
	custom := payload{}
	custom.Slideshow.AudioPath = filepath.Join(tempDir, "track.mp3")
	custom.Slideshow.DisplayDuration = 3.5
	custom.Encoder.FPS = 24
	custom.Encoder.Preset = " Medium "

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected custom config to be used, got %q exists=%v", resolved, exists)
	}
	if cfg.Slideshow.AudioPath != custom.Slideshow.AudioPath {
		t.Fatalf("unexpected audio path: %q", cfg.Slideshow.AudioPath)
	}
	if cfg.Slideshow.DisplayDuration != 3.5 {
		t.Fatalf("unexpected display duration: %v", cfg.Slideshow.DisplayDuration)
	}
	if cfg.Encoder.FPS != 24 {
		t.Fatalf("unexpected fps: %d", cfg.Encoder.FPS)
	}
	if cfg.Encoder.Preset != "medium" {
		t.Fatalf("expected preset to be normalized, got %q", cfg.Encoder.Preset)
	}
	if cfg.Encoder.CRF != config.Default().Encoder.CRF {
		t.Fatalf("expected default crf to survive partial file, got %d", cfg.Encoder.CRF)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "montage.toml")
	if err := os.WriteFile(configPath, []byte("[encoder]\nfps = 24\ncrf = 20\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	audio := filepath.Join(tempDir, "music.mp3")
	t.Setenv(config.EnvAudioPath, audio)
	t.Setenv(config.EnvDisplayDuration, "2.5")
	t.Setenv(config.EnvFadeDuration, "0.5")
	t.Setenv(config.EnvFPS, "60")
	t.Setenv(config.EnvBitrate, "8M")
	t.Setenv(config.EnvPreset, "fast")
	t.Setenv(config.EnvCRF, "23")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Slideshow.AudioPath != audio {
		t.Fatalf("unexpected audio path: %q", cfg.Slideshow.AudioPath)
	}
	if cfg.Slideshow.DisplayDuration != 2.5 || cfg.Slideshow.FadeDuration != 0.5 {
		t.Fatalf("unexpected durations: %+v", cfg.Slideshow)
	}
	if cfg.Encoder.FPS != 60 || cfg.Encoder.CRF != 23 {
		t.Fatalf("expected env to override file, got %+v", cfg.Encoder)
	}
	if cfg.Encoder.Bitrate != "8M" || cfg.Encoder.Preset != "fast" {
		t.Fatalf("unexpected encoder strings: %+v", cfg.Encoder)
	}
}

func TestEnvironmentRejectsGarbage(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.EnvFPS, "thirty")

	if _, _, _, err := config.Load(""); err == nil || !strings.Contains(err.Error(), config.EnvFPS) {
		t.Fatalf("expected FPS parse error, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("MONTAGE_TEST_DOTENV=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("MONTAGE_TEST_DOTENV", "")
	os.Unsetenv("MONTAGE_TEST_DOTENV")

	if err := config.LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("MONTAGE_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"display", func(c *config.Config) { c.Slideshow.DisplayDuration = 0 }, "display_duration"},
		{"fade negative", func(c *config.Config) { c.Slideshow.FadeDuration = -1 }, "fade_duration"},
		{"fade too long", func(c *config.Config) { c.Slideshow.FadeDuration = 6 }, "must not exceed"},
		{"zoom", func(c *config.Config) { c.Slideshow.ZoomRate = -0.1 }, "zoom_rate"},
		{"fps", func(c *config.Config) { c.Encoder.FPS = 0 }, "encoder.fps"},
		{"bitrate", func(c *config.Config) { c.Encoder.Bitrate = "fast" }, "encoder.bitrate"},
		{"bitrate millis", func(c *config.Config) { c.Encoder.Bitrate = "8m" }, "encoder.bitrate"},
		{"crf", func(c *config.Config) { c.Encoder.CRF = 52 }, "encoder.crf"},
		{"preset", func(c *config.Config) { c.Encoder.Preset = "ludicrous" }, "encoder.preset"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in %q", tc.want, err.Error())
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.Encoder.FPS != config.Default().Encoder.FPS {
		t.Fatalf("sample fps drifted from defaults: %d", cfg.Encoder.FPS)
	}
}

func TestBitrateKeepsUnitCase(t *testing.T) {
	for _, value := range []string{"5000k", "8000K", "8M", "2.5M", "750000"} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("HOME", t.TempDir())
			chdir(t, t.TempDir())
			t.Setenv(config.EnvBitrate, " "+value+" ")

			cfg, _, _, err := config.Load("")
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			if cfg.Encoder.Bitrate != value {
				t.Fatalf("bitrate = %q, want %q", cfg.Encoder.Bitrate, value)
			}
		})
	}
}
