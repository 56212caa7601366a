package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"montage/internal/config"
	"montage/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
	imageDir   string
	ffmpegArgs string
}

const ffprobeStub = `#!/bin/sh
for last; do :; done
case "$last" in
  *.mp3)
    cat <<'JSON'
{"streams":[{"index":0,"codec_type":"audio","codec_name":"mp3","duration":"12.000000"}],"format":{"nb_streams":1,"duration":"12.000000"}}
JSON
    ;;
  *.jpg)
    cat <<'JSON'
{"streams":[{"index":0,"codec_type":"video","codec_name":"mjpeg","width":1280,"height":720}],"format":{"nb_streams":1}}
JSON
    ;;
  *.mp4)
    duration=$(cat "$last")
    cat <<JSON
{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1280,"height":720},{"index":1,"codec_type":"audio","codec_name":"aac"}],"format":{"nb_streams":2,"duration":"$duration","size":"2048","bit_rate":"1365333"}}
JSON
    ;;
  *)
    echo "$last: Invalid data found when processing input" >&2
    exit 1
    ;;
esac
`

const ffmpegStub = `#!/bin/sh
if [ "$2" = "-encoders" ]; then
  cat <<'EOT'
Encoders:
 V..... = Video
 ------
 V....D libx264              libx264 H.264 / AVC / MPEG-4 AVC
 A....D aac                  AAC (Advanced Audio Coding)
EOT
  exit 0
fi
printf '%s\n' "$@" > "$0.args"
prev=""
trim=""
for last; do
  [ "$prev" = "-t" ] && trim="$last"
  prev="$last"
done
echo "frame=30"
echo "out_time_us=1000000"
echo "progress=continue"
echo "progress=end"
printf '%s' "$trim" > "$last"
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	for _, key := range []string{
		config.EnvAudioPath, config.EnvDisplayDuration, config.EnvFadeDuration,
		config.EnvFPS, config.EnvBitrate, config.EnvPreset, config.EnvCRF,
	} {
		t.Setenv(key, "")
	}

	cfg := testsupport.NewConfig(t, testsupport.WithAudio())
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	binDir := filepath.Join(base, "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin: %v", err)
	}
	cfg.Encoder.FFprobeBinary = writeScript(t, filepath.Join(binDir, "ffprobe"), ffprobeStub)
	cfg.Encoder.FFmpegBinary = writeScript(t, filepath.Join(binDir, "ffmpeg"), ffmpegStub)
	cfg.Logging.Level = "error"

	imageDir := filepath.Join(base, "photos")
	if err := os.MkdirAll(imageDir, 0o755); err != nil {
		t.Fatalf("mkdir photos: %v", err)
	}

	configPath := filepath.Join(base, "montage.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
		imageDir:   imageDir,
		ffmpegArgs: cfg.Encoder.FFmpegBinary + ".args",
	}
}

// images creates n placeholder jpg files and returns their paths in order.
func (e *cliTestEnv) images(t *testing.T, n int) []string {
	t.Helper()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(e.imageDir, fmt.Sprintf("img%02d.jpg", i+1))
		testsupport.WriteFile(t, path, 64)
		paths = append(paths, path)
	}
	return paths
}

func writeScript(t *testing.T, path, body string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
state_dir = %q
log_dir = %q

[slideshow]
audio_path = %q

[encoder]
ffmpeg_binary = %q
ffprobe_binary = %q

[history]
enabled = %t

[logging]
level = %q
`,
		cfg.Paths.StateDir,
		cfg.Paths.LogDir,
		cfg.Slideshow.AudioPath,
		cfg.Encoder.FFmpegBinary,
		cfg.Encoder.FFprobeBinary,
		cfg.History.Enabled,
		cfg.Logging.Level,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

// recordedArgs returns the argument vector of the last stub ffmpeg encode.
func recordedArgs(t *testing.T, env *cliTestEnv) []string {
	t.Helper()
	data, err := os.ReadFile(env.ffmpegArgs)
	if err != nil {
		t.Fatalf("read recorded ffmpeg args: %v", err)
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}
