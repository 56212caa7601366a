package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"montage/internal/config"
)

// Requirements returns the binaries an assembly needs.
func Requirements(cfg *config.Config) []Requirement {
	ffmpegCmd, ffprobeCmd := "ffmpeg", "ffprobe"
	if cfg != nil {
		ffmpegCmd = cfg.Encoder.FFmpegBinary
		ffprobeCmd = cfg.Encoder.FFprobeBinary
	}
	return []Requirement{
		{Name: "FFmpeg", Command: ffmpegCmd, Description: "Renders and encodes the slideshow"},
		{Name: "FFprobe", Command: ffprobeCmd, Description: "Reads image sizes and audio length"},
	}
}

// CheckEncoders reports whether ffmpeg was built with the configured video
// and audio encoders. It runs `ffmpeg -hide_banner -encoders`.
func CheckEncoders(ctx context.Context, ffmpegCmd string, encoders ...string) []Status {
	results := make([]Status, 0, len(encoders))
	listing, listErr := listEncoders(ctx, ffmpegCmd)
	for _, name := range encoders {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		status := Status{
			Name:        "Encoder " + name,
			Command:     ffmpegCmd,
			Description: "ffmpeg encoder",
		}
		switch {
		case listErr != nil:
			status.Detail = listErr.Error()
		case listing[name]:
			status.Available = true
		default:
			status.Detail = fmt.Sprintf("ffmpeg lacks encoder %q", name)
		}
		results = append(results, status)
	}
	return results
}

func listEncoders(ctx context.Context, ffmpegCmd string) (map[string]bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, ffmpegCmd, "-hide_banner", "-encoders").Output() //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("list encoders: %w", err)
	}
	return parseEncoders(out), nil
}

// parseEncoders reads ffmpeg's encoder table. Data rows start with a six
// character capability column (e.g. " V....D libx264 ...").
func parseEncoders(out []byte) map[string]bool {
	encoders := make(map[string]bool)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	inTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "------") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}
