package slideshow

import (
	"path/filepath"
	"strconv"
)

// OutputPath places the video next to the first image using id as its name.
func OutputPath(firstImage, id string) string {
	return filepath.Join(filepath.Dir(firstImage), id+".mp4")
}

// BuildArgs returns the complete ffmpeg argument vector for timeline. Images
// are looped at the output frame rate for exactly one display duration and
// read as literal paths, so names containing % or * never expand to a
// sequence. The audio input follows them and the output is cut to
// timeline.Output.
func BuildArgs(timeline Timeline, audioPath, outputPath string, params Params) []string {
	fps := strconv.Itoa(params.FPS)
	args := []string{"-hide_banner", "-nostdin", "-y"}

	for _, seg := range timeline.Segments {
		args = append(args,
			"-loop", "1",
			"-framerate", fps,
			"-t", formatSeconds(seg.Duration),
			"-pattern_type", "none",
			"-i", seg.Path,
		)
	}
	audioInput := len(timeline.Segments)
	args = append(args, "-i", audioPath)

	args = append(args,
		"-filter_complex", BuildFilterGraph(timeline, params),
		"-map", "["+videoOutLabel+"]",
		"-map", strconv.Itoa(audioInput)+":a:0",
		"-c:v", params.VideoCodec,
	)
	if params.Preset != "" {
		args = append(args, "-preset", params.Preset)
	}
	args = append(args, "-crf", strconv.Itoa(params.CRF))
	if params.Bitrate != "" {
		args = append(args, "-b:v", params.Bitrate)
	}
	args = append(args,
		"-r", fps,
		"-pix_fmt", pixelFormat(params),
		"-c:a", params.AudioCodec,
		"-t", formatSeconds(timeline.Output),
		"-movflags", "+faststart",
		"-progress", "pipe:1",
		"-nostats",
		outputPath,
	)
	return args
}
