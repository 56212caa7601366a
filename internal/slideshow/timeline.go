package slideshow

import (
	"strconv"
	"time"
)

// fallbackCanvas is used when no image dimensions are known.
var fallbackCanvas = Size{Width: 1920, Height: 1080}

// Size is a frame size in pixels.
type Size struct {
	Width  int
	Height int
}

func (s Size) String() string {
	return strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height)
}

// Segment is one image's slot in the slideshow.
type Segment struct {
	Index    int
	Path     string
	Size     Size
	Start    time.Duration
	Duration time.Duration
	// FadeIn and FadeOut are zero when the segment has no such fade.
	FadeIn  time.Duration
	FadeOut time.Duration
}

// End returns the segment's end offset within the slideshow.
func (s Segment) End() time.Duration {
	return s.Start + s.Duration
}

// Timeline is the planned layout of one slideshow.
type Timeline struct {
	// Segments holds the segments that start before Output; images that would
	// only appear after the audio ends are counted in Skipped.
	Segments []Segment
	Skipped  int
	Canvas   Size
	// Total is the untrimmed slideshow length: images * display duration.
	Total time.Duration
	// Audio is the probed audio duration; zero when unknown.
	Audio time.Duration
	// Output is min(Total, Audio), or Total when Audio is unknown.
	Output time.Duration
}

// Truncated reports whether the audio cuts the slideshow short.
func (t Timeline) Truncated() bool {
	return t.Output < t.Total
}

// PlanTimeline lays out images back to back on a shared canvas. dims is
// indexed like images; missing or zero entries are ignored when sizing the
// canvas.
func PlanTimeline(images []string, dims []Size, audioDuration time.Duration, params Params) Timeline {
	timeline := Timeline{
		Canvas: canvasFor(dims),
		Total:  time.Duration(len(images)) * params.DisplayDuration,
		Audio:  audioDuration,
	}
	timeline.Output = timeline.Total
	if audioDuration > 0 && audioDuration < timeline.Total {
		timeline.Output = audioDuration
	}

	for idx, path := range images {
		start := time.Duration(idx) * params.DisplayDuration
		if start >= timeline.Output {
			timeline.Skipped = len(images) - idx
			break
		}
		segment := Segment{
			Index:    idx,
			Path:     path,
			Start:    start,
			Duration: params.DisplayDuration,
			FadeOut:  params.FadeDuration,
		}
		if idx > 0 {
			segment.FadeIn = params.FadeDuration
		}
		if idx < len(dims) {
			segment.Size = dims[idx]
		}
		timeline.Segments = append(timeline.Segments, segment)
	}
	return timeline
}

// canvasFor returns the largest width and height across dims, each rounded up
// to an even number for 4:2:0 chroma subsampling.
func canvasFor(dims []Size) Size {
	var canvas Size
	for _, d := range dims {
		if d.Width > canvas.Width {
			canvas.Width = d.Width
		}
		if d.Height > canvas.Height {
			canvas.Height = d.Height
		}
	}
	if canvas.Width <= 0 || canvas.Height <= 0 {
		return fallbackCanvas
	}
	canvas.Width += canvas.Width % 2
	canvas.Height += canvas.Height % 2
	return canvas
}
