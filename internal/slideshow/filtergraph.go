package slideshow

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const videoOutLabel = "vout"

// BuildFilterGraph renders the -filter_complex expression for timeline. Input
// i of the ffmpeg command must be segment i's looped image.
//
// Every segment is centred on the canvas, zoomed about its centre by
// 1+ZoomRate*t, faded, and normalized before the concat filter joins them.
func BuildFilterGraph(timeline Timeline, params Params) string {
	if len(timeline.Segments) == 0 {
		return ""
	}
	canvas := timeline.Canvas
	chains := make([]string, 0, len(timeline.Segments)+1)
	var joined strings.Builder

	for i, seg := range timeline.Segments {
		filters := []string{
			fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black", canvas.Width, canvas.Height),
			"setsar=1",
			zoomFilter(canvas, params),
		}
		if seg.FadeIn > 0 {
			filters = append(filters, fmt.Sprintf("fade=t=in:st=0:d=%s", formatSeconds(seg.FadeIn)))
		}
		if seg.FadeOut > 0 {
			start := seg.Duration - seg.FadeOut
			if start < 0 {
				start = 0
			}
			filters = append(filters, fmt.Sprintf("fade=t=out:st=%s:d=%s", formatSeconds(start), formatSeconds(seg.FadeOut)))
		}
		filters = append(filters, "format="+pixelFormat(params), "setsar=1")

		label := "v" + strconv.Itoa(i)
		chains = append(chains, fmt.Sprintf("[%d:v]%s[%s]", i, strings.Join(filters, ","), label))
		joined.WriteString("[" + label + "]")
	}

	chains = append(chains, fmt.Sprintf("%sconcat=n=%d:v=1:a=0[%s]", joined.String(), len(timeline.Segments), videoOutLabel))
	return strings.Join(chains, ";")
}

// zoomFilter scales about the frame centre with zoom = 1 + rate*t where t is
// the segment-local time in seconds. d=1 emits one frame per input frame so
// the segment keeps its length.
func zoomFilter(canvas Size, params Params) string {
	rate := strconv.FormatFloat(params.ZoomRate, 'f', -1, 64)
	return fmt.Sprintf("zoompan=z='1+%s*in_time':x='iw/2-(iw/zoom/2)':y='ih/2-(ih/zoom/2)':d=1:s=%s:fps=%d",
		rate, canvas.String(), params.FPS)
}

func pixelFormat(params Params) string {
	if strings.TrimSpace(params.PixelFormat) == "" {
		return "yuv420p"
	}
	return params.PixelFormat
}

// formatSeconds renders d in seconds with millisecond precision and no
// trailing zeros.
func formatSeconds(d time.Duration) string {
	ms := d.Round(time.Millisecond).Milliseconds()
	return strconv.FormatFloat(float64(ms)/1000, 'f', -1, 64)
}
