package ffmpeg

import (
	"strconv"
	"strings"
	"time"
)

// Progress is one snapshot of an ffmpeg `-progress` block.
type Progress struct {
	Frame   int64
	FPS     float64
	OutTime time.Duration
	Speed   float64
	// Percent is OutTime relative to the expected output duration, or -1
	// when no duration is known.
	Percent float64
	Done    bool
}

// progressParser accumulates key=value lines until ffmpeg closes a block with
// a progress=continue|end line.
type progressParser struct {
	total   time.Duration
	current Progress
}

func newProgressParser(total time.Duration) *progressParser {
	return &progressParser{total: total}
}

// isProgressLine reports whether line belongs to the -progress stream rather
// than ffmpeg's human-readable log output.
func isProgressLine(line string) bool {
	key, _, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return false
	}
	switch key {
	case "frame", "fps", "bitrate", "total_size", "out_time_us", "out_time_ms", "out_time",
		"dup_frames", "drop_frames", "speed", "progress":
		return true
	}
	return strings.HasPrefix(key, "stream_")
}

// Feed consumes one line and returns a snapshot when a block completes.
func (p *progressParser) Feed(line string) (Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return Progress{}, false
	}
	value = strings.TrimSpace(value)
	switch key {
	case "frame":
		if v, err := strconv.ParseInt(value, 10, 64); err == nil {
			p.current.Frame = v
		}
	case "fps":
		if v, err := strconv.ParseFloat(value, 64); err == nil {
			p.current.FPS = v
		}
	case "out_time_us", "out_time_ms":
		// ffmpeg reports both keys in microseconds.
		if v, err := strconv.ParseInt(value, 10, 64); err == nil && v >= 0 {
			p.current.OutTime = time.Duration(v) * time.Microsecond
		}
	case "out_time":
		if d, ok := parseClock(value); ok {
			p.current.OutTime = d
		}
	case "speed":
		if v, err := strconv.ParseFloat(strings.TrimSuffix(value, "x"), 64); err == nil {
			p.current.Speed = v
		}
	case "progress":
		snapshot := p.current
		snapshot.Done = value == "end"
		snapshot.Percent = p.percent(snapshot)
		return snapshot, true
	}
	return Progress{}, false
}

func (p *progressParser) percent(snapshot Progress) float64 {
	if snapshot.Done {
		return 100
	}
	if p.total <= 0 {
		return -1
	}
	pct := float64(snapshot.OutTime) / float64(p.total) * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}

// parseClock parses ffmpeg's HH:MM:SS.micro timestamps.
func parseClock(value string) (time.Duration, bool) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, false
	}
	total := time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds*float64(time.Second))
	return total, total >= 0
}
