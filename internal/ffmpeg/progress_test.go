package ffmpeg

import (
	"testing"
	"time"
)

func TestProgressParserEmitsSnapshotPerBlock(t *testing.T) {
	parser := newProgressParser(10 * time.Second)
	lines := []string{
		"frame=75",
		"fps=30.00",
		"bitrate=4980.1kbits/s",
		"out_time_us=2500000",
		"out_time=00:00:02.500000",
		"speed=1.25x",
		"progress=continue",
	}
	var got []Progress
	for _, line := range lines {
		if snapshot, ok := parser.Feed(line); ok {
			got = append(got, snapshot)
		}
	}
	if len(got) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(got))
	}
	snap := got[0]
	if snap.Frame != 75 || snap.FPS != 30 || snap.Speed != 1.25 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.OutTime != 2500*time.Millisecond {
		t.Fatalf("unexpected out time: %v", snap.OutTime)
	}
	if snap.Percent != 25 {
		t.Fatalf("expected 25%%, got %v", snap.Percent)
	}
	if snap.Done {
		t.Fatal("continue block should not be done")
	}

	final, ok := parser.Feed("progress=end")
	if !ok || !final.Done || final.Percent != 100 {
		t.Fatalf("unexpected final snapshot: %+v ok=%v", final, ok)
	}
}

func TestProgressParserWithoutTotal(t *testing.T) {
	parser := newProgressParser(0)
	parser.Feed("out_time_ms=1000000")
	snap, ok := parser.Feed("progress=continue")
	if !ok {
		t.Fatal("expected snapshot")
	}
	if snap.Percent != -1 {
		t.Fatalf("expected unknown percent, got %v", snap.Percent)
	}
	if snap.OutTime != time.Second {
		t.Fatalf("unexpected out time: %v", snap.OutTime)
	}
}

func TestProgressParserIgnoresNA(t *testing.T) {
	parser := newProgressParser(time.Second)
	parser.Feed("speed=N/A")
	parser.Feed("out_time=N/A")
	snap, _ := parser.Feed("progress=continue")
	if snap.Speed != 0 || snap.OutTime != 0 {
		t.Fatalf("expected zero values, got %+v", snap)
	}
}

func TestIsProgressLine(t *testing.T) {
	cases := map[string]bool{
		"frame=12":                             true,
		"stream_0_0_q=23.0":                    true,
		"progress=end":                         true,
		"[libx264 @ 0x1] using cpu":            false,
		"Input #0, image2, from 'a.jpg'":       false,
		"x264 [info]: profile High, level 4.0": false,
	}
	for line, want := range cases {
		if got := isProgressLine(line); got != want {
			t.Fatalf("isProgressLine(%q) = %v, want %v", line, got, want)
		}
	}
}

func TestParseClock(t *testing.T) {
	d, ok := parseClock("01:02:03.500000")
	if !ok {
		t.Fatal("expected clock to parse")
	}
	want := time.Hour + 2*time.Minute + 3500*time.Millisecond
	if d != want {
		t.Fatalf("parseClock = %v, want %v", d, want)
	}
	if _, ok := parseClock("garbage"); ok {
		t.Fatal("expected garbage to fail")
	}
}
