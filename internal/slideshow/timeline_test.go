package slideshow

import (
	"strings"
	"testing"
	"time"
)

func testParams() Params {
	p := DefaultParams()
	p.DisplayDuration = 5 * time.Second
	p.FadeDuration = time.Second
	return p
}

func TestPlanTimelineFadesAndOffsets(t *testing.T) {
	images := []string{"a.jpg", "b.jpg", "c.jpg"}
	tl := PlanTimeline(images, nil, time.Minute, testParams())

	if len(tl.Segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(tl.Segments))
	}
	if tl.Segments[0].FadeIn != 0 {
		t.Fatalf("first segment must not fade in: %+v", tl.Segments[0])
	}
	for i, seg := range tl.Segments {
		if seg.Start != time.Duration(i)*5*time.Second {
			t.Fatalf("segment %d starts at %v", i, seg.Start)
		}
		if seg.FadeOut != time.Second {
			t.Fatalf("segment %d should fade out: %+v", i, seg)
		}
		if i > 0 && seg.FadeIn != time.Second {
			t.Fatalf("segment %d should fade in: %+v", i, seg)
		}
		if i > 0 && tl.Segments[i-1].End() != seg.Start {
			t.Fatalf("segments %d and %d do not abut", i-1, i)
		}
	}
	if tl.Total != 15*time.Second || tl.Output != 15*time.Second || tl.Truncated() {
		t.Fatalf("unexpected durations: total=%v output=%v", tl.Total, tl.Output)
	}
}

func TestPlanTimelineOutputIsMinimumOfImagesAndAudio(t *testing.T) {
	tests := []struct {
		name    string
		images  int
		audio   time.Duration
		want    time.Duration
		skipped int
	}{
		{name: "audio longer", images: 2, audio: 30 * time.Second, want: 10 * time.Second},
		{name: "audio shorter", images: 4, audio: 7500 * time.Millisecond, want: 7500 * time.Millisecond, skipped: 2},
		{name: "exact", images: 3, audio: 15 * time.Second, want: 15 * time.Second},
		{name: "audio on boundary", images: 3, audio: 10 * time.Second, want: 10 * time.Second, skipped: 1},
		{name: "unknown audio", images: 2, audio: 0, want: 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := make([]string, tt.images)
			for i := range images {
				images[i] = "img.jpg"
			}
			tl := PlanTimeline(images, nil, tt.audio, testParams())
			if tl.Output != tt.want {
				t.Fatalf("output = %v, want %v", tl.Output, tt.want)
			}
			if tt.audio > 0 && tl.Output > tt.audio {
				t.Fatalf("output %v exceeds audio %v", tl.Output, tt.audio)
			}
			if tl.Skipped != tt.skipped {
				t.Fatalf("skipped = %d, want %d", tl.Skipped, tt.skipped)
			}
			if len(tl.Segments)+tl.Skipped != tt.images {
				t.Fatalf("segments %d + skipped %d != %d", len(tl.Segments), tl.Skipped, tt.images)
			}
		})
	}
}

func TestCanvasUsesLargestEvenDimensions(t *testing.T) {
	tl := PlanTimeline([]string{"a", "b"}, []Size{{Width: 1279, Height: 720}, {Width: 800, Height: 1001}}, 0, testParams())
	if tl.Canvas != (Size{Width: 1280, Height: 1002}) {
		t.Fatalf("unexpected canvas %v", tl.Canvas)
	}
	if tl.Segments[1].Size != (Size{Width: 800, Height: 1001}) {
		t.Fatalf("segment size not recorded: %+v", tl.Segments[1])
	}
	if got := canvasFor(nil); got != fallbackCanvas {
		t.Fatalf("expected fallback canvas, got %v", got)
	}
}

func TestBuildFilterGraph(t *testing.T) {
	params := testParams()
	tl := PlanTimeline([]string{"a.jpg", "b.png"}, []Size{{Width: 640, Height: 480}, {Width: 480, Height: 640}}, time.Minute, params)
	graph := BuildFilterGraph(tl, params)

	chains := strings.Split(graph, ";")
	if len(chains) != 3 {
		t.Fatalf("expected 3 chains, got %d: %s", len(chains), graph)
	}
	first, second, concat := chains[0], chains[1], chains[2]

	if !strings.HasPrefix(first, "[0:v]pad=640:640:") || !strings.HasSuffix(first, "[v0]") {
		t.Fatalf("unexpected first chain: %s", first)
	}
	if strings.Contains(first, "fade=t=in") {
		t.Fatalf("first chain must not fade in: %s", first)
	}
	if !strings.Contains(first, "fade=t=out:st=4:d=1") {
		t.Fatalf("first chain missing fade out: %s", first)
	}
	if !strings.Contains(second, "fade=t=in:st=0:d=1") || !strings.Contains(second, "fade=t=out:st=4:d=1") {
		t.Fatalf("second chain missing fades: %s", second)
	}
	if !strings.Contains(first, "zoompan=z='1+0.05*in_time'") || !strings.Contains(first, "s=640x640:fps=30") {
		t.Fatalf("unexpected zoom filter: %s", first)
	}
	if !strings.Contains(second, "format=yuv420p") {
		t.Fatalf("missing pixel format: %s", second)
	}
	if concat != "[v0][v1]concat=n=2:v=1:a=0[vout]" {
		t.Fatalf("unexpected concat: %s", concat)
	}
}

func TestBuildFilterGraphWithoutFades(t *testing.T) {
	params := testParams()
	params.FadeDuration = 0
	graph := BuildFilterGraph(PlanTimeline([]string{"a", "b"}, nil, 0, params), params)
	if strings.Contains(graph, "fade=") {
		t.Fatalf("expected no fade filters: %s", graph)
	}
	if BuildFilterGraph(Timeline{}, params) != "" {
		t.Fatal("expected empty graph for empty timeline")
	}
}

func TestBuildArgs(t *testing.T) {
	params := testParams()
	tl := PlanTimeline([]string{"/p/a.jpg", "/p/b.jpg"}, []Size{{Width: 100, Height: 100}}, 8*time.Second, params)
	args := BuildArgs(tl, "/music/bgm.mp3", "/p/id.mp4", params)
	joined := strings.Join(args, " ")

	for _, want := range []string{
		"-loop 1 -framerate 30 -t 5 -pattern_type none -i /p/a.jpg",
		"-loop 1 -framerate 30 -t 5 -pattern_type none -i /p/b.jpg",
		"-i /music/bgm.mp3",
		"-map [vout] -map 2:a:0",
		"-c:v libx264 -preset slow -crf 18 -b:v 5000k -r 30 -pix_fmt yuv420p",
		"-c:a aac -t 8",
		"-progress pipe:1",
	} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected %q in %s", want, joined)
		}
	}
	if args[len(args)-1] != "/p/id.mp4" {
		t.Fatalf("output must be last argument: %v", args)
	}
}

func TestBuildArgsReadsImageNamesLiterally(t *testing.T) {
	params := testParams()
	images := []string{"/p/img%03d.jpg", "/p/*.jpg"}
	tl := PlanTimeline(images, nil, time.Minute, params)
	args := BuildArgs(tl, "/music/bgm.mp3", "/p/id.mp4", params)

	inputs := 0
	for i, arg := range args {
		if arg != "-i" || args[i+1] == "/music/bgm.mp3" {
			continue
		}
		if args[i-2] != "-pattern_type" || args[i-1] != "none" {
			t.Fatalf("image input %q is not marked literal: %v", args[i+1], args[i-4:i+2])
		}
		if args[i+1] != images[inputs] {
			t.Fatalf("input %d = %q, want %q", inputs, args[i+1], images[inputs])
		}
		inputs++
	}
	if inputs != len(images) {
		t.Fatalf("expected %d image inputs, got %d", len(images), inputs)
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/photos/trip/001.jpg", "abc"); got != "/photos/trip/abc.mp4" {
		t.Fatalf("OutputPath = %q", got)
	}
	if got := OutputPath("001.jpg", "abc"); got != "abc.mp4" {
		t.Fatalf("OutputPath = %q", got)
	}
}

func TestFormatSeconds(t *testing.T) {
	cases := map[time.Duration]string{
		5 * time.Second:          "5",
		1500 * time.Millisecond:  "1.5",
		33333 * time.Microsecond: "0.033",
		0:                        "0",
	}
	for in, want := range cases {
		if got := formatSeconds(in); got != want {
			t.Fatalf("formatSeconds(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestParamsCheck(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Params)
		field  string
	}{
		{name: "defaults ok", mutate: func(*Params) {}},
		{name: "zero display", mutate: func(p *Params) { p.DisplayDuration = 0 }, field: "display_duration"},
		{name: "negative fade", mutate: func(p *Params) { p.FadeDuration = -time.Second }, field: "fade_duration"},
		{name: "fade longer than display", mutate: func(p *Params) { p.FadeDuration = 6 * time.Second }, field: "fade_duration"},
		{name: "zero fps", mutate: func(p *Params) { p.FPS = 0 }, field: "fps"},
		{name: "crf too high", mutate: func(p *Params) { p.CRF = 52 }, field: "crf"},
		{name: "negative zoom", mutate: func(p *Params) { p.ZoomRate = -0.1 }, field: "zoom_rate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			tt.mutate(&p)
			err := p.Check()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			verr, ok := err.(*ValidationError)
			if !ok || verr.Field != tt.field {
				t.Fatalf("expected validation error on %s, got %v", tt.field, err)
			}
		})
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.DisplayDuration != 5*time.Second || p.FadeDuration != time.Second || p.FPS != 30 ||
		p.Bitrate != "5000k" || p.Preset != "slow" || p.CRF != 18 || p.ZoomRate != 0.05 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}
