package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)

	steps := []struct {
		percent float64
		want    bool
	}{
		{0, true},
		{10, false},
		{24.9, false},
		{25, true},
		{30, false},
		{80, true},
		{100, true},
		{140, false},
	}
	for _, step := range steps {
		if got := s.ShouldLog(step.percent, "encode"); got != step.want {
			t.Fatalf("ShouldLog(%v) = %v, want %v", step.percent, got, step.want)
		}
	}
}

func TestProgressSamplerStageChangeResetsBuckets(t *testing.T) {
	s := NewProgressSampler(0)
	if s.bucketSize != 10 {
		t.Fatalf("expected default bucket size 10, got %v", s.bucketSize)
	}
	if !s.ShouldLog(50, "probe") {
		t.Fatal("first event should log")
	}
	if !s.ShouldLog(10, " encode ") {
		t.Fatal("stage change should log")
	}
	if s.lastStage != "encode" {
		t.Fatalf("expected trimmed stage, got %q", s.lastStage)
	}
	if s.ShouldLog(-1, "encode") {
		t.Fatal("unknown percent on same stage should not log")
	}
}

func TestProgressSamplerNilAndReset(t *testing.T) {
	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog(1, "x") {
		t.Fatal("nil sampler should always log")
	}
	nilSampler.Reset()

	s := NewProgressSampler(10)
	s.ShouldLog(90, "encode")
	s.Reset()
	if !s.ShouldLog(5, "encode") {
		t.Fatal("expected log after reset")
	}
}
