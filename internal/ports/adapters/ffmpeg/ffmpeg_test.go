package ffmpeg

import "testing"

func TestParseTrace(t *testing.T) {
	out := `frame:0    pts:0       pts_time:0
lavfi.astats.Overall.RMS_level=-23.471
frame:1    pts:8000    pts_time:0.5
lavfi.astats.Overall.RMS_level=-41.002
frame:2    pts:16000   pts_time:1
lavfi.astats.Overall.RMS_level=garbage
frame:3    pts:24000   pts_time:1.5
lavfi.astats.Overall.RMS_level=-18.5
`
	tr := ParseTrace(out)
	if tr.Interval != TraceInterval {
		t.Fatalf("interval = %v, want %v", tr.Interval, TraceInterval)
	}
	want := []float64{-23.471, -41.002, -18.5}
	if len(tr.Levels) != len(want) {
		t.Fatalf("levels = %v, want %v (bad line skipped)", tr.Levels, want)
	}
	for i := range want {
		if tr.Levels[i] != want[i] {
			t.Fatalf("level[%d] = %v, want %v", i, tr.Levels[i], want[i])
		}
	}
}

func TestParseTrace_Empty(t *testing.T) {
	tr := ParseTrace("no metadata at all\n")
	if len(tr.Levels) != 0 {
		t.Fatalf("levels = %v, want empty", tr.Levels)
	}
}
