package audio

import (
	"context"
	"math"
	"testing"

	"github.com/clipworks/momentcut/internal/types"
)

// traceOf builds a dB trace at 0.1s resolution from (level, seconds) runs.
func traceOf(runs ...[2]float64) types.EnergyTrace {
	tr := types.EnergyTrace{Interval: 0.1}
	for _, r := range runs {
		n := int(math.Round(r[1] / 0.1))
		for i := 0; i < n; i++ {
			tr.Levels = append(tr.Levels, r[0])
		}
	}
	return tr
}

func TestDetectSilence_Basic(t *testing.T) {
	// 2s speech, 1s silence, 2s speech at -40dB threshold.
	tr := traceOf([2]float64{-20, 2}, [2]float64{-55, 1}, [2]float64{-20, 2})
	regions := DetectSilence(tr, -40, 0.3)
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d: %v", len(regions), regions)
	}
	r := regions[0]
	if math.Abs(r.Start-2.0) > 0.11 || math.Abs(r.End-3.0) > 0.11 {
		t.Fatalf("region bounds off: %+v", r)
	}
}

func TestDetectSilence_MinDuration(t *testing.T) {
	tr := traceOf([2]float64{-20, 2}, [2]float64{-55, 0.2}, [2]float64{-20, 2})
	if regions := DetectSilence(tr, -40, 0.3); len(regions) != 0 {
		t.Fatalf("short dip must not become a region: %v", regions)
	}
}

func TestDetectSilence_TrailingRun(t *testing.T) {
	tr := traceOf([2]float64{-20, 1}, [2]float64{-55, 1})
	regions := DetectSilence(tr, -40, 0.3)
	if len(regions) != 1 {
		t.Fatalf("trailing silence must be flushed: %v", regions)
	}
	if math.Abs(regions[0].End-2.0) > 0.001 {
		t.Fatalf("trailing region must reach trace end, got %v", regions[0].End)
	}
}

func TestMergeRegions(t *testing.T) {
	in := []SilenceRegion{
		{Start: 0, End: 1, Duration: 1, Confidence: 0.9},
		{Start: 0.5, End: 2, Duration: 1.5, Confidence: 0.7},
		{Start: 3, End: 4, Duration: 1, Confidence: 1},
	}
	got := MergeRegions(in)
	if len(got) != 2 {
		t.Fatalf("expected 2 merged regions, got %v", got)
	}
	if got[0].Start != 0 || got[0].End != 2 {
		t.Fatalf("merge bounds wrong: %+v", got[0])
	}
	if got[0].Confidence != 0.7 {
		t.Fatalf("merge must take min confidence, got %v", got[0].Confidence)
	}
	// Post-merge invariant: sorted, pairwise non-overlapping.
	for i := 1; i < len(got); i++ {
		if got[i].Start < got[i-1].End {
			t.Fatalf("regions overlap after merge: %v", got)
		}
	}
}

func TestSpeechRegions(t *testing.T) {
	silence := []SilenceRegion{{Start: 2, End: 3, Duration: 1}}
	speech := SpeechRegions(silence, 10, 0.5)
	want := [][2]float64{{0, 2}, {3, 10}}
	if len(speech) != 2 || speech[0] != want[0] || speech[1] != want[1] {
		t.Fatalf("speech regions = %v, want %v", speech, want)
	}
	if all := SpeechRegions(nil, 5, 0.5); len(all) != 1 || all[0] != [2]float64{0, 5} {
		t.Fatalf("no silence must mean all speech: %v", all)
	}
}

func TestTrimToSpeech(t *testing.T) {
	silence := []SilenceRegion{
		{Start: 0, End: 2, Duration: 2},
		{Start: 9, End: 11, Duration: 2},
	}
	got := TrimToSpeech([][2]float64{{1, 10}, {9.2, 10.5}}, silence, 1.0)
	if len(got) != 1 {
		t.Fatalf("window fully inside silence must be dropped: %v", got)
	}
	if got[0] != [2]float64{2, 9} {
		t.Fatalf("trimmed window = %v, want [2 9]", got[0])
	}
}

func TestMultiThresholdSweep_AndRecommend(t *testing.T) {
	// Middle band: silent at -40 but not at -50.
	tr := traceOf([2]float64{-20, 8}, [2]float64{-45, 2})

	sweep, err := MultiThresholdSweep(context.Background(), tr, nil, 0.3)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(sweep) != len(DefaultSweepThresholds) {
		t.Fatalf("expected one result per threshold, got %d", len(sweep))
	}
	if len(sweep[-50]) != 0 {
		t.Fatalf("-50dB run should find nothing: %v", sweep[-50])
	}
	if len(sweep[-40]) != 1 {
		t.Fatalf("-40dB run should find the dip: %v", sweep[-40])
	}

	th, reason := RecommendThreshold(sweep, tr.Duration(), DefaultTargetSilenceRatio)
	if th != -40 {
		t.Fatalf("recommended %v, want -40 (20%% silence)", th)
	}
	if reason == "" {
		t.Fatalf("reason must not be empty")
	}
	if _, ok := sweep[th]; !ok {
		t.Fatalf("recommended threshold must come from the input map")
	}
}

func TestRecommendThreshold_Default(t *testing.T) {
	th, reason := RecommendThreshold(nil, 100, 0.2)
	if th != DefaultThresholdDb {
		t.Fatalf("empty sweep must fall back to default, got %v", th)
	}
	if reason != "default threshold" {
		t.Fatalf("unexpected reason %q", reason)
	}
}

func TestFindOptimalThreshold_Converges(t *testing.T) {
	// 20% of the trace sits at -45dB: thresholds above -45 see 20% silence.
	tr := traceOf([2]float64{-20, 8}, [2]float64{-45, 2})
	th := FindOptimalThreshold(tr, tr.Duration(), 0.2, -50, -30, 0.3)
	regions := DetectSilence(tr, th, 0.3)
	ratio := TotalSilence(regions) / tr.Duration()
	if math.Abs(ratio-0.2) >= 0.05 {
		t.Fatalf("threshold %v gives ratio %v, want within 0.05 of 0.2", th, ratio)
	}
}
