package audio

import (
	"context"
	"fmt"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/clipworks/momentcut/internal/types"
)

// DefaultSweepThresholds are the decibel levels tried by MultiThresholdSweep:
// loose, commercial standard, strict.
var DefaultSweepThresholds = []float64{-30, -40, -50}

const (
	// DefaultThresholdDb is recommended when no sweep run converges.
	DefaultThresholdDb = -40.0
	// DefaultTargetSilenceRatio is the silence share a recommendation aims for.
	DefaultTargetSilenceRatio = 0.20
)

// MultiThresholdSweep runs DetectSilence once per threshold and returns one
// region list per threshold. Runs only read the shared trace and write their
// own slot, so they execute in parallel; the result is independent of
// completion order.
func MultiThresholdSweep(ctx context.Context, trace types.EnergyTrace, thresholds []float64, minDuration float64) (map[float64][]SilenceRegion, error) {
	if len(thresholds) == 0 {
		thresholds = DefaultSweepThresholds
	}

	results := make([][]SilenceRegion, len(thresholds))
	g, ctx := errgroup.WithContext(ctx)
	for i, th := range thresholds {
		i, th := i, th
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = DetectSilence(trace, th, minDuration)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[float64][]SilenceRegion, len(thresholds))
	for i, th := range thresholds {
		out[th] = results[i]
	}
	return out, nil
}

// RecommendThreshold picks the swept threshold whose silence ratio lies
// closest to targetRatio and explains the choice. With an empty input it
// falls back to DefaultThresholdDb with an explicit "default" reason.
func RecommendThreshold(sweep map[float64][]SilenceRegion, totalDuration, targetRatio float64) (float64, string) {
	best := math.NaN()
	bestDiff := math.Inf(1)
	reason := ""

	thresholds := make([]float64, 0, len(sweep))
	for th := range sweep {
		thresholds = append(thresholds, th)
	}
	sort.Float64s(thresholds)

	for _, th := range thresholds {
		ratio := 0.0
		if totalDuration > 0 {
			ratio = TotalSilence(sweep[th]) / totalDuration
		}
		if diff := math.Abs(ratio - targetRatio); diff < bestDiff {
			bestDiff = diff
			best = th
			reason = fmt.Sprintf("achieves %.1f%% silence (target %.1f%%)", ratio*100, targetRatio*100)
		}
	}

	if math.IsNaN(best) {
		return DefaultThresholdDb, "default threshold"
	}
	return best, reason
}

// FindOptimalThreshold binary-searches [searchLow,searchHigh] dB for a
// threshold whose silence ratio is within 0.05 of targetRatio, refining at
// most five times.
func FindOptimalThreshold(trace types.EnergyTrace, totalDuration, targetRatio, searchLow, searchHigh, minDuration float64) float64 {
	low, high := searchLow, searchHigh
	threshold := (low + high) / 2

	for i := 0; i < 5; i++ {
		regions := DetectSilence(trace, threshold, minDuration)
		ratio := 0.0
		if totalDuration > 0 {
			ratio = TotalSilence(regions) / totalDuration
		}
		if math.Abs(ratio-targetRatio) < 0.05 {
			break
		}
		if ratio < targetRatio {
			// Too little silence: raise the threshold (less strict).
			low = threshold
		} else {
			high = threshold
		}
		threshold = (low + high) / 2
	}
	return threshold
}
