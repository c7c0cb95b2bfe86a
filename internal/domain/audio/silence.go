// Package audio turns raw energy and decibel traces into silence regions and
// energy spikes. Everything here is a pure function over an already-extracted
// trace; decoding media is a collaborator's job.
package audio

import (
	"sort"

	"github.com/clipworks/momentcut/internal/types"
)

// SilenceRegion is one contiguous span where the level stayed below the
// detection threshold.
type SilenceRegion struct {
	Start      float64
	End        float64
	Duration   float64
	Confidence float64
}

// Overlaps reports whether two regions share any span (adjacency counts as
// no overlap).
func (r SilenceRegion) Overlaps(other SilenceRegion) bool {
	return !(r.End <= other.Start || r.Start >= other.End)
}

// Merge combines two overlapping regions; the result spans both and takes
// the lower confidence.
func (r SilenceRegion) Merge(other SilenceRegion) SilenceRegion {
	start := r.Start
	if other.Start < start {
		start = other.Start
	}
	end := r.End
	if other.End > end {
		end = other.End
	}
	conf := r.Confidence
	if other.Confidence < conf {
		conf = other.Confidence
	}
	return SilenceRegion{Start: start, End: end, Duration: end - start, Confidence: conf}
}

// Contains reports whether timestamp falls inside the region.
func (r SilenceRegion) Contains(ts float64) bool { return r.Start <= ts && ts <= r.End }

// DetectSilence scans a decibel trace and returns the merged regions where
// the level stayed below thresholdDb for at least minDuration seconds.
func DetectSilence(trace types.EnergyTrace, thresholdDb, minDuration float64) []SilenceRegion {
	if len(trace.Levels) == 0 || trace.Interval <= 0 {
		return nil
	}

	var raw []SilenceRegion
	runStart := -1
	flush := func(endIdx int) {
		if runStart < 0 {
			return
		}
		start := trace.TimeAt(runStart)
		end := trace.TimeAt(endIdx)
		if end-start >= minDuration {
			raw = append(raw, SilenceRegion{Start: start, End: end, Duration: end - start, Confidence: 1})
		}
		runStart = -1
	}
	for i, level := range trace.Levels {
		if level < thresholdDb {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(trace.Levels))

	sort.Slice(raw, func(i, j int) bool { return raw[i].Start < raw[j].Start })
	return MergeRegions(raw)
}

// MergeRegions collapses overlapping regions via single linkage. Input must
// be sorted by start; output regions are pairwise non-overlapping and sorted.
func MergeRegions(regions []SilenceRegion) []SilenceRegion {
	if len(regions) == 0 {
		return nil
	}
	merged := []SilenceRegion{regions[0]}
	for _, cur := range regions[1:] {
		last := merged[len(merged)-1]
		if last.Overlaps(cur) {
			merged[len(merged)-1] = last.Merge(cur)
		} else {
			merged = append(merged, cur)
		}
	}
	return merged
}

// TotalSilence sums the region durations.
func TotalSilence(regions []SilenceRegion) float64 {
	var total float64
	for _, r := range regions {
		total += r.Duration
	}
	return total
}

// SpeechRegions inverts silence over [0,totalDuration], dropping speech spans
// shorter than minSpeechDuration.
func SpeechRegions(silence []SilenceRegion, totalDuration, minSpeechDuration float64) [][2]float64 {
	if len(silence) == 0 {
		if totalDuration <= 0 {
			return nil
		}
		return [][2]float64{{0, totalDuration}}
	}

	var speech [][2]float64
	cur := 0.0
	for _, s := range silence {
		if s.Start > cur && s.Start-cur >= minSpeechDuration {
			speech = append(speech, [2]float64{cur, s.Start})
		}
		if s.End > cur {
			cur = s.End
		}
	}
	if totalDuration > cur && totalDuration-cur >= minSpeechDuration {
		speech = append(speech, [2]float64{cur, totalDuration})
	}
	return speech
}

// TrimToSpeech shrinks a window whose start or end falls inside a long
// silence region, so final cut points avoid dead air. Windows that collapse
// are dropped.
func TrimToSpeech(windows [][2]float64, silence []SilenceRegion, maxBoundarySilence float64) [][2]float64 {
	var out [][2]float64
	for _, w := range windows {
		start, end := w[0], w[1]
		for _, s := range silence {
			if s.Contains(start) && s.Duration > maxBoundarySilence {
				if s.End < end {
					start = s.End
				} else {
					start = end
				}
				break
			}
		}
		for i := len(silence) - 1; i >= 0; i-- {
			s := silence[i]
			if s.Contains(end) && s.Duration > maxBoundarySilence {
				if s.Start > start {
					end = s.Start
				} else {
					end = start
				}
				break
			}
		}
		if end > start {
			out = append(out, [2]float64{start, end})
		}
	}
	return out
}
