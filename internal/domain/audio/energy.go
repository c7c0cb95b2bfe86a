package audio

import (
	"sort"
	"strings"

	"github.com/clipworks/momentcut/internal/domain/lexicon"
	"github.com/clipworks/momentcut/internal/types"
)

// EnergySpike is one contiguous run of samples above the rolling baseline.
// Keyword fusion fills Keywords/KeywordScore/ViralScore; after that the
// record is read-only.
type EnergySpike struct {
	Start        float64
	End          float64
	Duration     float64
	EnergyLevel  float64 // 0-100, relative to the loudest sample
	EnergyDelta  float64 // average spike energy minus baseline at onset
	Keywords     []string
	KeywordScore float64 // 0-10
	ViralScore   float64 // 0-10
	Confidence   float64 // 0-1
}

// SpikeParams tunes spike detection.
type SpikeParams struct {
	// WindowSize is the rolling baseline window in samples.
	WindowSize int
	// Multiplier above the baseline that qualifies a sample as spiking.
	Multiplier float64
}

// DefaultSpikeParams match the 0.5s-interval trace the extractor produces.
func DefaultSpikeParams() SpikeParams {
	return SpikeParams{WindowSize: 10, Multiplier: 1.5}
}

// DetectSpikes flags samples exceeding the centered rolling-mean baseline by
// the configured multiplier and groups contiguous flagged samples into
// spikes, sorted by energy level descending.
func DetectSpikes(trace types.EnergyTrace, p SpikeParams) []EnergySpike {
	n := len(trace.Levels)
	if n == 0 || trace.Interval <= 0 {
		return nil
	}
	if p.WindowSize <= 0 {
		p.WindowSize = DefaultSpikeParams().WindowSize
	}
	if p.Multiplier <= 0 {
		p.Multiplier = DefaultSpikeParams().Multiplier
	}

	maxEnergy := 0.0
	for _, e := range trace.Levels {
		if e > maxEnergy {
			maxEnergy = e
		}
	}
	if maxEnergy == 0 {
		return nil
	}

	baseline := rollingMean(trace.Levels, p.WindowSize)

	var spikes []EnergySpike
	runStart := -1
	var runSum, runMax float64
	var runLen int

	flush := func(endIdx int) {
		if runStart < 0 {
			return
		}
		avg := runSum / float64(runLen)
		spikes = append(spikes, EnergySpike{
			Start:       trace.TimeAt(runStart),
			End:         trace.TimeAt(endIdx),
			Duration:    trace.TimeAt(endIdx) - trace.TimeAt(runStart),
			EnergyLevel: clamp(runMax/maxEnergy*100, 0, 100),
			EnergyDelta: avg - baseline[runStart],
			Confidence:  clamp(avg/maxEnergy, 0, 1),
		})
		runStart = -1
	}

	for i, e := range trace.Levels {
		if e > baseline[i]*p.Multiplier {
			if runStart < 0 {
				runStart = i
				runSum, runMax, runLen = 0, 0, 0
			}
			runSum += e
			runLen++
			if e > runMax {
				runMax = e
			}
			continue
		}
		flush(i)
	}
	flush(n)

	sort.SliceStable(spikes, func(i, j int) bool { return spikes[i].EnergyLevel > spikes[j].EnergyLevel })
	return spikes
}

func rollingMean(levels []float64, window int) []float64 {
	out := make([]float64, len(levels))
	half := window / 2
	for i := range levels {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half
		if hi > len(levels) {
			hi = len(levels)
		}
		if hi <= lo {
			hi = lo + 1
		}
		var sum float64
		for _, e := range levels[lo:hi] {
			sum += e
		}
		out[i] = sum / float64(hi-lo)
	}
	return out
}

// FuseKeywords enriches every spike with the lexicon keywords found in the
// transcript text overlapping its span and computes the viral score:
// 60% energy level, 40% keyword score, capped at 10. Returns fresh records
// sorted by viral score descending.
func FuseKeywords(spikes []EnergySpike, tr types.Transcript, lx lexicon.Lexicon) []EnergySpike {
	out := make([]EnergySpike, len(spikes))
	for i, s := range spikes {
		m := lx.Scan(textOverlapping(tr, s.Start, s.End))
		s.Keywords = m.Keywords
		s.KeywordScore = m.Score
		s.ViralScore = clamp(s.EnergyLevel/10*0.6+m.Score*0.4, 0, 10)
		out[i] = s
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ViralScore > out[j].ViralScore })
	return out
}

// TopSpikes keeps spikes whose duration lies in [minDuration,maxDuration]
// and truncates to count. The input is assumed sorted by viral score.
func TopSpikes(spikes []EnergySpike, count int, minDuration, maxDuration float64) []EnergySpike {
	var out []EnergySpike
	for _, s := range spikes {
		if s.Duration < minDuration || s.Duration > maxDuration {
			continue
		}
		out = append(out, s)
		if count > 0 && len(out) >= count {
			break
		}
	}
	return out
}

func textOverlapping(tr types.Transcript, start, end float64) string {
	var parts []string
	for _, seg := range tr.Segments {
		if seg.Start < end && seg.End > start {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
	}
	return strings.Join(parts, " ")
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
