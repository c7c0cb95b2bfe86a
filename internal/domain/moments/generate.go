// Package moments turns transcript and audio signal into candidate windows,
// rejects the ones a cold viewer could not follow, and ranks the rest.
package moments

import (
	"sort"
	"strings"

	"github.com/clipworks/momentcut/internal/domain/audio"
	"github.com/clipworks/momentcut/internal/domain/hooks"
	"github.com/clipworks/momentcut/internal/types"
)

// GenerateParams bound the candidate windows.
type GenerateParams struct {
	MinLength     float64 // seconds
	MaxLength     float64 // seconds
	MaxCandidates int
}

// DefaultGenerateParams mirrors the short-form sweet spot.
func DefaultGenerateParams() GenerateParams {
	return GenerateParams{MinLength: 30, MaxLength: 60, MaxCandidates: 50}
}

const (
	// maxWindowSpan caps how many segments ahead the scan looks.
	maxWindowSpan = 20
	// minWindowWords rejects windows too thin to carry a thought.
	minWindowWords = 20
)

// FromWindows is the rule-based generator: for every segment it scans up to
// maxWindowSpan segments forward and emits every window whose duration fits
// [MinLength, MaxLength] and whose text exceeds minWindowWords words. The
// result is capped at MaxCandidates in scan order.
func FromWindows(tr types.Transcript, p GenerateParams) []types.Candidate {
	var out []types.Candidate
	segs := tr.Segments

	for i := range segs {
		limit := i + maxWindowSpan
		if limit > len(segs) {
			limit = len(segs)
		}
		for j := i + 1; j < limit; j++ {
			dur := segs[j].End - segs[i].Start
			if dur < p.MinLength || dur > p.MaxLength {
				continue
			}
			text := joinSegmentText(segs[i : j+1])
			if len(strings.Fields(text)) <= minWindowWords {
				continue
			}
			out = append(out, types.Candidate{
				Start:    types.DurationFromSeconds(segs[i].Start),
				End:      types.DurationFromSeconds(segs[j].End),
				Text:     text,
				Language: types.DetectLanguage(text),
				Source:   types.SourceWindowing,
			})
			if len(out) == p.MaxCandidates {
				return out
			}
		}
	}
	return out
}

// FromSpikes converts fused energy spikes into scored candidates. Each spike
// gets a hook analysis of its opening and a composite score of half viral
// signal, a hook share, and a fixed baseline. Results are sorted by score,
// best first.
func FromSpikes(spikes []audio.EnergySpike, tr types.Transcript, p GenerateParams, count int) []types.Candidate {
	top := audio.TopSpikes(spikes, count, p.MinLength, p.MaxLength)

	out := make([]types.Candidate, 0, len(top))
	for _, sp := range top {
		sig := hooks.AnalyzeOpening(tr, sp.Start)
		text := textBetween(tr, sp.Start, sp.End)
		out = append(out, types.Candidate{
			Start:        types.DurationFromSeconds(sp.Start),
			End:          types.DurationFromSeconds(sp.End),
			Text:         text,
			Language:     types.DetectLanguage(text),
			Source:       types.SourceEnergy,
			Score:        EnergyComposite(sp.ViralScore, sig.Strength),
			HookType:     sig.Type,
			HookStrength: sig.Strength,
			Keywords:     sp.Keywords,
			EnergyLevel:  sp.EnergyLevel,
			ViralScore:   sp.ViralScore,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// EnergyComposite blends a spike's viral score with its hook strength:
// 50% viral, 30% hook (rescaled), 20% fixed baseline, capped at 10.
func EnergyComposite(viralScore, hookStrength float64) float64 {
	s := viralScore*0.5 + (hookStrength/10)*3*0.3 + 7.0*0.2
	if s > 10 {
		return 10
	}
	return s
}

func joinSegmentText(segs []types.Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// textBetween joins the text of segments fully contained in [start, end].
func textBetween(tr types.Transcript, start, end float64) string {
	var parts []string
	for _, seg := range tr.Segments {
		if seg.Start >= start && seg.End <= end {
			parts = append(parts, seg.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
