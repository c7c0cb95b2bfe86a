package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/clipworks/momentcut/internal/domain/align"
	"github.com/clipworks/momentcut/internal/domain/audio"
	"github.com/clipworks/momentcut/internal/domain/lexicon"
	"github.com/clipworks/momentcut/internal/domain/moments"
	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/types"
)

type Deps struct {
	Filter ports.MomentFilter
	Scorer ports.MomentScorer
	Log    zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

// Params tunes one ranking run. Zero values are replaced by defaults in Run.
type Params struct {
	// MinLength and MaxLength bound moment duration in seconds.
	MinLength float64
	MaxLength float64
	// TargetClips caps the final selection.
	TargetClips int
	// GenerationCap bounds how many raw candidates the generators emit.
	GenerationCap int
	// QualityFloor is the minimum composite score a moment must reach.
	QualityFloor float64
	// SilenceThresholdDb marks trace samples below it as silent. Zero means
	// pick a threshold by multi-threshold sweep.
	SilenceThresholdDb float64
	MinSilenceSec      float64
	// TotalDurationSec is the full media duration the silence-ratio sweep
	// measures against. Zero means derive it from the trace.
	TotalDurationSec float64
	Spikes           audio.SpikeParams
	Lexicon          lexicon.Lexicon
}

func DefaultParams() Params {
	return Params{
		MinLength:          30,
		MaxLength:          60,
		TargetClips:        10,
		GenerationCap:      50,
		QualityFloor:       6.5,
		SilenceThresholdDb: -40,
		MinSilenceSec:      0.5,
		Spikes:             audio.DefaultSpikeParams(),
		Lexicon:            lexicon.Default(),
	}
}

type Input struct {
	Transcript types.Transcript
	// Trace enables energy-driven generation when present and non-empty.
	Trace  *types.EnergyTrace
	Params Params
}

// Stats carries per-stage counts so an empty or short result is diagnosable.
type Stats struct {
	Generated  int
	Kept       int
	AboveFloor int
	Selected   int
	Source     types.Source
}

type Result struct {
	Moments []types.Candidate
	Stats   Stats
}

// Stages at which a run can come up empty.
const (
	StageGenerate = "generation"
	StageFilter   = "filtering"
	StageFloor    = "quality floor"
)

// EmptyResultError reports that a stage left zero candidates. The counts
// are the sizes going into each earlier stage.
type EmptyResultError struct {
	Stage     string
	Generated int
	Kept      int
	Floor     float64
}

func (e *EmptyResultError) Error() string {
	switch e.Stage {
	case StageGenerate:
		return "no candidate moments generated from transcript"
	case StageFilter:
		return fmt.Sprintf("all %d generated candidates rejected by filtering", e.Generated)
	default:
		return fmt.Sprintf("no candidates above quality floor %.1f (generated %d, kept %d)",
			e.Floor, e.Generated, e.Kept)
	}
}

// Texts at or above this Jaro-Winkler similarity are treated as the same
// moment during final selection.
const duplicateSimilarity = 0.9

// Run executes generate, filter, score, floor and selection over one
// transcript. Every stage returns a fresh collection; the input is never
// mutated.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	p := withDefaults(in.Params)
	tr := align.Transcript(in.Transcript, align.Proportional)

	cands, source := u.generate(tr, in.Trace, p)
	if len(cands) == 0 {
		return Result{}, &EmptyResultError{Stage: StageGenerate}
	}
	u.d.Log.Info().
		Int("candidates", len(cands)).
		Str("source", string(source)).
		Msg("generated candidate moments")

	// Energy-path candidates already carry their composite score and arrive
	// ranked by spike selection, so the filter and scorer are bypassed.
	kept, scored := cands, cands
	if source != types.SourceEnergy {
		var err error
		kept, err = u.d.Filter.Filter(ctx, cands, tr)
		if err != nil {
			return Result{}, fmt.Errorf("filter candidates: %w", err)
		}
		if len(kept) == 0 {
			return Result{}, &EmptyResultError{Stage: StageFilter, Generated: len(cands)}
		}

		scored, err = u.d.Scorer.Score(ctx, kept, tr)
		if err != nil {
			return Result{}, fmt.Errorf("score candidates: %w", err)
		}
	}

	above := lo.Filter(scored, func(c types.Candidate, _ int) bool {
		return c.Score >= p.QualityFloor
	})
	if len(above) == 0 {
		return Result{}, &EmptyResultError{
			Stage:     StageFloor,
			Generated: len(cands),
			Kept:      len(kept),
			Floor:     p.QualityFloor,
		}
	}

	selected := selectDistinct(above, p.TargetClips)
	if in.Trace != nil && len(in.Trace.Levels) > 0 {
		selected = u.trimToSpeech(ctx, selected, *in.Trace, p)
	}
	if len(selected) == 0 {
		return Result{}, &EmptyResultError{
			Stage:     StageFloor,
			Generated: len(cands),
			Kept:      len(kept),
			Floor:     p.QualityFloor,
		}
	}
	selected = snapToWords(selected, tr)
	u.d.Log.Info().
		Int("above_floor", len(above)).
		Int("selected", len(selected)).
		Float64("top_score", selected[0].Score).
		Msg("selected moments")

	return Result{
		Moments: selected,
		Stats: Stats{
			Generated:  len(cands),
			Kept:       len(kept),
			AboveFloor: len(above),
			Selected:   len(selected),
			Source:     source,
		},
	}, nil
}

// generate prefers the energy path when a usable trace is present and falls
// back to window scanning when spike detection yields nothing. The fallback
// is logged, never an error.
func (u Usecase) generate(tr types.Transcript, trace *types.EnergyTrace, p Params) ([]types.Candidate, types.Source) {
	gp := moments.GenerateParams{
		MinLength:     p.MinLength,
		MaxLength:     p.MaxLength,
		MaxCandidates: p.GenerationCap,
	}

	if trace != nil && len(trace.Levels) > 0 {
		spikes := audio.DetectSpikes(*trace, p.Spikes)
		spikes = audio.FuseKeywords(spikes, tr, p.Lexicon)
		cands := moments.FromSpikes(spikes, tr, gp, p.GenerationCap)
		if len(cands) > 0 {
			return cands, types.SourceEnergy
		}
		u.d.Log.Warn().
			Int("spikes", len(spikes)).
			Msg("no usable energy spikes, falling back to window scan")
	}

	return moments.FromWindows(tr, gp), types.SourceWindowing
}

// trimToSpeech nudges selected cut points off long silent stretches so
// clips neither open nor close on dead air. A moment swallowed whole by
// silence is dropped.
func (u Usecase) trimToSpeech(ctx context.Context, selected []types.Candidate, trace types.EnergyTrace, p Params) []types.Candidate {
	threshold := p.SilenceThresholdDb
	if threshold == 0 {
		sweep, err := audio.MultiThresholdSweep(ctx, trace, []float64{-30, -40, -50}, p.MinSilenceSec)
		if err != nil {
			u.d.Log.Warn().Err(err).Msg("silence sweep failed, skipping boundary trim")
			return selected
		}
		total := p.TotalDurationSec
		if total <= 0 {
			total = trace.Duration()
		}
		var why string
		threshold, why = audio.RecommendThreshold(sweep, total, 0.20)
		u.d.Log.Debug().
			Float64("threshold_db", threshold).
			Str("reason", why).
			Msg("silence threshold selected")
	}

	regions := audio.DetectSilence(trace, threshold, p.MinSilenceSec)
	if len(regions) == 0 {
		return selected
	}

	out := make([]types.Candidate, 0, len(selected))
	for _, m := range selected {
		w := audio.TrimToSpeech(
			[][2]float64{{m.Start.Seconds(), m.End.Seconds()}},
			regions, p.MinSilenceSec,
		)
		if len(w) == 0 {
			u.d.Log.Debug().
				Float64("start_sec", m.Start.Seconds()).
				Msg("moment collapsed into silence, dropped")
			continue
		}
		m.Start = types.DurationFromSeconds(w[0][0])
		m.End = types.DurationFromSeconds(w[0][1])
		out = append(out, m)
	}
	return out
}

// Snap cut points to a word boundary at most this many seconds away.
const snapMaxDistance = 0.5

// snapToWords moves each final cut point onto the nearest word start/end so
// clips never begin or end mid-word. Bounds that would invert are left
// alone.
func snapToWords(selected []types.Candidate, tr types.Transcript) []types.Candidate {
	var words []types.Word
	for _, seg := range tr.Segments {
		words = append(words, seg.Words...)
	}
	if len(words) == 0 {
		return selected
	}

	out := make([]types.Candidate, 0, len(selected))
	for _, m := range selected {
		start := align.SnapToBoundary(m.Start.Seconds(), words, align.SnapStart, snapMaxDistance)
		end := align.SnapToBoundary(m.End.Seconds(), words, align.SnapEnd, snapMaxDistance)
		if end > start {
			m.Start = types.DurationFromSeconds(start)
			m.End = types.DurationFromSeconds(end)
		}
		out = append(out, m)
	}
	return out
}

// selectDistinct walks the ranked candidates best first, skipping any that
// overlap in time or near-duplicate the text of an already selected moment,
// and stops at max.
func selectDistinct(ranked []types.Candidate, max int) []types.Candidate {
	out := make([]types.Candidate, 0, max)
	for _, c := range ranked {
		if len(out) == max {
			break
		}
		if conflicts(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func conflicts(selected []types.Candidate, c types.Candidate) bool {
	for _, s := range selected {
		if c.Start < s.End && s.Start < c.End {
			return true
		}
		if matchr.JaroWinkler(normalizeText(c.Text), normalizeText(s.Text), false) >= duplicateSimilarity {
			return true
		}
	}
	return false
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func withDefaults(p Params) Params {
	d := DefaultParams()
	if p.MinLength <= 0 {
		p.MinLength = d.MinLength
	}
	if p.MaxLength <= 0 {
		p.MaxLength = d.MaxLength
	}
	if p.TargetClips <= 0 {
		p.TargetClips = d.TargetClips
	}
	if p.GenerationCap <= 0 {
		p.GenerationCap = d.GenerationCap
	}
	if p.QualityFloor <= 0 {
		p.QualityFloor = d.QualityFloor
	}
	if p.MinSilenceSec <= 0 {
		p.MinSilenceSec = d.MinSilenceSec
	}
	if p.Spikes.WindowSize <= 0 {
		p.Spikes.WindowSize = d.Spikes.WindowSize
	}
	if p.Spikes.Multiplier <= 0 {
		p.Spikes.Multiplier = d.Spikes.Multiplier
	}
	if len(p.Lexicon.Categories) == 0 {
		p.Lexicon = d.Lexicon
	}
	return p
}
