// Package local implements the filter and scorer seams with the in-process
// rule engine. It is the default backend and the fallback for hosted ones.
package local

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clipworks/momentcut/internal/domain/moments"
	"github.com/clipworks/momentcut/internal/types"
)

type Filter struct {
	log zerolog.Logger
}

func NewFilter(log zerolog.Logger) *Filter {
	return &Filter{log: log.With().Str("component", "filter").Logger()}
}

func (f *Filter) Filter(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kept, rejected := moments.Filter(cands, tr)
	for _, r := range rejected {
		f.log.Debug().
			Float64("start", r.Start.Seconds()).
			Float64("end", r.End.Seconds()).
			Strs("reasons", r.Rejections).
			Msg("candidate rejected")
	}
	f.log.Info().
		Int("in", len(cands)).
		Int("kept", len(kept)).
		Int("rejected", len(rejected)).
		Msg("filtered candidates")
	return kept, nil
}

type Scorer struct {
	log zerolog.Logger
}

func NewScorer(log zerolog.Logger) *Scorer {
	return &Scorer{log: log.With().Str("component", "scorer").Logger()}
}

func (s *Scorer) Score(ctx context.Context, cands []types.Candidate, tr types.Transcript) ([]types.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ranked := moments.Rank(cands)
	if len(ranked) > 0 {
		s.log.Info().
			Int("count", len(ranked)).
			Float64("top", ranked[0].Score).
			Msg("scored candidates")
	}
	return ranked, nil
}
