package moments

import (
	"testing"

	"github.com/clipworks/momentcut/internal/types"
)

func englishCandidate(text string, durSec float64) types.Candidate {
	return types.Candidate{
		Start:    0,
		End:      types.DurationFromSeconds(durSec),
		Text:     text,
		Language: types.LangEnglish,
	}
}

func TestRank_SubScoresPresent(t *testing.T) {
	c := englishCandidate("What is the secret to great barbecue? Start with 2 simple rules. First, keep the fire low. Second, be patient.", 35)
	out := Rank([]types.Candidate{c})
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	subs := out[0].SubScores
	for _, name := range []string{ScoreContextClarity, ScoreHookStrength, ScoreStandalone, ScoreRetention} {
		if _, ok := subs[name]; !ok {
			t.Fatalf("missing sub-score %s in %v", name, subs)
		}
	}
	if out[0].Score < 9.5 {
		t.Fatalf("score = %v, want a near-perfect candidate", out[0].Score)
	}
}

func TestRank_OrdersByScore(t *testing.T) {
	strong := englishCandidate("What is the secret to shipping fast? Cut scope, not corners. You decide what matters.", 35)
	vague := englishCandidate("this went on for a while and it kept going without much happening", 20)

	out := Rank([]types.Candidate{vague, strong})
	if out[0].Text != strong.Text {
		t.Fatalf("first = %q, want the strong candidate", out[0].Text)
	}
	if out[0].Score <= out[1].Score {
		t.Fatalf("scores %v, %v not descending", out[0].Score, out[1].Score)
	}
}

func TestRank_StableOnTies(t *testing.T) {
	a := englishCandidate("Why do most rewrites fail? Nobody budgets for the second 90 percent.", 35)
	b := a
	b.Keywords = []string{"marker"}
	out := Rank([]types.Candidate{a, b})
	if len(out[0].Keywords) != 0 || len(out[1].Keywords) != 1 {
		t.Fatal("equal scores must keep input order")
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []types.Candidate{englishCandidate("Why bother? Because better tests catch the 1 bug that matters.", 35)}
	Rank(in)
	if in[0].SubScores != nil || in[0].Score != 0 {
		t.Fatalf("input mutated: %+v", in[0])
	}
}

func TestScoreRetention_DurationSweetSpot(t *testing.T) {
	tests := []struct {
		dur  float64
		want float64
	}{
		{35, 9.0}, // 30-45s bonus
		{50, 8.0}, // 45-60s smaller bonus
		{58, 7.0}, // long bonus cancelled by the over-55 penalty
		{20, 7.0}, // no bonus
	}
	for _, tt := range tests {
		c := englishCandidate("", tt.dur)
		if got := scoreRetention(c); got != tt.want {
			t.Fatalf("retention(%vs) = %v, want %v", tt.dur, got, tt.want)
		}
	}
}

func TestScoreContextClarity_VagueRefPenalty(t *testing.T) {
	clean := englishCandidate("Why do most startups fail? The numbers tell a simple story: 9 out of 10 run dry.", 35)
	vague := englishCandidate("this is about that thing and it matters", 35)
	if scoreContextClarity(clean) <= scoreContextClarity(vague) {
		t.Fatal("vague references must cost clarity")
	}
}
