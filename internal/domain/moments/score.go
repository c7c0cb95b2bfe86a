package moments

import (
	"regexp"
	"sort"
	"strings"

	"github.com/clipworks/momentcut/internal/types"
)

// Sub-score names as they appear in Candidate.SubScores.
const (
	ScoreContextClarity = "context_clarity"
	ScoreHookStrength   = "hook_strength"
	ScoreStandalone     = "standalone"
	ScoreRetention      = "retention"
)

type langHook struct {
	re     *regexp.Regexp
	points float64
}

var hookPatterns = map[types.Language][]langHook{
	types.LangEnglish: {
		{regexp.MustCompile(`(?i)\b(secret|hidden|truth|reality)\b`), 3.0},
		{regexp.MustCompile(`(?i)\b(never|always|nobody|everyone)\b`), 2.5},
		{regexp.MustCompile(`(?i)^(why|how|what)`), 2.0},
		{regexp.MustCompile(`(?i)\b(mistake|wrong|problem)\b`), 2.0},
	},
	types.LangHindi: {
		{regexp.MustCompile(`(रहस्य|सच|वास्तविकता)`), 3.0},
		{regexp.MustCompile(`(क्यों|कैसे|क्या)`), 2.0},
		{regexp.MustCompile(`(गलती|समस्या|गलत)`), 2.0},
	},
	types.LangSpanish: {
		{regexp.MustCompile(`(?i)(secreto|verdad|realidad)`), 3.0},
		{regexp.MustCompile(`(?i)(por qué|cómo|qué)`), 2.0},
	},
}

var vagueRefs = []string{"this", "that", "it", "they", "those", "these"}

var engagementREs = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(you|your)\b`),
	regexp.MustCompile(`(?i)\b(imagine|picture|think about)\b`),
	regexp.MustCompile(`\?\s*\w+`),
	regexp.MustCompile(`(?i)\b(first|second|finally)\b`),
}

// Rank scores each candidate on four equal-weighted dimensions, fills
// Score and SubScores on fresh copies, and returns them sorted best first.
// The sort is stable so equal scores keep input order.
func Rank(cands []types.Candidate) []types.Candidate {
	out := make([]types.Candidate, len(cands))
	for i, c := range cands {
		subs := map[string]float64{
			ScoreContextClarity: scoreContextClarity(c),
			ScoreHookStrength:   scoreHookStrength(c),
			ScoreStandalone:     scoreStandalone(c),
			ScoreRetention:      scoreRetention(c),
		}
		total := 0.0
		for _, v := range subs {
			total += v
		}
		c.SubScores = subs
		c.Score = round2(total / float64(len(subs)))
		out[i] = c
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// scoreContextClarity starts self-contained at 10 and deducts for vague
// references near the front.
func scoreContextClarity(c types.Candidate) float64 {
	score := 10.0
	if strings.ContainsAny(c.Text, "?？") {
		score += 1
	}
	if digitsRE.MatchString(c.Text) {
		score += 0.5
	}
	if c.Language == types.LangEnglish {
		first20 := strings.ToLower(strings.Join(firstWords(c.Text, 20), " "))
		for _, ref := range vagueRefs {
			if containsWord(first20, ref) {
				score -= 1.5
			}
		}
	}
	return clamp10(score)
}

func scoreHookStrength(c types.Candidate) float64 {
	first10 := strings.ToLower(strings.Join(firstWords(c.Text, 10), " "))
	score := 5.0
	if strings.ContainsAny(first10, "?？") {
		score += 2
	}
	if digitsRE.MatchString(first10) {
		score += 1.5
	}
	// Only the first pattern hit counts.
	for _, h := range hookPatterns[c.Language] {
		if h.re.MatchString(first10) {
			score += h.points
			break
		}
	}
	return clamp10(score)
}

func scoreStandalone(c types.Candidate) float64 {
	text := strings.TrimSpace(c.Text)
	score := 8.0
	if strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") ||
		strings.HasSuffix(text, "?") || strings.HasSuffix(text, "।") {
		score += 1
	}
	// A question with material after it reads as question-and-answer.
	if i := strings.Index(text, "?"); i >= 0 && i < len(text)-1 {
		score += 1.5
	}
	return clamp10(score)
}

func scoreRetention(c types.Candidate) float64 {
	dur := c.Duration().Seconds()
	score := 7.0
	switch {
	case dur >= 30 && dur <= 45:
		score += 2
	case dur > 45 && dur <= 60:
		score += 1
	}
	if dur > 55 {
		score -= 1
	}
	for _, re := range engagementREs {
		if re.MatchString(c.Text) {
			score += 0.5
		}
	}
	sentences := strings.Count(c.Text, ".") + strings.Count(c.Text, "!") + strings.Count(c.Text, "?")
	if sentences >= 3 && sentences <= 5 {
		score += 1
	}
	return clamp10(score)
}

func firstWords(text string, n int) []string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return words
}

// containsWord does a whole-word substring check on a lowercase string.
func containsWord(s, w string) bool {
	idx := 0
	for {
		i := strings.Index(s[idx:], w)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || s[i-1] == ' '
		after := i+len(w) == len(s) || s[i+len(w)] == ' ' || s[i+len(w)] == '.' || s[i+len(w)] == ',' || s[i+len(w)] == '?'
		if before && after {
			return true
		}
		idx = i + len(w)
		if idx >= len(s) {
			return false
		}
	}
}

func clamp10(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
