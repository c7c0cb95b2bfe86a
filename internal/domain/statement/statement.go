// Package statement rates how well a stretch of speech stands on its own,
// independent of any hook at its start.
package statement

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// Strength is the quality tier of an analyzed statement.
type Strength string

const (
	StrengthWeak      Strength = "weak"
	StrengthModerate  Strength = "moderate"
	StrengthStrong    Strength = "strong"
	StrengthExcellent Strength = "excellent"
)

// Quality is the full breakdown for one statement.
type Quality struct {
	Strength        Strength
	Score           float64            // 0-10 weighted composite
	Factors         map[string]float64 // per-factor 0-10
	Recommendations []string           // at most 3
}

// Factor names as they appear in Quality.Factors.
const (
	FactorLength       = "length"
	FactorSpecificity  = "specificity"
	FactorClarity      = "clarity"
	FactorCompleteness = "completeness"
	FactorActionable   = "actionable"
	FactorEngagement   = "engagement"
	FactorReadability  = "readability"
)

var factorWeights = map[string]float64{
	FactorLength:       0.10,
	FactorSpecificity:  0.20,
	FactorClarity:      0.25,
	FactorCompleteness: 0.15,
	FactorActionable:   0.15,
	FactorEngagement:   0.10,
	FactorReadability:  0.05,
}

var (
	digitRE      = regexp.MustCompile(`\d+`)
	properNounRE = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

var vagueStarts = []string{
	"so", "and", "but", "like", "basically", "literally",
	"um", "uh", "you know", "i mean", "kind of", "sort of",
}

var fillerWords = []string{"actually", "really", "very", "just", "quite", "rather"}

var exampleIndicators = []string{"for example", "such as", "like", "including", "e.g.", "i.e."}

var trailingIndicators = []string{"...", "etc", "and so on", "or whatever", "or something"}

var actionVerbs = []string{
	"do", "make", "create", "build", "learn", "understand",
	"discover", "show", "try", "find", "change", "improve",
	"develop", "achieve", "implement", "solve", "apply",
}

var instructionalWords = []string{"how to", "step", "method", "way", "technique", "approach"}

var outcomeWords = []string{"result", "outcome", "benefit", "advantage", "impact", "effect"}

var emotionalWords = []string{
	"amazing", "incredible", "powerful", "important", "critical",
	"essential", "surprising", "interesting", "fascinating",
}

var personalPronouns = []string{"you", "we", "us", "your", "our"}

var linkingVerbs = []string{
	"is", "are", "was", "were", "has", "have", "had",
	"do", "does", "did", "can", "could", "will", "would",
}

// Analyze scores text across seven weighted factors and returns the
// composite quality. Recommendations list the cheapest improvements, capped
// at three.
func Analyze(text string) Quality {
	clean := strings.TrimSpace(text)
	words := strings.Fields(clean)
	wordCount := len(words)
	lower := strings.ToLower(clean)

	factors := make(map[string]float64, len(factorWeights))
	var recs []string

	// Length: 15-50 words is the sweet spot, short fragments score near zero.
	switch {
	case wordCount < 10:
		factors[FactorLength] = maxf(0, float64(wordCount)*0.5)
		recs = append(recs, "Statement too short - add more detail")
	case wordCount <= 60:
		factors[FactorLength] = minf(10, float64(wordCount)/5.0)
	default:
		factors[FactorLength] = maxf(5, 10-float64(wordCount-60)*0.1)
		recs = append(recs, "Statement too long - consider splitting")
	}

	// Specificity: numbers, proper nouns, long terms, explicit examples.
	specificity := minf(3, float64(len(digitRE.FindAllString(clean, -1))))
	specificity += minf(2, float64(len(properNounRE.FindAllString(clean, -1)))*0.5)
	long := 0
	for _, w := range words {
		if len(w) >= 8 {
			long++
		}
	}
	specificity += minf(2, float64(long)*0.3)
	if containsAny(lower, exampleIndicators) {
		specificity += 3
	}
	factors[FactorSpecificity] = minf(10, specificity)
	if specificity < 5 {
		recs = append(recs, "Add specific examples, numbers, or concrete details")
	}

	// Clarity: start from 10, penalize vague openings, filler, run-ons.
	clarity := 10.0
	for _, v := range vagueStarts {
		if strings.HasPrefix(lower, v) {
			clarity -= 4
			recs = append(recs, "Avoid vague opening words")
			break
		}
	}
	fillers := 0
	for _, f := range fillerWords {
		if strings.Contains(lower, f) {
			fillers++
		}
	}
	if fillers > 2 {
		clarity -= minf(3, float64(fillers)*0.5)
		recs = append(recs, "Reduce filler words for clarity")
	}
	if wordCount > 40 && !strings.Contains(clean[:len(clean)/2], ",") {
		clarity -= 2
		recs = append(recs, "Break up long sentences with punctuation")
	}
	factors[FactorClarity] = maxf(0, clarity)

	// Completeness: proper ending, no trailing off, a subject-verb shape.
	completeness := 0.0
	if endsProperly(clean) {
		completeness += 5
	} else {
		recs = append(recs, "Complete the statement with proper punctuation")
	}
	tail := lower
	if len(tail) > 20 {
		tail = tail[len(tail)-20:]
	}
	if containsAny(tail, trailingIndicators) {
		recs = append(recs, "Avoid trailing off at the end")
	} else {
		completeness += 3
	}
	if hasSubjectVerb(lower) {
		completeness += 2
	}
	factors[FactorCompleteness] = minf(10, completeness)

	// Actionability: verbs, instructional framing, practical outcomes.
	actionable := 0.0
	actions := 0
	for _, v := range actionVerbs {
		if strings.Contains(lower, v) {
			actions++
		}
	}
	actionable += minf(4, float64(actions))
	if containsAny(lower, instructionalWords) {
		actionable += 3
	}
	if containsAny(lower, outcomeWords) {
		actionable += 3
	}
	factors[FactorActionable] = minf(10, actionable)
	if actionable < 4 {
		recs = append(recs, "Add actionable information or practical value")
	}

	// Engagement: vocabulary variety, emotion, questions, direct address.
	engagement := 0.0
	seen := make(map[string]struct{}, wordCount)
	for _, w := range words {
		seen[w] = struct{}{}
	}
	engagement += minf(3, float64(len(seen))/maxf(1, float64(wordCount))*5)
	if containsAny(lower, emotionalWords) {
		engagement += 2
	}
	if strings.Contains(clean, "?") {
		engagement += 2
	}
	if containsAny(lower, personalPronouns) {
		engagement += 3
	}
	factors[FactorEngagement] = minf(10, engagement)

	// Readability: penalize heavy vocabulary and clause-dense sentences.
	readability := 10.0
	letters := 0
	for _, w := range words {
		letters += len(w)
	}
	if float64(letters)/maxf(1, float64(wordCount)) > 6.5 {
		readability -= 2
		recs = append(recs, "Use simpler words for better readability")
	}
	clauses := 0
	for _, m := range []string{",", ";", ":", "—", "–"} {
		clauses += strings.Count(clean, m)
	}
	if float64(clauses) > float64(wordCount)/10 {
		readability -= 2
		recs = append(recs, "Simplify sentence structure")
	}
	factors[FactorReadability] = maxf(0, readability)

	score := 0.0
	for name, w := range factorWeights {
		score += factors[name] * w
	}

	if len(recs) > 3 {
		recs = recs[:3]
	}
	return Quality{
		Strength:        strengthFor(score),
		Score:           round2(score),
		Factors:         roundFactors(factors),
		Recommendations: recs,
	}
}

// Compare analyzes a batch and returns the results sorted by score, best
// first. The sort is stable so equal scores keep input order.
func Compare(statements []string) []Quality {
	out := make([]Quality, len(statements))
	for i, s := range statements {
		out[i] = Analyze(s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func strengthFor(score float64) Strength {
	switch {
	case score >= 8.5:
		return StrengthExcellent
	case score >= 7.0:
		return StrengthStrong
	case score >= 4.5:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func endsProperly(s string) bool {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '.', '!', '?', ':', ';':
		return true
	}
	return false
}

// hasSubjectVerb is a cheap fragment check: a linking verb with words on
// both sides.
func hasSubjectVerb(lower string) bool {
	words := strings.Fields(lower)
	if len(words) < 3 {
		return false
	}
	for i := 1; i < len(words)-1; i++ {
		for _, v := range linkingVerbs {
			if words[i] == v {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func roundFactors(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = round2(v)
	}
	return out
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
