// Package hooks scores the opening seconds of a candidate moment for
// attention-grabbing patterns. The editorial rule: below 6 the moment has no
// hook worth keeping, 6-7 is weak, 7-9 strong, 9-10 excellent.
package hooks

import (
	"regexp"
	"strings"

	"github.com/clipworks/momentcut/internal/types"
)

// OpeningWindow is how much of the moment's start is considered the hook.
const OpeningWindow = 3.0

// Signal is the outcome of hook analysis for one opening.
type Signal struct {
	Type       types.HookType
	Strength   float64 // 0-10, 0 only when Type is HookNone
	Text       string  // opening excerpt, at most 80 runes
	Confidence float64 // 0-1
	Reasons    []string
}

// Priority buckets a strength into the editorial tiers.
type Priority string

const (
	PriorityReject    Priority = "reject"
	PriorityWeak      Priority = "weak"
	PriorityStrong    Priority = "strong"
	PriorityExcellent Priority = "excellent"
)

// PriorityOf maps a hook strength to its editorial tier.
func PriorityOf(strength float64) Priority {
	switch {
	case strength >= 9.0:
		return PriorityExcellent
	case strength >= 7.0:
		return PriorityStrong
	case strength >= 6.0:
		return PriorityWeak
	default:
		return PriorityReject
	}
}

var questionWords = []string{
	"what", "why", "how", "when", "where", "who", "which",
	"can", "could", "would", "should", "will", "did", "does",
	"is", "are", "was", "were",
}

var surprisingTiers = []struct {
	strength float64
	words    []string
}{
	{9.0, []string{"actually", "surprisingly", "shocking", "incredible", "unbelievable", "secret", "truth", "reality", "wrong"}},
	{8.0, []string{"wait", "but", "however", "though", "never knew", "didn't know", "realize", "turns out", "plot twist"}},
	{7.0, []string{"interesting", "fascinating", "curious", "unusual"}},
}

// numberPatterns is matched in order; the first hit wins even when a later
// pattern carries a higher strength.
var numberPatterns = []struct {
	re       *regexp.Regexp
	desc     string
	strength float64
}{
	{regexp.MustCompile(`\d+%`), "percentage", 8.0},
	{regexp.MustCompile(`\d{4,}`), "large number", 7.5},
	{regexp.MustCompile(`(?i)\d+\s*(?:million|billion|thousand)`), "magnitude", 8.0},
	{regexp.MustCompile(`\d+[-–]\d+`), "range", 7.0},
	{regexp.MustCompile(`(?i)#?\d+\s+(?:ways|reasons|tips|secrets|facts)`), "listicle", 9.0},
	{regexp.MustCompile(`\d+`), "number", 7.0},
}

// ctaCategories is matched in order; the first category hit wins even when a
// later one carries a higher strength.
var ctaCategories = []struct {
	strength float64
	phrases  []string
}{
	{8.0, []string{"watch this", "check this out", "look at this", "see this"}},
	{7.0, []string{"here's", "let me show", "let me tell", "i'll show"}},
	{6.5, []string{"listen", "understand", "learn", "discover", "find out"}},
	{7.5, []string{"imagine", "picture this", "think about", "consider"}},
}

var emotionalTriggers = []string{
	"love", "hate", "fear", "worry", "excited", "angry",
	"frustrated", "amazing", "terrible", "best", "worst",
	"dangerous", "safe", "risky", "genius", "stupid",
}

var urgencyWords = []string{
	"now", "today", "immediately", "quickly", "before",
	"limited", "only", "last chance", "hurry",
}

var fillerStarts = []string{
	"so", "and", "um", "uh", "like", "basically",
	"literally", "you know", "i mean",
}

// AnalyzeOpening extracts the transcript text overlapping
// [momentStart, momentStart+OpeningWindow) and returns the strongest hook
// signal found, or a HookNone signal with strength zero.
func AnalyzeOpening(tr types.Transcript, momentStart float64) Signal {
	opening := openingText(tr, momentStart, momentStart+OpeningWindow)
	return AnalyzeText(opening)
}

// AnalyzeText runs every detector over an opening excerpt directly. Useful
// when the caller already has the text (energy-path candidates).
func AnalyzeText(opening string) Signal {
	opening = strings.TrimSpace(opening)
	if opening == "" {
		return Signal{Type: types.HookNone, Confidence: 1, Reasons: []string{"no text in opening window"}}
	}

	lower := strings.ToLower(opening)
	excerpt := truncateRunes(opening, 80)
	var signals []Signal

	// 1. Question: literal marks across scripts, or a question word at the
	// very start.
	hasMark := strings.ContainsAny(opening, "?？¿")
	startsQuestion := false
	for _, qw := range questionWords {
		if startsWithWord(lower, qw) {
			startsQuestion = true
			break
		}
	}
	if hasMark || startsQuestion {
		conf, reason := 1.0, "question mark detected"
		if !hasMark {
			conf, reason = 0.85, "question word at start"
		}
		signals = append(signals, Signal{Type: types.HookQuestion, Strength: 10, Text: excerpt, Confidence: conf, Reasons: []string{reason}})
	}

	// 2. Surprising word: only the first tier hit counts.
	for _, tier := range surprisingTiers {
		hit := ""
		for _, w := range tier.words {
			if strings.Contains(lower, w) {
				hit = w
				break
			}
		}
		if hit != "" {
			signals = append(signals, Signal{Type: types.HookSurprising, Strength: tier.strength, Text: excerpt, Confidence: 0.85, Reasons: []string{"surprising word: " + hit}})
			break
		}
	}

	// 3. Numeric pattern: ranked list, first match wins.
	for _, np := range numberPatterns {
		if np.re.MatchString(opening) {
			signals = append(signals, Signal{Type: types.HookData, Strength: np.strength, Text: excerpt, Confidence: 0.9, Reasons: []string{"numeric pattern: " + np.desc}})
			break
		}
	}

	// 4. Call to action: first category hit wins.
	for _, cat := range ctaCategories {
		hit := ""
		for _, p := range cat.phrases {
			if strings.Contains(lower, p) {
				hit = p
				break
			}
		}
		if hit != "" {
			signals = append(signals, Signal{Type: types.HookCTA, Strength: cat.strength, Text: excerpt, Confidence: 0.75, Reasons: []string{"call to action: " + hit}})
			break
		}
	}

	// 5. Emotional trigger.
	for _, trig := range emotionalTriggers {
		if strings.Contains(lower, trig) {
			signals = append(signals, Signal{Type: types.HookEmotional, Strength: 7.5, Text: excerpt, Confidence: 0.7, Reasons: []string{"emotional trigger: " + trig}})
			break
		}
	}

	// 6. Urgency/scarcity.
	for _, w := range urgencyWords {
		if strings.Contains(lower, w) {
			signals = append(signals, Signal{Type: types.HookUrgency, Strength: 7.0, Text: excerpt, Confidence: 0.7, Reasons: []string{"urgency language"}})
			break
		}
	}

	// Vague starts downgrade every signal by 20%.
	for _, v := range fillerStarts {
		if startsWithWord(lower, v) {
			for i := range signals {
				signals[i].Strength *= 0.8
				signals[i].Reasons = append(signals[i].Reasons, "vague start")
			}
			break
		}
	}

	if len(signals) == 0 {
		return Signal{Type: types.HookNone, Text: excerpt, Confidence: 1, Reasons: []string{"no hook patterns detected"}}
	}

	best := signals[0]
	for _, s := range signals[1:] {
		if s.Strength*s.Confidence > best.Strength*best.Confidence {
			best = s
		}
	}
	return best
}

// startsWithWord reports whether s begins with the whole word w, not just
// the prefix ("so" must not match "should").
func startsWithWord(s, w string) bool {
	if !strings.HasPrefix(s, w) {
		return false
	}
	if len(s) == len(w) {
		return true
	}
	next := s[len(w)]
	return next == ' ' || next == ',' || next == '.' || next == '!' || next == '?' || next == '\''
}

func openingText(tr types.Transcript, start, end float64) string {
	var parts []string
	for _, seg := range tr.Segments {
		if seg.Start < end && seg.End > start {
			parts = append(parts, strings.TrimSpace(seg.Text))
		}
	}
	return strings.Join(parts, " ")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
