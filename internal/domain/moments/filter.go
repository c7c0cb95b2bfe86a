package moments

import (
	"regexp"
	"strings"

	"github.com/clipworks/momentcut/internal/types"
)

// Rejection reason strings, stable across runs so downstream tooling can
// group on them.
const (
	ReasonNoClearTopic    = "No clear topic/problem in first 2s, Requires external context"
	ReasonMidThought      = "Starts mid-thought"
	ReasonUnclearPronouns = "Unclear pronouns without reference"
	ReasonBareExplanation = "Explanation without stated question/problem"
	ReasonNeedsContext    = "Requires external context"
	ReasonPodcastContext  = "Requires podcast context"
	ReasonBrandingFirst   = "Branding appears before insight"
)

// ruleSet is the language-specific half of the filter. Languages without an
// entry get a zero ruleSet, which leaves only the universal checks active.
type ruleSet struct {
	clearTopic      []*regexp.Regexp
	midThought      []*regexp.Regexp
	contextDep      []*regexp.Regexp
	podcastRef      []*regexp.Regexp
	branding        []*regexp.Regexp
	problemKeywords []string
}

var ruleTables = map[types.Language]ruleSet{
	types.LangEnglish: {
		clearTopic: compileAll(
			`(?i)^\s*(why|how|what|when|where|who)`,
			`(?i)^\s*(do you know|have you ever|did you know)`,
			`(?i)^\s*the (secret|truth|reality|key|problem|issue|thing) (is|to|about)`,
			`(?i)^\s*(here's|let me (tell|show|explain))`,
			`(?i)^\s*(\d+\s+(ways|reasons|things|tips))`,
			`(?i)\b(the (secret|truth|reality|key|problem|issue) (is|of|to))\b`,
			`(?i)\b(actually|really|surprisingly|interestingly|basically)\s+`,
			`(?i)\b(one of the|the most|the best|the worst)\b`,
		),
		midThought: compileAll(
			`(?i)^\s*so\s+(i|we|he|she|they|you)`,
			`(?i)^\s*because`,
			`(?i)^\s*as\s+i\s+(said|mentioned)`,
			`(?i)^\s*going back to`,
		),
		contextDep: compileAll(
			`(?i)\b(remember when|as (i|we) said|earlier|previously)\b`,
			`(?i)\b(in (this|that) (video|episode|podcast))\b`,
			`(?i)\b(like i mentioned|as discussed)\b`,
			`(?i)\b(the other day|last (week|time))\b`,
		),
		podcastRef: compileAll(
			`(?i)\b(on (this|the) (show|podcast|episode))\b`,
			`(?i)\b(my guest|our guest|the guest)\b`,
			`(?i)\b(we're talking (about|with))\b`,
			`(?i)\b(thanks for (having|joining))\b`,
		),
		branding: compileAll(
			`(?i)\b(subscribe|like|comment|follow|check out)\b`,
			`(?i)\b(my (channel|podcast|show|course))\b`,
			`(?i)\b(link in (bio|description))\b`,
		),
		problemKeywords: []string{"why", "how", "what", "problem", "reason", "secret", "truth", "solution", "key", "mistake"},
	},
	types.LangHindi: {
		clearTopic: compileAll(
			`(क्यों|कैसे|क्या|कब|कहाँ|कौन)`,
			`(रहस्य|सच|वास्तविकता)`,
			`\d+\s*(तरीके|कारण|टिप्स)`,
		),
		midThought: compileAll(`^\s*(तो|क्योंकि)`),
		contextDep: compileAll(
			`(याद है|जैसा मैंने कहा|पहले|पिछले)`,
			`(इस (वीडियो|एपिसोड|पॉडकास्ट) में)`,
		),
		podcastRef: compileAll(
			`(इस (शो|पॉडकास्ट|एपिसोड) पर)`,
			`(मेरे अतिथि|हमारे अतिथि)`,
		),
		branding: compileAll(
			`(सब्सक्राइब|लाइक|कमेंट|फॉलो)`,
			`(मेरे (चैनल|पॉडकास्ट|शो))`,
		),
		problemKeywords: []string{"क्यों", "कैसे", "समस्या", "कारण", "समाधान"},
	},
	types.LangSpanish: {
		clearTopic: compileAll(
			`(?i)(por qué|cómo|qué|cuándo|dónde)`,
			`(?i)(secreto|verdad|realidad)`,
		),
		midThought: compileAll(`(?i)^\s*(entonces|porque)`),
		contextDep: compileAll(
			`(?i)\b(recuerda cuando|como (yo|nosotros) dijimos|antes|previamente)\b`,
			`(?i)\b(en (este|ese) (video|episodio|podcast))\b`,
		),
		podcastRef: compileAll(
			`(?i)\b(en (este|el) (show|podcast|episodio))\b`,
			`(?i)\b(mi invitado|nuestro invitado)\b`,
		),
		branding: compileAll(
			`(?i)\b(suscríbete|like|comenta|sigue)\b`,
			`(?i)\b(mi (canal|podcast|show))\b`,
		),
		problemKeywords: []string{"por qué", "cómo", "problema", "razón", "solución"},
	},
}

var (
	digitsRE        = regexp.MustCompile(`\d+`)
	bareConnectorRE = regexp.MustCompile(`^(because|since|due to|as a result|therefore|thus|so|hence)\s+`)
)

var topicFiller = map[string]struct{}{
	"and": {}, "the": {}, "a": {}, "or": {}, "is": {}, "are": {},
	"was": {}, "were": {}, "this": {}, "that": {}, "it": {}, "be": {},
}

var unclearPronouns = []string{"this", "that", "it", "they", "them", "these", "those"}

// Filter applies every rejection rule to every candidate. A candidate is
// kept only when no rule fires; rejected candidates come back separately
// with every failed rule recorded, not just the first.
func Filter(cands []types.Candidate, tr types.Transcript) (kept, rejected []types.Candidate) {
	for _, c := range cands {
		reasons := Inspect(c, tr)
		if len(reasons) == 0 {
			kept = append(kept, c)
			continue
		}
		r := c
		r.Rejections = reasons
		rejected = append(rejected, r)
	}
	return kept, rejected
}

// Inspect runs the rule set against one candidate and returns the reasons it
// would be rejected, in rule order. An empty result means the candidate
// passes.
func Inspect(c types.Candidate, tr types.Transcript) []string {
	rules := ruleTables[c.Language]
	text := c.Text
	lower := strings.ToLower(text)
	start := c.Start.Seconds()

	opening := textOverlappingWindow(tr, start, start+2)
	if opening == "" {
		// Silence at the cut point, widen until speech appears.
		opening = textOverlappingWindow(tr, start, start+4)
	}

	var reasons []string

	if !hasClearTopic(opening, rules) {
		reasons = append(reasons, ReasonNoClearTopic)
	}
	if matchesAny(text, rules.midThought) {
		reasons = append(reasons, ReasonMidThought)
	}
	if c.Language == types.LangEnglish && hasUnclearPronouns(opening) {
		reasons = append(reasons, ReasonUnclearPronouns)
	}
	if isBareExplanation(text, lower, rules) {
		reasons = append(reasons, ReasonBareExplanation)
	}
	if matchesAny(text, rules.contextDep) {
		reasons = append(reasons, ReasonNeedsContext)
	}
	if matchesAny(text, rules.podcastRef) {
		reasons = append(reasons, ReasonPodcastContext)
	}
	if matchesAny(firstSentence(text), rules.branding) {
		reasons = append(reasons, ReasonBrandingFirst)
	}
	return reasons
}

// hasClearTopic accepts questions, digits, a language pattern hit, or a
// substantive fragment of at least two meaningful words.
func hasClearTopic(opening string, rules ruleSet) bool {
	trimmed := strings.TrimSpace(opening)
	if len(trimmed) < 5 {
		return false
	}
	if strings.ContainsAny(opening, "?？") || digitsRE.MatchString(opening) {
		return true
	}
	if matchesAny(opening, rules.clearTopic) {
		return true
	}
	words := strings.Fields(strings.ToLower(opening))
	if len(trimmed) < 10 || len(words) < 3 {
		return false
	}
	meaningful := 0
	for _, w := range words {
		if _, filler := topicFiller[w]; !filler && len(w) > 2 {
			meaningful++
		}
	}
	return meaningful >= 2
}

// hasUnclearPronouns flags a demonstrative or bare pronoun in the first
// three words of the opening sentence.
func hasUnclearPronouns(opening string) bool {
	sentence := opening
	if i := strings.Index(opening, "."); i >= 0 {
		sentence = opening[:i]
	}
	words := strings.Fields(strings.ToLower(sentence))
	if len(words) > 10 {
		words = words[:10]
	}
	for _, p := range unclearPronouns {
		for i, w := range words {
			if w == p {
				if i < 3 {
					return true
				}
				break
			}
		}
	}
	return false
}

// isBareExplanation rejects only pure connector-led explanations: no
// question mark, no problem keyword, and a bare connector start.
func isBareExplanation(text, lower string, rules ruleSet) bool {
	if strings.ContainsAny(text, "?？") {
		return false
	}
	for _, kw := range rules.problemKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return bareConnectorRE.MatchString(strings.TrimSpace(lower))
}

func firstSentence(text string) string {
	if i := strings.Index(text, "."); i >= 0 {
		return text[:i]
	}
	if len(text) > 100 {
		return text[:100]
	}
	return text
}

func textOverlappingWindow(tr types.Transcript, start, end float64) string {
	if start >= end {
		return ""
	}
	var parts []string
	for _, seg := range tr.Segments {
		if seg.Start < end && seg.End > start {
			parts = append(parts, seg.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func matchesAny(s string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
