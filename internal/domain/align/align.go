// Package align derives word-level timestamps from segment-level transcript
// entries, plus sentence and phrase boundaries over the aligned words.
package align

import (
	"regexp"
	"strings"

	"github.com/clipworks/momentcut/internal/types"
)

// Mode selects how segment time is distributed across words.
type Mode int

const (
	// Proportional weights each word by its syllable estimate, with a bonus
	// for punctuation pauses. More accurate, the default.
	Proportional Mode = iota
	// Even gives every word the same duration. Faster, less accurate.
	Even
)

var (
	trailingPunctRE = regexp.MustCompile(`[.!?;:,]$`)
	sentenceEndRE   = regexp.MustCompile(`[.!?:;]$`)
	nonWordRE       = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)
)

// Words splits transcript text on whitespace, keeping trailing punctuation
// attached to its word.
func Words(text string) []string {
	return strings.Fields(text)
}

// Transcript aligns every segment of tr and returns a copy with word lists
// filled in. Segments that are empty or have a non-positive duration are
// passed through untouched.
func Transcript(tr types.Transcript, mode Mode) types.Transcript {
	out := types.Transcript{Segments: make([]types.Segment, len(tr.Segments))}
	copy(out.Segments, tr.Segments)
	for i := range out.Segments {
		s := &out.Segments[i]
		text := strings.TrimSpace(s.Text)
		if text == "" || s.End <= s.Start {
			continue
		}
		s.Words = Segment(text, s.Start, s.End, mode)
	}
	return out
}

// Segment distributes [start,end) across the words of text.
func Segment(text string, start, end float64, mode Mode) []types.Word {
	words := Words(text)
	if len(words) == 0 || end <= start {
		return nil
	}
	duration := end - start

	if mode == Even {
		per := duration / float64(len(words))
		out := make([]types.Word, len(words))
		for i, w := range words {
			out[i] = types.Word{
				Word:       w,
				Start:      round3(start + float64(i)*per),
				End:        round3(start + float64(i+1)*per),
				Confidence: 1,
				Syllables:  Syllables(w),
				Punctuated: hasPunctuation(w),
			}
		}
		out[len(out)-1].End = round3(end)
		return out
	}

	// Proportional: weight = syllables, x1.2 when the word carries a pause.
	weights := make([]float64, len(words))
	var total float64
	for i, w := range words {
		weight := float64(Syllables(w))
		if hasPunctuation(w) {
			weight *= 1.2
		}
		weights[i] = weight
		total += weight
	}

	out := make([]types.Word, len(words))
	cur := start
	for i, w := range words {
		wordDur := weights[i] / total * duration
		out[i] = types.Word{
			Word:       w,
			Start:      round3(cur),
			End:        round3(cur + wordDur),
			Confidence: 1,
			Syllables:  Syllables(w),
			Punctuated: hasPunctuation(w),
		}
		cur += wordDur
	}
	// The last word absorbs rounding drift so the segment stays exact.
	out[len(out)-1].End = round3(end)
	return out
}

// Syllables estimates the syllable count of a single word by counting vowel
// group transitions, treating y as a vowel. A trailing silent e is dropped
// for words longer than two letters and a consonant-le ending adds one.
// Never returns less than 1.
func Syllables(word string) int {
	clean := strings.ToLower(nonWordRE.ReplaceAllString(word, ""))
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 1
	}

	count := 0
	prevVowel := false
	for _, r := range clean {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}

	if strings.HasSuffix(clean, "e") && len(clean) > 2 {
		count--
	}
	if strings.HasSuffix(clean, "le") && len(clean) > 2 && !isVowel(rune(clean[len(clean)-3])) {
		count++
	}
	if count < 1 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

func hasPunctuation(word string) bool { return trailingPunctRE.MatchString(word) }

func endsSentence(word string) bool { return sentenceEndRE.MatchString(word) }

func round3(f float64) float64 {
	if f < 0 {
		return float64(int64(f*1000-0.5)) / 1000
	}
	return float64(int64(f*1000+0.5)) / 1000
}
