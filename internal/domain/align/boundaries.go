package align

import (
	"math"
	"strings"

	"github.com/clipworks/momentcut/internal/types"
)

// Boundary is a half-open word index range [StartIdx,EndIdx) with its time
// span, used for both sentences and caption-sized phrases.
type Boundary struct {
	StartIdx  int
	EndIdx    int
	StartTime float64
	EndTime   float64
}

// Sentences splits words wherever one ends in sentence punctuation
// (. ! ? : ;). A trailing run without terminal punctuation is emitted as a
// final partial sentence.
func Sentences(words []types.Word) []Boundary {
	var out []Boundary
	start := 0
	for i, w := range words {
		if endsSentence(w.Word) {
			out = append(out, Boundary{
				StartIdx:  start,
				EndIdx:    i + 1,
				StartTime: words[start].Start,
				EndTime:   w.End,
			})
			start = i + 1
		}
	}
	if start < len(words) {
		out = append(out, Boundary{
			StartIdx:  start,
			EndIdx:    len(words),
			StartTime: words[start].Start,
			EndTime:   words[len(words)-1].End,
		})
	}
	return out
}

// Phrases accumulates words until the span exceeds maxDuration seconds. When
// preferPunctuation is set, the cut looks back up to three words for a
// punctuation break before splitting at the current word.
func Phrases(words []types.Word, maxDuration float64, preferPunctuation bool) []Boundary {
	if len(words) == 0 {
		return nil
	}

	var out []Boundary
	start := 0
	for i, w := range words {
		if w.End-words[start].Start <= maxDuration {
			continue
		}
		cut := i
		if preferPunctuation && i > start+1 {
			low := i - 3
			if low < start+1 {
				low = start + 1
			}
			for j := i - 1; j >= low; j-- {
				if hasPunctuation(words[j].Word) {
					cut = j + 1
					break
				}
			}
		}
		out = append(out, Boundary{
			StartIdx:  start,
			EndIdx:    cut,
			StartTime: words[start].Start,
			EndTime:   words[cut-1].End,
		})
		start = cut
	}
	if start < len(words) {
		out = append(out, Boundary{
			StartIdx:  start,
			EndIdx:    len(words),
			StartTime: words[start].Start,
			EndTime:   words[len(words)-1].End,
		})
	}
	return out
}

// SnapDirection picks which word boundaries SnapToBoundary considers.
type SnapDirection int

const (
	SnapNearest SnapDirection = iota
	SnapStart
	SnapEnd
)

// SnapToBoundary returns the nearest word start/end (per direction) within
// maxDistance seconds of timestamp, or the timestamp unchanged when no
// boundary is close enough.
func SnapToBoundary(timestamp float64, words []types.Word, dir SnapDirection, maxDistance float64) float64 {
	if len(words) == 0 {
		return timestamp
	}
	best := math.Inf(1)
	snapped := timestamp
	consider := func(b float64) {
		if d := math.Abs(b - timestamp); d < best {
			best = d
			snapped = b
		}
	}
	for _, w := range words {
		switch dir {
		case SnapStart:
			consider(w.Start)
		case SnapEnd:
			consider(w.End)
		default:
			consider(w.Start)
			consider(w.End)
		}
	}
	if best <= maxDistance {
		return snapped
	}
	return timestamp
}

// WordsInRange returns the words overlapping [start,end); with fullOverlap
// only words entirely inside the range are kept.
func WordsInRange(words []types.Word, start, end float64, fullOverlap bool) []types.Word {
	var out []types.Word
	for _, w := range words {
		if fullOverlap {
			if w.Start >= start && w.End <= end {
				out = append(out, w)
			}
		} else if w.Start < end && w.End > start {
			out = append(out, w)
		}
	}
	return out
}

// TextAtTime joins the words spoken between start and end (overlap based).
func TextAtTime(words []types.Word, start, end float64) string {
	in := WordsInRange(words, start, end, false)
	parts := make([]string, len(in))
	for i, w := range in {
		parts[i] = w.Word
	}
	return strings.Join(parts, " ")
}

// WordAt returns the word being spoken at timestamp, if any.
func WordAt(words []types.Word, timestamp float64) (types.Word, bool) {
	for _, w := range words {
		if w.Start <= timestamp && timestamp <= w.End {
			return w, true
		}
	}
	return types.Word{}, false
}
