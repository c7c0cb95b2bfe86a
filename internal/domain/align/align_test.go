package align

import (
	"math"
	"testing"

	"github.com/clipworks/momentcut/internal/types"
)

func TestSyllables(t *testing.T) {
	tests := map[string]int{
		"a":         1,
		"hello":     2,
		"world":     1,
		"table":     2,
		"rhythm":    1,
		"beautiful": 3,
		"see":       1,
		"strength":  1,
		"...":       1,
	}
	for word, want := range tests {
		t.Run(word, func(t *testing.T) {
			if got := Syllables(word); got != want {
				t.Fatalf("Syllables(%q) = %d, want %d", word, got, want)
			}
		})
	}
}

func TestSegment_ProportionalSumsToDuration(t *testing.T) {
	words := Segment("What if I told you this changes everything?", 10, 16, Proportional)
	if len(words) != 8 {
		t.Fatalf("expected 8 words, got %d", len(words))
	}

	var sum float64
	for _, w := range words {
		if w.End <= w.Start {
			t.Fatalf("word %q has non-positive span", w.Word)
		}
		sum += w.Duration()
	}
	if math.Abs(sum-6.0) > 0.01 {
		t.Fatalf("word durations sum to %v, want segment duration 6.0", sum)
	}
	if last := words[len(words)-1]; last.End != 16 {
		t.Fatalf("last word end = %v, want exact segment end 16", last.End)
	}
	if !words[len(words)-1].Punctuated {
		t.Fatalf("expected trailing punctuation to be kept on the last word")
	}
}

func TestSegment_EvenMode(t *testing.T) {
	words := Segment("one two three four", 0, 4, Even)
	if len(words) != 4 {
		t.Fatalf("expected 4 words, got %d", len(words))
	}
	for i, w := range words {
		if math.Abs(w.Duration()-1.0) > 0.001 {
			t.Fatalf("word %d duration = %v, want 1.0", i, w.Duration())
		}
	}
	if words[3].End != 4 {
		t.Fatalf("last word end = %v, want 4", words[3].End)
	}
}

func TestTranscript_SkipsEmptySegments(t *testing.T) {
	tr := types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 2, Text: "hello there."},
		{Start: 2, End: 2, Text: "zero length"},
		{Start: 2, End: 4, Text: "   "},
	}}
	aligned := Transcript(tr, Proportional)
	if len(aligned.Segments[0].Words) != 2 {
		t.Fatalf("expected first segment aligned, got %v", aligned.Segments[0].Words)
	}
	if aligned.Segments[1].Words != nil || aligned.Segments[2].Words != nil {
		t.Fatalf("degenerate segments must pass through without words")
	}
	if tr.Segments[0].Words != nil {
		t.Fatalf("input transcript was mutated")
	}
}

func TestSentences(t *testing.T) {
	words := Segment("Is it done? Not yet. almost there", 0, 9, Proportional)
	got := Sentences(words)
	if len(got) != 3 {
		t.Fatalf("expected 3 sentences (including trailing partial), got %d: %v", len(got), got)
	}
	if got[0].EndIdx != 3 {
		t.Fatalf("first sentence end idx = %d, want 3", got[0].EndIdx)
	}
	if got[2].EndIdx != len(words) {
		t.Fatalf("trailing partial must reach the last word")
	}
	if got[0].StartTime != words[0].Start || got[2].EndTime != words[len(words)-1].End {
		t.Fatalf("boundary times do not bracket the words")
	}
}

func TestPhrases_PunctuationLookback(t *testing.T) {
	// Ten words, one per second; punctuation after the third word.
	text := "one two three, four five six seven eight nine ten"
	words := Segment(text, 0, 10, Even)

	phrases := Phrases(words, 4.5, true)
	if len(phrases) < 2 {
		t.Fatalf("expected a split, got %v", phrases)
	}
	// The first cut should land just after the comma word within the 3-word
	// look-back window.
	if words[phrases[0].EndIdx-1].Word != "three," {
		t.Fatalf("first phrase ends on %q, want the punctuation word", words[phrases[0].EndIdx-1].Word)
	}

	noPref := Phrases(words, 4.5, false)
	if noPref[0].EndIdx == phrases[0].EndIdx {
		t.Fatalf("expected punctuation preference to move the cut")
	}
	// Every word is covered exactly once.
	for _, ps := range [][]Boundary{phrases, noPref} {
		covered := 0
		for _, p := range ps {
			covered += p.EndIdx - p.StartIdx
		}
		if covered != len(words) {
			t.Fatalf("phrases cover %d of %d words", covered, len(words))
		}
	}
}

func TestSnapToBoundary(t *testing.T) {
	words := []types.Word{
		{Word: "hello", Start: 0, End: 0.5},
		{Word: "world", Start: 0.5, End: 1.0},
	}
	tests := []struct {
		name string
		ts   float64
		dir  SnapDirection
		max  float64
		want float64
	}{
		{"nearest start", 0.3, SnapStart, 0.5, 0.5},
		{"nearest end", 0.6, SnapEnd, 0.5, 0.5},
		{"either", 0.45, SnapNearest, 0.5, 0.5},
		{"too far", 3.0, SnapNearest, 0.5, 3.0},
		{"no words", 0.2, SnapNearest, 0.5, 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := words
			if tt.name == "no words" {
				ws = nil
			}
			if got := SnapToBoundary(tt.ts, ws, tt.dir, tt.max); got != tt.want {
				t.Fatalf("SnapToBoundary(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestWordsInRangeAndText(t *testing.T) {
	words := Segment("alpha beta gamma delta", 0, 4, Even)

	partial := WordsInRange(words, 0.5, 2.5, false)
	if len(partial) != 3 {
		t.Fatalf("overlap lookup: got %d words, want 3", len(partial))
	}
	full := WordsInRange(words, 0.5, 2.5, true)
	if len(full) != 1 {
		t.Fatalf("contained lookup: got %d words, want 1", len(full))
	}
	if got := TextAtTime(words, 1.5, 3.5); got != "beta gamma delta" {
		t.Fatalf("TextAtTime = %q", got)
	}
	if w, ok := WordAt(words, 2.5); !ok || w.Word != "gamma" {
		t.Fatalf("WordAt(2.5) = %v %v", w, ok)
	}
	if _, ok := WordAt(words, 99); ok {
		t.Fatalf("WordAt past the end must miss")
	}
}
