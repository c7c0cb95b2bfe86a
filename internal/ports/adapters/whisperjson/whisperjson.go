// Package whisperjson loads timed transcripts from JSON files. It accepts
// the engine's native segment layout and the whisper.cpp -oj output layout,
// sniffed from the document shape.
package whisperjson

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/samber/lo"

	"github.com/clipworks/momentcut/internal/types"
)

type Loader struct{}

func New() *Loader { return &Loader{} }

// whisper.cpp writes offsets in integer milliseconds.
type whisperCppSegment struct {
	Offsets struct {
		From int64 `json:"from"`
		To   int64 `json:"to"`
	} `json:"offsets"`
	Text string `json:"text"`
}

type whisperCppDoc struct {
	Transcription []whisperCppSegment `json:"transcription"`
}

func (l *Loader) Load(ctx context.Context, path string) (types.Transcript, error) {
	if err := ctx.Err(); err != nil {
		return types.Transcript{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, err
	}
	return Parse(b)
}

// Parse decodes either supported transcript shape and normalizes the text.
func Parse(b []byte) (types.Transcript, error) {
	var native types.Transcript
	if err := json.Unmarshal(b, &native); err == nil && len(native.Segments) > 0 {
		return normalize(native), nil
	}

	var wcpp whisperCppDoc
	if err := json.Unmarshal(b, &wcpp); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	if len(wcpp.Transcription) == 0 {
		return types.Transcript{}, fmt.Errorf("parse transcript: no segments in either supported layout")
	}

	segs := lo.Map(wcpp.Transcription, func(s whisperCppSegment, _ int) types.Segment {
		return types.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  s.Text,
		}
	})
	return normalize(types.Transcript{Segments: segs}), nil
}

func normalize(tr types.Transcript) types.Transcript {
	out := tr
	out.Segments = make([]types.Segment, 0, len(tr.Segments))
	for _, seg := range tr.Segments {
		seg.Text = strings.TrimSpace(seg.Text)
		if seg.Text == "" && len(seg.Words) == 0 {
			continue
		}
		for i := range seg.Words {
			seg.Words[i].Word = strings.TrimSpace(seg.Words[i].Word)
		}
		out.Segments = append(out.Segments, seg)
	}
	return out
}
