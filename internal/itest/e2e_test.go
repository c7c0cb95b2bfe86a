//go:build integration

package itest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipworks/momentcut/internal/pipeline"
	"github.com/clipworks/momentcut/internal/types"
)

func fixtureTranscript() types.Transcript {
	texts := []string{
		"Our crawler finally indexed every page without stalling",
		"Latency dropped by forty percent after the rewrite",
		"Nobody expected the cache layer to matter most",
		"We measured allocations and removed the worst offenders",
		"The profiler pointed straight at the slow decoder",
		"Batching writes cut database load in half overnight",
		"A single mutex was serializing the whole pipeline",
		"Switching to streaming parsing freed two gigabytes instantly",
		"The dashboard now refreshes in under a second",
		"Users noticed the difference on the very next morning",
	}
	segs := make([]types.Segment, len(texts))
	for i, txt := range texts {
		segs[i] = types.Segment{Start: float64(i * 12), End: float64(i*12 + 12), Text: txt}
	}
	return types.Transcript{Segments: segs}
}

func writeTranscriptJSON(t *testing.T, dir string) string {
	t.Helper()
	b, err := json.Marshal(fixtureTranscript())
	if err != nil {
		t.Fatalf("marshal transcript: %v", err)
	}
	path := filepath.Join(dir, "transcript.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	return path
}

func TestE2E_LocalScorer(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cfg := pipeline.Config{
		TranscriptPath: writeTranscriptJSON(t, tmp),
		OutDir:         outDir,
		MinLengthSec:   30,
		MaxLengthSec:   60,
		TargetClips:    3,
		GenerationCap:  50,
		QualityFloor:   1.0,
		Scorer:         "local",
		Log:            zerolog.Nop(),
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := pipeline.Run(ctx, cfg); err != nil {
		t.Fatalf("pipeline failed: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(outDir, "*", "manifest.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("manifest glob = %v, err %v", matches, err)
	}

	b, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var m types.Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("parse manifest: %v", err)
	}

	if len(m.Moments) == 0 || len(m.Moments) > 3 {
		t.Fatalf("manifest has %d moments, want 1-3", len(m.Moments))
	}
	for i, mm := range m.Moments {
		if mm.ID != fmt.Sprintf("%03d", i+1) {
			t.Fatalf("moment %d id = %q", i, mm.ID)
		}
		if mm.DurationSec < 30 || mm.DurationSec > 60 {
			t.Fatalf("moment %d duration = %v, want [30,60]", i, mm.DurationSec)
		}
		if i > 0 && mm.Score > m.Moments[i-1].Score {
			t.Fatalf("moments not sorted by score at %d", i)
		}
		if mm.Source != string(types.SourceWindowing) {
			t.Fatalf("moment %d source = %q, want windowing", i, mm.Source)
		}
	}
	for i := 1; i < len(m.Moments); i++ {
		if m.Moments[i].StartSec < m.Moments[i-1].EndSec && m.Moments[i-1].StartSec < m.Moments[i].EndSec {
			t.Fatalf("moments %d and %d overlap in time", i-1, i)
		}
	}
}

func TestE2E_WhisperCppLayout(t *testing.T) {
	tmp := t.TempDir()
	outDir := filepath.Join(tmp, "out")

	// Same fixture expressed in the whisper.cpp millisecond layout.
	type seg struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	}
	doc := struct {
		Transcription []seg `json:"transcription"`
	}{}
	for _, s := range fixtureTranscript().Segments {
		var w seg
		w.Offsets.From = int64(s.Start * 1000)
		w.Offsets.To = int64(s.End * 1000)
		w.Text = s.Text
		doc.Transcription = append(doc.Transcription, w)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	path := filepath.Join(tmp, "whisper.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	err = pipeline.Run(ctx, pipeline.Config{
		TranscriptPath: path,
		OutDir:         outDir,
		MinLengthSec:   30,
		MaxLengthSec:   60,
		TargetClips:    2,
		GenerationCap:  50,
		QualityFloor:   1.0,
		Scorer:         "local",
		Log:            zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("pipeline failed on whisper.cpp layout: %v", err)
	}

	matches, _ := filepath.Glob(filepath.Join(outDir, "*", "manifest.json"))
	if len(matches) != 1 {
		t.Fatalf("expected one manifest, got %v", matches)
	}
}
