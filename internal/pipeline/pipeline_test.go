package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/types"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "/tmp/My Cool.Talk.json", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "my-cool-talk-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("my-cool-talk-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Talk  ": "my-cool-talk",
		"___":              "",
		"abc123":           "abc123",
		"Name (v2)!":       "name-v2",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func validConfig(t *testing.T) Config {
	t.Helper()
	tr := filepath.Join(t.TempDir(), "tr.json")
	if err := os.WriteFile(tr, []byte(`{"segments":[]}`), 0o644); err != nil {
		t.Fatalf("write transcript fixture: %v", err)
	}
	return Config{
		TranscriptPath: tr,
		MinLengthSec:   30,
		MaxLengthSec:   60,
		TargetClips:    10,
		Scorer:         "local",
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	t.Run("missing transcript", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.TranscriptPath = filepath.Join(t.TempDir(), "absent.json")
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "stat transcript") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("min above max", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.MinLengthSec = 90
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "max length") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("openrouter needs key", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Scorer = "openrouter"
		err := cfg.Validate()
		var cerr *ports.ConfigurationError
		if !errors.As(err, &cerr) || cerr.Field != "OPENROUTER_API_KEY" {
			t.Fatalf("err = %v, want ConfigurationError for api key", err)
		}
	})

	t.Run("openrouter validates base url", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Scorer = "openrouter"
		cfg.OpenRouterAPIKey = "k"
		cfg.OpenRouterBaseURL = "http://openrouter.ai"
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "https is required") {
			t.Fatalf("err = %v", err)
		}
	})
}

func TestBuildManifest(t *testing.T) {
	moments := []types.Candidate{
		{
			Start:        35 * time.Second,
			End:          80 * time.Second,
			Text:         "Why does this work at all?",
			Language:     types.LangEnglish,
			Source:       types.SourceWindowing,
			Score:        8.25,
			HookType:     types.HookQuestion,
			HookStrength: 10,
			Keywords:     []string{"secret"},
		},
		{
			Start:    100 * time.Second,
			End:      140 * time.Second,
			Text:     "Another one",
			Language: types.LangEnglish,
			Source:   types.SourceEnergy,
			Score:    7.5,
		},
	}

	m := buildManifest("in.json", moments)
	if m.Input != "in.json" {
		t.Fatalf("input = %q", m.Input)
	}
	if len(m.Moments) != 2 {
		t.Fatalf("moments = %d, want 2", len(m.Moments))
	}
	first := m.Moments[0]
	if first.ID != "001" || m.Moments[1].ID != "002" {
		t.Fatalf("ids = %q/%q", first.ID, m.Moments[1].ID)
	}
	if first.StartSec != 35 || first.EndSec != 80 || first.DurationSec != 45 {
		t.Fatalf("bounds = %v/%v/%v", first.StartSec, first.EndSec, first.DurationSec)
	}
	if first.HookType != "question" || first.Source != "windowing" {
		t.Fatalf("hook/source = %q/%q", first.HookType, first.Source)
	}
	if m.Moments[1].Source != "energy" {
		t.Fatalf("second source = %q", m.Moments[1].Source)
	}
}

func TestBuildManifest_Empty(t *testing.T) {
	m := buildManifest("in.json", nil)
	if m.Moments == nil || len(m.Moments) != 0 {
		t.Fatalf("empty manifest should carry an empty, non-nil slice: %#v", m.Moments)
	}
}
