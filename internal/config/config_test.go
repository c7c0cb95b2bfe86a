package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/ports/adapters/openrouter"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinLengthSec != 30 || cfg.MaxLengthSec != 60 {
		t.Fatalf("lengths = %v/%v, want 30/60", cfg.MinLengthSec, cfg.MaxLengthSec)
	}
	if cfg.TargetClips != 10 || cfg.GenerationCap != 50 {
		t.Fatalf("clips/cap = %d/%d, want 10/50", cfg.TargetClips, cfg.GenerationCap)
	}
	if cfg.QualityFloor != 6.5 {
		t.Fatalf("floor = %v, want 6.5", cfg.QualityFloor)
	}
	if cfg.Scorer != "local" {
		t.Fatalf("scorer = %q, want local", cfg.Scorer)
	}
	if cfg.SilenceThresholdDb != -40 || cfg.EnergyMultiplier != 1.5 {
		t.Fatalf("silence/multiplier = %v/%v", cfg.SilenceThresholdDb, cfg.EnergyMultiplier)
	}
	// Host only: the hosted backend appends its own API path.
	if cfg.OpenRouterBaseURL != "https://openrouter.ai" {
		t.Fatalf("base URL = %q, want https://openrouter.ai", cfg.OpenRouterBaseURL)
	}
	if err := openrouter.ValidateBaseURL(cfg.OpenRouterBaseURL, nil); err != nil {
		t.Fatalf("default base URL rejected: %v", err)
	}
}

func TestLoad_EnvThenOverrides(t *testing.T) {
	t.Setenv("MOMENT_TARGET_CLIPS", "5")
	t.Setenv("MOMENT_QUALITY_FLOOR", "7.0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(Overrides{
		EnvFile:      filepath.Join(t.TempDir(), "absent.env"),
		QualityFloor: 8.0,
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TargetClips != 5 {
		t.Fatalf("env target clips = %d, want 5", cfg.TargetClips)
	}
	if cfg.QualityFloor != 8.0 {
		t.Fatalf("override floor = %v, want 8.0", cfg.QualityFloor)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	if err := os.WriteFile(envFile, []byte("MOMENT_MIN_LENGTH_SEC=20\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(Overrides{EnvFile: envFile})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.MinLengthSec != 20 {
		t.Fatalf("min length = %v, want 20 from env file", cfg.MinLengthSec)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := []struct {
		name  string
		env   map[string]string
		field string
	}{
		{
			name:  "min above max",
			env:   map[string]string{"MOMENT_MIN_LENGTH_SEC": "90"},
			field: "MOMENT_MIN_LENGTH_SEC/MOMENT_MAX_LENGTH_SEC",
		},
		{
			name:  "openrouter without key",
			env:   map[string]string{"MOMENT_SCORER": "openrouter"},
			field: "OPENROUTER_API_KEY",
		},
		{
			name:  "unknown scorer",
			env:   map[string]string{"MOMENT_SCORER": "remote"},
			field: "MOMENT_SCORER",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load(Overrides{EnvFile: filepath.Join(t.TempDir(), "absent.env")})
			var cerr *ports.ConfigurationError
			if !errors.As(err, &cerr) {
				t.Fatalf("err = %v, want ConfigurationError", err)
			}
			if cerr.Field != tc.field {
				t.Fatalf("field = %q, want %q", cerr.Field, tc.field)
			}
		})
	}
}
