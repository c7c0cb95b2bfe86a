package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/clipworks/momentcut/internal/domain/audio"
	"github.com/clipworks/momentcut/internal/domain/lexicon"
	"github.com/clipworks/momentcut/internal/ports"
	"github.com/clipworks/momentcut/internal/ports/adapters/ffmpeg"
	"github.com/clipworks/momentcut/internal/ports/adapters/local"
	"github.com/clipworks/momentcut/internal/ports/adapters/openrouter"
	"github.com/clipworks/momentcut/internal/ports/adapters/wavfile"
	"github.com/clipworks/momentcut/internal/ports/adapters/whisperjson"
	"github.com/clipworks/momentcut/internal/types"
	"github.com/clipworks/momentcut/internal/usecase"
)

type Config struct {
	// TranscriptPath is a whisper-style JSON transcript file.
	TranscriptPath string
	// AudioPath optionally enables energy-driven generation. A .wav file is
	// decoded in-process; anything else goes through ffmpeg.
	AudioPath string
	OutDir    string

	MinLengthSec  float64
	MaxLengthSec  float64
	TargetClips   int
	GenerationCap int
	QualityFloor  float64

	SilenceThresholdDb float64
	MinSilenceSec      float64
	EnergyWindowSize   int
	EnergyMultiplier   float64

	LexiconPath string

	// Scorer selects the scoring backend: "local" or "openrouter".
	Scorer                 string
	OpenRouterAPIKey       string
	OpenRouterModel        string
	OpenRouterBaseURL      string
	OpenRouterAllowedHosts []string

	FFmpegPath  string
	FFprobePath string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.TranscriptPath == "" {
		return errors.New("transcript path is empty")
	}
	if _, err := os.Stat(c.TranscriptPath); err != nil {
		return fmt.Errorf("stat transcript: %w", err)
	}
	if c.TargetClips <= 0 {
		return fmt.Errorf("target clips must be > 0")
	}
	if c.MinLengthSec <= 0 {
		return fmt.Errorf("min length must be > 0")
	}
	if c.MaxLengthSec <= c.MinLengthSec {
		return fmt.Errorf("max length must be > min length")
	}
	if c.Scorer == "openrouter" {
		if c.OpenRouterAPIKey == "" {
			return &ports.ConfigurationError{
				Field:  "OPENROUTER_API_KEY",
				Reason: "required for the openrouter scorer",
			}
		}
		return openrouter.ValidateBaseURL(
			c.OpenRouterBaseURL,
			c.OpenRouterAllowedHosts,
		)
	}
	return nil
}

func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log

	tr, err := whisperjson.New().Load(ctx, cfg.TranscriptPath)
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	log.Info().
		Int("segments", len(tr.Segments)).
		Float64("duration_sec", tr.Duration()).
		Msg("transcript loaded")

	var trace *types.EnergyTrace
	var mediaDuration time.Duration
	if cfg.AudioPath != "" {
		t, d, err := loadTrace(ctx, cfg)
		if err != nil {
			// Trace extraction failing only disables the energy path.
			log.Warn().Err(err).Msg("energy trace unavailable, using window scan")
		} else {
			trace = &t
			mediaDuration = d
		}
	}

	lx := lexicon.Default()
	if cfg.LexiconPath != "" {
		lx, err = lexicon.Load(cfg.LexiconPath)
		if err != nil {
			return fmt.Errorf("load lexicon: %w", err)
		}
	}

	filter, scorer := buildBackend(cfg)
	uc := usecase.New(usecase.Deps{
		Filter: filter,
		Scorer: scorer,
		Log:    log.With().Str("component", "pipeline").Logger(),
	})

	res, err := uc.Run(ctx, usecase.Input{
		Transcript: tr,
		Trace:      trace,
		Params: usecase.Params{
			MinLength:          cfg.MinLengthSec,
			MaxLength:          cfg.MaxLengthSec,
			TargetClips:        cfg.TargetClips,
			GenerationCap:      cfg.GenerationCap,
			QualityFloor:       cfg.QualityFloor,
			SilenceThresholdDb: cfg.SilenceThresholdDb,
			MinSilenceSec:      cfg.MinSilenceSec,
			TotalDurationSec:   mediaDuration.Seconds(),
			Spikes: audio.SpikeParams{
				WindowSize: cfg.EnergyWindowSize,
				Multiplier: cfg.EnergyMultiplier,
			},
			Lexicon: lx,
		},
	})
	if err != nil {
		return err
	}

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.TranscriptPath, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return err
	}

	manifest := buildManifest(cfg.TranscriptPath, res.Moments)
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	log.Info().
		Int("moments", len(manifest.Moments)).
		Str("path", manifestPath).
		Msg("manifest written")
	return nil
}

// loadTrace reads an energy trace from the audio input plus the media
// duration. WAV files are decoded in-process and report a zero duration,
// leaving the trace as the reference. Anything else goes through ffmpeg's
// astats filter, with a decode-to-WAV fallback when astats output is
// unusable; the probed duration (or its 3600s stand-in) comes along so the
// silence sweep sizes its ratio against the full media, not just the trace.
func loadTrace(ctx context.Context, cfg Config) (types.EnergyTrace, time.Duration, error) {
	log := cfg.Log
	if strings.EqualFold(filepath.Ext(cfg.AudioPath), ".wav") {
		t, err := wavfile.New(0).Trace(ctx, cfg.AudioPath)
		return t, 0, err
	}

	ff := ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath)
	dur, err := ff.ProbeDuration(ctx, cfg.AudioPath)
	if err != nil {
		log.Warn().Err(err).Dur("assumed", dur).Msg("could not probe media duration")
	} else {
		log.Debug().Dur("duration", dur).Msg("probed media duration")
	}

	trace, err := ff.Trace(ctx, cfg.AudioPath)
	if err == nil && len(trace.Levels) > 0 {
		return trace, dur, nil
	}

	// astats gave nothing; decode the audio and measure it ourselves.
	tmp := filepath.Join(os.TempDir(), fmt.Sprintf("momentcut-%d.wav", time.Now().UnixNano()))
	defer os.Remove(tmp)
	if exErr := ff.ExtractAudioMono16k(ctx, cfg.AudioPath, tmp); exErr != nil {
		if err != nil {
			return types.EnergyTrace{}, 0, err
		}
		return types.EnergyTrace{}, 0, exErr
	}
	t, err := wavfile.New(0).Trace(ctx, tmp)
	return t, dur, err
}

// buildBackend picks one backend for both filtering and scoring so a single
// hosted session judges the candidates it later ranks.
func buildBackend(cfg Config) (ports.MomentFilter, ports.MomentScorer) {
	if cfg.Scorer == "openrouter" {
		a := openrouter.New(
			cfg.OpenRouterAPIKey,
			cfg.OpenRouterModel,
			cfg.OpenRouterBaseURL,
			cfg.Log,
		)
		return a, a
	}
	return local.NewFilter(cfg.Log), local.NewScorer(cfg.Log)
}

func buildManifest(input string, moments []types.Candidate) types.Manifest {
	m := types.Manifest{Input: input, Moments: []types.ManifestMoment{}}
	for i, c := range moments {
		m.Moments = append(m.Moments, types.ManifestMoment{
			ID:           fmt.Sprintf("%03d", i+1),
			StartSec:     c.Start.Seconds(),
			EndSec:       c.End.Seconds(),
			DurationSec:  c.Duration().Seconds(),
			Score:        c.Score,
			HookType:     string(c.HookType),
			HookStrength: c.HookStrength,
			Keywords:     c.Keywords,
			Language:     string(c.Language),
			Source:       string(c.Source),
			Text:         c.Text,
		})
	}
	return m
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var _ ports.MomentFilter = (*local.Filter)(nil)
var _ ports.MomentScorer = (*local.Scorer)(nil)
var _ ports.MomentScorer = (*openrouter.Adapter)(nil)
var _ ports.MomentFilter = (*openrouter.Adapter)(nil)
var _ ports.TranscriptSource = (*whisperjson.Loader)(nil)
var _ ports.TraceSource = (*wavfile.Source)(nil)
var _ ports.TraceSource = (*ffmpeg.Adapter)(nil)
