package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/clipworks/momentcut/internal/config"
	"github.com/clipworks/momentcut/internal/logging"
	"github.com/clipworks/momentcut/internal/pipeline"
)

func run(cmd *cobra.Command, transcript string) error {
	outDir, _ := cmd.Flags().GetString("out")
	clips, _ := cmd.Flags().GetInt("clips")
	audio, _ := cmd.Flags().GetString("audio")
	scorer, _ := cmd.Flags().GetString("scorer")
	verbose, _ := cmd.Flags().GetBool("verbose")
	minSec, _ := cmd.Flags().GetFloat64("min")
	maxSec, _ := cmd.Flags().GetFloat64("max")
	floor, _ := cmd.Flags().GetFloat64("floor")
	lexiconPath, _ := cmd.Flags().GetString("lexicon")

	logLevel := ""
	if verbose {
		logLevel = "debug"
	}

	cfg, err := config.Load(config.Overrides{
		MinLengthSec: minSec,
		MaxLengthSec: maxSec,
		TargetClips:  clips,
		QualityFloor: floor,
		LexiconPath:  lexiconPath,
		Scorer:       scorer,
		LogLevel:     logLevel,
	})
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logging.Init(cfg.LogLevel)

	absTranscript, err := filepath.Abs(transcript)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	pcfg := pipeline.Config{
		TranscriptPath: absTranscript,
		AudioPath:      audio,
		OutDir:         outDir,

		MinLengthSec:  cfg.MinLengthSec,
		MaxLengthSec:  cfg.MaxLengthSec,
		TargetClips:   cfg.TargetClips,
		GenerationCap: cfg.GenerationCap,
		QualityFloor:  cfg.QualityFloor,

		SilenceThresholdDb: cfg.SilenceThresholdDb,
		MinSilenceSec:      cfg.MinSilenceSec,
		EnergyWindowSize:   cfg.EnergyWindowSize,
		EnergyMultiplier:   cfg.EnergyMultiplier,

		LexiconPath: cfg.LexiconPath,

		Scorer:                 cfg.Scorer,
		OpenRouterAPIKey:       cfg.OpenRouterAPIKey,
		OpenRouterModel:        cfg.OpenRouterModel,
		OpenRouterBaseURL:      cfg.OpenRouterBaseURL,
		OpenRouterAllowedHosts: splitHosts(cfg.AllowedScoreHosts),

		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",

		Log: log.Logger,
	}

	if err := pcfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, pcfg)
}

func splitHosts(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
