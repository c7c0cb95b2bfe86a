package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/clipworks/momentcut/internal/ports"
)

type Config struct {
	MinLengthSec  float64 `env:"MOMENT_MIN_LENGTH_SEC" envDefault:"30"`
	MaxLengthSec  float64 `env:"MOMENT_MAX_LENGTH_SEC" envDefault:"60"`
	TargetClips   int     `env:"MOMENT_TARGET_CLIPS" envDefault:"10"`
	GenerationCap int     `env:"MOMENT_GENERATION_CAP" envDefault:"50"`
	QualityFloor  float64 `env:"MOMENT_QUALITY_FLOOR" envDefault:"6.5"`

	SilenceThresholdDb float64 `env:"SILENCE_THRESHOLD_DB" envDefault:"-40"`
	MinSilenceSec      float64 `env:"MIN_SILENCE_SEC" envDefault:"0.5"`
	EnergyMultiplier   float64 `env:"ENERGY_MULTIPLIER" envDefault:"1.5"`
	EnergyWindowSize   int     `env:"ENERGY_WINDOW_SIZE" envDefault:"10"`

	LexiconPath string `env:"LEXICON_PATH"`

	// Scorer selects the scoring backend: "local" or "openrouter".
	Scorer           string `env:"MOMENT_SCORER" envDefault:"local"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel  string `env:"OPENROUTER_MODEL" envDefault:"anthropic/claude-3.5-sonnet"`
	// Host only; the adapter appends the chat completions path itself.
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai"`
	AllowedScoreHosts string `env:"OPENROUTER_ALLOWED_HOSTS"`
	LogLevel          string `env:"LOG_LEVEL" envDefault:"info"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile      string
	MinLengthSec float64
	MaxLengthSec float64
	TargetClips  int
	QualityFloor float64
	LexiconPath  string
	Scorer       string
	LogLevel     string
}

// Load reads configuration from .env file, environment variables, and CLI
// overrides. Priority: CLI flags > environment variables > .env file >
// struct defaults.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		_ = godotenv.Load(envFile)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.MinLengthSec > 0 {
		cfg.MinLengthSec = overrides.MinLengthSec
	}
	if overrides.MaxLengthSec > 0 {
		cfg.MaxLengthSec = overrides.MaxLengthSec
	}
	if overrides.TargetClips > 0 {
		cfg.TargetClips = overrides.TargetClips
	}
	if overrides.QualityFloor > 0 {
		cfg.QualityFloor = overrides.QualityFloor
	}
	if overrides.LexiconPath != "" {
		cfg.LexiconPath = overrides.LexiconPath
	}
	if overrides.Scorer != "" {
		cfg.Scorer = overrides.Scorer
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinLengthSec <= 0 || c.MaxLengthSec <= c.MinLengthSec {
		return &ports.ConfigurationError{
			Field:  "MOMENT_MIN_LENGTH_SEC/MOMENT_MAX_LENGTH_SEC",
			Reason: "need 0 < min < max",
		}
	}
	switch c.Scorer {
	case "local":
	case "openrouter":
		if c.OpenRouterAPIKey == "" {
			return &ports.ConfigurationError{
				Field:  "OPENROUTER_API_KEY",
				Reason: "required when MOMENT_SCORER=openrouter",
			}
		}
	default:
		return &ports.ConfigurationError{
			Field:  "MOMENT_SCORER",
			Reason: "must be local or openrouter",
		}
	}
	return nil
}
