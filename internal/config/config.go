package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/imdario/mergo"

	"github.com/lottolab/tombola-analytics/internal/engine"
)

var validate = validator.New()

type Config struct {
	Environment string                `yaml:"environment" validate:"required,oneof=production development"`
	Defaults    GameDefaults          `yaml:"defaults"`
	Games       map[string]GameConfig `yaml:"games"       validate:"required,min=1,dive"`
	NATS        NATSConfig            `yaml:"nats"`
	Cache       CacheConfig           `yaml:"cache"`
	Output      OutputConfig          `yaml:"output"`
}

// GameDefaults is merged into every game that leaves a field unset.
type GameDefaults struct {
	DrumSize   int         `yaml:"drum_size"`
	Thresholds []Threshold `yaml:"thresholds"`
}

type GameConfig struct {
	CardSize   int         `yaml:"card_size"  validate:"min=0"`
	DrumSize   int         `yaml:"drum_size"`
	Thresholds []Threshold `yaml:"thresholds" validate:"dive"`
}

// Threshold asks the report for the first draw where reaching at least Class
// hits has the given probability.
type Threshold struct {
	Class       int     `yaml:"class"       validate:"min=0"`
	Probability float64 `yaml:"probability" validate:"gt=0,lte=1"`
}

type NATSConfig struct {
	Enabled       bool          `yaml:"enabled"`
	URL           string        `yaml:"url"`
	SubjectPrefix string        `yaml:"subject_prefix"`
	ConnectWait   time.Duration `yaml:"connect_wait"`
}

type CacheConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// Params converts a game entry to engine parameters.
func (g GameConfig) Params() engine.GameParams {
	return engine.GameParams{CardSize: g.CardSize, DrumSize: g.DrumSize}
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}

	// merge defaults
	for name, game := range cfg.Games {
		fallback := GameConfig{
			DrumSize:   cfg.Defaults.DrumSize,
			Thresholds: cfg.Defaults.Thresholds,
		}
		if err := mergo.Merge(&game, fallback); err != nil {
			return cfg, err
		}
		cfg.Games[name] = game
	}

	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "out"
	}
	if cfg.Cache.Enabled && cfg.Cache.Directory == "" {
		cfg.Cache.Directory = "data/cache"
	}
	if cfg.NATS.ConnectWait == 0 {
		cfg.NATS.ConnectWait = 5 * time.Second
	}

	if err := validate.Struct(cfg); err != nil {
		return cfg, err
	}

	// game parameters get the same fail-fast treatment as the engine
	for name, game := range cfg.Games {
		if err := game.Params().Validate(); err != nil {
			return cfg, fmt.Errorf("game %q: %w", name, err)
		}
		for _, th := range game.Thresholds {
			if th.Class > game.CardSize {
				return cfg, fmt.Errorf("game %q: threshold class %d exceeds card size %d",
					name, th.Class, game.CardSize)
			}
		}
	}
	if cfg.NATS.Enabled && cfg.NATS.URL == "" {
		return cfg, fmt.Errorf("nats enabled but url is empty")
	}
	return cfg, nil
}
