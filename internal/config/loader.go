package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if PIGSKIN_CONFIG is set
//  3. env (prefix PIGSKIN_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PIGSKIN_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: PIGSKIN_K_FACTOR, PIGSKIN_SHORT_WINDOW, ...
	// Map env keys like PIGSKIN_SHORT_WINDOW -> short_window (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("PIGSKIN_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "pigskin_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run with.
func (c *Config) validate() error {
	switch {
	case c.ShortWindow < 1 || c.LongWindow < 1:
		return fmt.Errorf("%w: windows must be positive", ErrInvalidConfig)
	case c.ShortWindow > c.LongWindow:
		return fmt.Errorf("%w: short_window must not exceed long_window", ErrInvalidConfig)
	case c.PriorSeasonDecay <= 0 || c.PriorSeasonDecay > 1:
		return fmt.Errorf("%w: prior_season_decay must be in (0, 1]", ErrInvalidConfig)
	case c.CarryoverFraction < 0 || c.CarryoverFraction > 1:
		return fmt.Errorf("%w: carryover_fraction must be in [0, 1]", ErrInvalidConfig)
	case c.KFactor <= 0:
		return fmt.Errorf("%w: k_factor must be positive", ErrInvalidConfig)
	case c.BaseRating <= 0:
		return fmt.Errorf("%w: base_rating must be positive", ErrInvalidConfig)
	case c.GapThreshold < 0 || c.GapThreshold > 1:
		return fmt.Errorf("%w: gap_threshold must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}
