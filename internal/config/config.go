// Package config defines pipeline configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Every rating and rolling-stats tunable is injectable here, never hardcoded
//   at the call site.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration for the prediction pipeline.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PostgresDSN is the connection string for the game/snapshot store.
	// Empty means the in-memory store is used.
	PostgresDSN string `koanf:"postgres_dsn"`

	// WorkerCount sets the number of snapshot workers.
	WorkerCount int `koanf:"worker_count"`

	// JobQueueSize bounds the in-memory snapshot job queue.
	JobQueueSize int `koanf:"job_queue_size"`

	// DedupeSize bounds the game-id idempotency cache used at ingestion.
	DedupeSize int `koanf:"dedupe_size"`

	// Rating engine tunables.
	BaseRating        float64 `koanf:"base_rating"`
	KFactor           float64 `koanf:"k_factor"`
	HomeAdvantage     float64 `koanf:"home_advantage"`
	CarryoverFraction float64 `koanf:"carryover_fraction"`
	MultiplierCap     float64 `koanf:"multiplier_cap"`
	UpsetBonus        float64 `koanf:"upset_bonus"`

	// Rolling-stats tunables.
	ShortWindow      int     `koanf:"short_window"`
	LongWindow       int     `koanf:"long_window"`
	PriorSeasonDecay float64 `koanf:"prior_season_decay"`
	MinGames         int     `koanf:"min_games"`
	GapThreshold     float64 `koanf:"gap_threshold"`
}

// New creates a Config populated with pipeline defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		PostgresDSN:  "",
		WorkerCount:  runtime.NumCPU() * 2,
		JobQueueSize: 10_000,
		DedupeSize:   100_000,

		BaseRating:        1500,
		KFactor:           32,
		HomeAdvantage:     65,
		CarryoverFraction: 0.75,
		MultiplierCap:     3.0,
		UpsetBonus:        1.2,

		ShortWindow:      3,
		LongWindow:       5,
		PriorSeasonDecay: 0.7,
		MinGames:         2,
		GapThreshold:     0.5,
	}
}
