// Package cmd contains the CLI commands for the prediction pipeline.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridironlab/pigskin/pkg/logger"
)

var (
	cfgFile   string
	logLevel  string
	gamesFile string
)

var rootCmd = &cobra.Command{
	Use:   "pigskin",
	Short: "College football prediction pipeline",
	Long: `Pigskin turns historical college football results into model-ready
features: an iterative rating fold over every game, rolling windowed
team snapshots, and per-matchup feature vectors.`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if err := logger.Init(); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		if cfgFile != "" {
			os.Setenv("PIGSKIN_CONFIG", cfgFile)
		}
		return logger.SetLevelString(logLevel)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&gamesFile, "games", "", "JSON file of game results to ingest")
}
