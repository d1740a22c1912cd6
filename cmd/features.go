package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridironlab/pigskin/internal/domain/features"
)

var (
	featuresHome   int
	featuresAway   int
	featuresSeason int
	featuresWeek   int
)

var featuresCmd = &cobra.Command{
	Use:   "features",
	Short: "Assemble the feature vector for one matchup",
	Long: `Runs the full pipeline for the requested week and prints the
model-ready feature row for a home/away matchup.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		if err := svc.Recompute(ctx, featuresSeason, featuresWeek); err != nil {
			return err
		}

		v, err := svc.AssembleFeatures(ctx, featuresHome, featuresAway, featuresSeason, featuresWeek)
		if err != nil {
			return err
		}

		fmt.Printf("team %d vs team %d, %d week %d (rating diff %+.1f)\n",
			v.HomeTeamID, v.AwayTeamID, v.Season, v.Week, v.RatingDiff())
		cols := features.Columns()
		row := v.Row()
		for i, col := range cols {
			fmt.Printf("%-28s %12.4f\n", col, row[i])
		}
		return nil
	},
}

func init() {
	featuresCmd.Flags().IntVar(&featuresHome, "home", 0, "home team id")
	featuresCmd.Flags().IntVar(&featuresAway, "away", 0, "away team id")
	featuresCmd.Flags().IntVar(&featuresSeason, "season", 0, "season of the matchup")
	featuresCmd.Flags().IntVar(&featuresWeek, "week", 0, "week of the matchup")
	_ = featuresCmd.MarkFlagRequired("home")
	_ = featuresCmd.MarkFlagRequired("away")
	_ = featuresCmd.MarkFlagRequired("season")
	_ = featuresCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(featuresCmd)
}
