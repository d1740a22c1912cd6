package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ratingsTop int

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "Fold every stored game into team ratings",
	Long: `Replays the full game history in chronological order, updating each
team's rating game by game, and prints the resulting leaderboard.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		report, err := svc.RunRatings(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("run %s: rated %d of %d games (%d skipped) across %d teams in %s\n",
			report.RunID, report.Rated, report.Games, len(report.Skipped),
			report.Teams, report.Duration.Round(0))
		for _, sk := range report.Skipped {
			fmt.Printf("  skipped game %d: %s\n", sk.GameID, sk.Reason)
		}

		top, err := svc.TopRatings(ratingsTop)
		if err != nil {
			return err
		}
		fmt.Printf("\ntop %d teams:\n", len(top))
		for i, tr := range top {
			fmt.Printf("%3d. team %-6d %8.1f\n", i+1, tr.TeamID, tr.Rating)
		}
		return nil
	},
}

func init() {
	ratingsCmd.Flags().IntVar(&ratingsTop, "top", 25, "number of teams to print")
	rootCmd.AddCommand(ratingsCmd)
}
