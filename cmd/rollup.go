package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rollupSeason int
	rollupWeek   int
	rollupFull   bool
)

var rollupCmd = &cobra.Command{
	Use:   "rollup",
	Short: "Build rolling snapshots for every team",
	Long: `Computes ratings and then fans snapshot builds out across the worker
pool. With --full, snapshots are built for every week up to --week so a
whole season's training rows can be assembled afterwards.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		svc, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer svc.Stop()

		if rollupFull {
			if err := svc.Recompute(ctx, rollupSeason, rollupWeek); err != nil {
				return err
			}
			fmt.Printf("recomputed season %d through week %d\n", rollupSeason, rollupWeek)
			return nil
		}

		if _, err := svc.RunRatings(ctx); err != nil {
			return err
		}
		report, err := svc.RunSnapshots(ctx, rollupSeason, rollupWeek)
		if err != nil {
			return err
		}
		fmt.Printf("run %s: %d snapshots for %d teams entering %d week %d (%d dropped) in %s\n",
			report.RunID, report.Snapshots, report.Teams,
			rollupSeason, rollupWeek, report.Dropped, report.Duration.Round(0))
		return nil
	},
}

func init() {
	rollupCmd.Flags().IntVar(&rollupSeason, "season", 0, "season to snapshot")
	rollupCmd.Flags().IntVar(&rollupWeek, "week", 0, "week the snapshots enter")
	rollupCmd.Flags().BoolVar(&rollupFull, "full", false, "rebuild every week up to --week")
	_ = rollupCmd.MarkFlagRequired("season")
	_ = rollupCmd.MarkFlagRequired("week")
	rootCmd.AddCommand(rollupCmd)
}
