package features

import "github.com/gridironlab/pigskin/internal/domain/rolling"

// Vector is the model-ready feature row for one matchup: the two team
// snapshots plus home-minus-away differentials for every numeric column.
type Vector struct {
	HomeTeamID int
	AwayTeamID int
	Season     int
	Week       int

	Home rolling.Snapshot
	Away rolling.Snapshot
}

// teamColumns is the flattened per-team schema, in emission order. Row and
// Columns must stay in lockstep; changing one without the other corrupts
// downstream training sets.
var teamColumns = []string{
	"rating",
	"short_ppg",
	"short_papg",
	"short_margin",
	"short_win_rate",
	"short_total_yards",
	"short_yards_per_play",
	"short_opp_total_yards",
	"short_opp_yards_per_play",
	"short_third_down_pct",
	"short_turnover_diff",
	"short_pass_ratio",
	"short_sos",
	"short_rating_delta",
	"long_ppg",
	"long_papg",
	"long_margin",
	"long_win_rate",
	"long_total_yards",
	"long_yards_per_play",
	"long_opp_total_yards",
	"long_opp_yards_per_play",
	"long_third_down_pct",
	"long_turnover_diff",
	"long_pass_ratio",
	"long_sos",
	"long_rating_delta",
	"ppg_trend",
	"margin_trend",
	"defensive_trend",
	"win_streak",
	"points_std_dev",
	"margin_std_dev",
	"season_games",
	"season_ppg",
	"season_papg",
	"season_margin",
	"neutral",
	"low_confidence",
}

func windowValues(w rolling.WindowStats) []float64 {
	return []float64{
		w.PPG,
		w.PAPG,
		w.Margin,
		w.WinRate,
		w.TotalYards,
		w.YardsPerPlay,
		w.OppTotalYards,
		w.OppYardsPerPlay,
		w.ThirdDownPct,
		w.TurnoverDiff,
		w.PassRatio,
		w.SOS,
		w.RatingDelta,
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func snapshotValues(s rolling.Snapshot) []float64 {
	out := make([]float64, 0, len(teamColumns))
	out = append(out, s.Rating)
	out = append(out, windowValues(s.Short)...)
	out = append(out, windowValues(s.Long)...)
	out = append(out,
		s.PPGTrend,
		s.MarginTrend,
		s.DefensiveTrend,
		float64(s.WinStreak),
		s.PointsStdDev,
		s.MarginStdDev,
		float64(s.SeasonGames),
		s.SeasonPPG,
		s.SeasonPAPG,
		s.SeasonMargin,
		boolValue(s.Neutral),
		boolValue(s.LowConfidence),
	)
	return out
}

// Columns returns the stable feature schema: every per-team column emitted
// for home, then away, then the home-minus-away differential.
func Columns() []string {
	out := make([]string, 0, 3*len(teamColumns))
	for _, c := range teamColumns {
		out = append(out, "home_"+c)
	}
	for _, c := range teamColumns {
		out = append(out, "away_"+c)
	}
	for _, c := range teamColumns {
		out = append(out, "diff_"+c)
	}
	return out
}

// Row flattens the vector into values aligned with Columns.
func (v Vector) Row() []float64 {
	home := snapshotValues(v.Home)
	away := snapshotValues(v.Away)
	out := make([]float64, 0, 3*len(home))
	out = append(out, home...)
	out = append(out, away...)
	for i := range home {
		out = append(out, home[i]-away[i])
	}
	return out
}

// RatingDiff is the home-minus-away entering-rating gap, the single most
// predictive column; exposed directly for quick inspection and logging.
func (v Vector) RatingDiff() float64 {
	return v.Home.Rating - v.Away.Rating
}
