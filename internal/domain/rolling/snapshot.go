package rolling

// Metric names used for completeness tracking. A game that cannot contribute
// a metric (missing box-score fields) is counted against that metric only.
const (
	MetricTotalYards    = "total_yards"
	MetricYardsPerPlay  = "yards_per_play"
	MetricOppTotalYards = "opp_total_yards"
	MetricOppYPP        = "opp_yards_per_play"
	MetricThirdDownPct  = "third_down_pct"
	MetricTurnoverDiff  = "turnover_diff"
	MetricPassRatio     = "pass_ratio"
	MetricSOS           = "sos"
)

// WindowStats holds the decayed aggregates for one trailing window.
type WindowStats struct {
	// Games actually selected for the window; PriorSeasonGames of them came
	// from the preceding season and carried the decay weight.
	Games            int
	PriorSeasonGames int

	PPG     float64 // points scored per game (weighted)
	PAPG    float64 // points allowed per game (weighted)
	Margin  float64
	WinRate float64
	Wins    int // unweighted win count in the window

	TotalYards      float64
	YardsPerPlay    float64
	OppTotalYards   float64
	OppYardsPerPlay float64
	ThirdDownPct    float64
	TurnoverDiff    float64
	PassRatio       float64

	// SOS is the weighted mean opponent rating entering each window game.
	SOS float64
	// RatingDelta is the team's rating change across the window games.
	RatingDelta float64

	// Contributing maps metric name to the number of window games that
	// supplied the fields it needs. A caller comparing this against Games
	// can see exactly which metrics rest on thin data.
	Contributing map[string]int
	// GapGames counts window games missing at least one stat field.
	GapGames int
}

// Snapshot is a team's aggregated performance entering a specific
// (season, week), computed strictly from earlier games.
type Snapshot struct {
	TeamID int
	Season int
	Week   int

	// Neutral marks a placeholder snapshot for a team with insufficient
	// history; values come from league-average baselines.
	Neutral bool
	// LowConfidence marks a snapshot whose window games had stat gaps
	// beyond the configured threshold.
	LowConfidence bool

	Short WindowStats
	Long  WindowStats

	// Momentum: mean of the most recent half of the long window minus the
	// mean of the earlier half. Zero when fewer than two games exist.
	PPGTrend       float64
	MarginTrend    float64
	DefensiveTrend float64 // points allowed; negative means improving

	// WinStreak is signed: +n for n straight wins, -n for n straight losses.
	WinStreak int

	// Consistency over the short window (population standard deviation).
	PointsStdDev float64
	MarginStdDev float64

	// Current-season-to-date aggregates (no decay, current season only).
	SeasonGames  int
	SeasonPPG    float64
	SeasonPAPG   float64
	SeasonMargin float64

	// Rating entering this week, from the rating timeline.
	Rating float64
}

// Baseline supplies the league-average placeholder values used for neutral
// snapshots.
type Baseline struct {
	PPG          float64
	PAPG         float64
	TotalYards   float64
	YardsPerPlay float64
	ThirdDownPct float64
	PassRatio    float64
	WinRate      float64
}

// DefaultBaseline returns placeholder values near small-college averages.
func DefaultBaseline() Baseline {
	return Baseline{
		PPG:          24,
		PAPG:         24,
		TotalYards:   350,
		YardsPerPlay: 5.2,
		ThirdDownPct: 38,
		PassRatio:    0.5,
		WinRate:      0.5,
	}
}
