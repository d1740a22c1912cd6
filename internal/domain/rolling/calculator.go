// Package rolling computes windowed, decayed aggregates of team statistics.
//
// Every snapshot is a pure function of the team's games strictly before the
// target (season, week): early-season windows backfill from the tail of the
// preceding season at a flat decay weight, and nothing played at or after the
// target week can influence the result.
package rolling

import (
	"context"
	"fmt"
	"math"

	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rating"
)

// Default rolling-stats configuration constants.
const (
	defaultShortWindow  = 3
	defaultLongWindow   = 5
	defaultDecay        = 0.7
	defaultMinGames     = 2
	defaultGapThreshold = 0.5
	currentSeasonWeight = 1.0
	pctScale            = 100.0
)

// GameSource supplies a team's completed game history. Implementations must
// return views ordered descending by week (most recent first).
type GameSource interface {
	// TeamGamesBefore returns the team's completed games in season strictly
	// before week.
	TeamGamesBefore(ctx context.Context, teamID, season, week int) ([]model.TeamView, error)
	// TeamSeasonTail returns up to n of the team's last completed games in
	// season, counting back from season end.
	TeamSeasonTail(ctx context.Context, teamID, season, n int) ([]model.TeamView, error)
}

// RatingSource exposes the finished rating timeline. It is read-only during
// a snapshot pass.
type RatingSource interface {
	Entering(teamID, season, week int) float64
	Recent(teamID, season, week, n int) []rating.Point
}

// Calculator builds rolling-stats snapshots.
type Calculator struct {
	games   GameSource
	ratings RatingSource

	shortWindow  int
	longWindow   int
	decay        float64
	minGames     int
	gapThreshold float64
	baseline     Baseline
}

// New creates a Calculator reading from the given sources.
func New(games GameSource, ratings RatingSource, opts ...Option) *Calculator {
	c := &Calculator{
		games:        games,
		ratings:      ratings,
		shortWindow:  defaultShortWindow,
		longWindow:   defaultLongWindow,
		decay:        defaultDecay,
		minGames:     defaultMinGames,
		gapThreshold: defaultGapThreshold,
		baseline:     DefaultBaseline(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Build computes the snapshot for teamID entering (season, week). Teams with
// fewer than the minimum qualifying games receive a neutral snapshot rather
// than an error.
func (c *Calculator) Build(ctx context.Context, teamID, season, week int) (Snapshot, error) {
	current, err := c.games.TeamGamesBefore(ctx, teamID, season, week)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load current-season games for team %d: %w", teamID, err)
	}

	var prior []model.TeamView
	if needed := c.longWindow - len(current); needed > 0 {
		prior, err = c.games.TeamSeasonTail(ctx, teamID, season-1, needed)
		if err != nil {
			return Snapshot{}, fmt.Errorf("load prior-season games for team %d: %w", teamID, err)
		}
	}

	all := make([]model.TeamView, 0, len(current)+len(prior))
	all = append(all, current...)
	all = append(all, prior...)

	if len(all) < c.minGames {
		return c.neutralSnapshot(teamID, season, week, len(current)), nil
	}

	points := c.ratings.Recent(teamID, season, week, len(all))
	byGame := make(map[int]rating.Point, len(points))
	for _, p := range points {
		byGame[p.GameID] = p
	}

	snap := Snapshot{
		TeamID: teamID,
		Season: season,
		Week:   week,
		Rating: c.ratings.Entering(teamID, season, week),
	}

	snap.Short = c.windowStats(clip(all, c.shortWindow), len(current), byGame)
	snap.Long = c.windowStats(clip(all, c.longWindow), len(current), byGame)

	longViews := clip(all, c.longWindow)
	snap.PPGTrend, snap.MarginTrend, snap.DefensiveTrend = trends(longViews)
	snap.WinStreak = winStreak(all)
	snap.PointsStdDev, snap.MarginStdDev = consistency(clip(all, c.shortWindow))

	snap.SeasonGames = len(current)
	if len(current) > 0 {
		var pts, allowed, margin float64
		for _, v := range current {
			pts += float64(v.PointsScored)
			allowed += float64(v.PointsAllowed)
			margin += float64(v.Margin())
		}
		n := float64(len(current))
		snap.SeasonPPG = pts / n
		snap.SeasonPAPG = allowed / n
		snap.SeasonMargin = margin / n
	}

	snap.LowConfidence = c.lowConfidence(snap.Short) || c.lowConfidence(snap.Long)

	return snap, nil
}

func clip(views []model.TeamView, n int) []model.TeamView {
	if len(views) > n {
		return views[:n]
	}
	return views
}

// weightFor returns the decay weight for position i given how many of the
// selected games came from the current season.
func (c *Calculator) weightFor(i, currentCount int) float64 {
	if i < currentCount {
		return currentSeasonWeight
	}
	return c.decay
}

// windowStats aggregates one window. Games missing the fields a metric needs
// are excluded from that metric's weighted sums only; the gap is tracked in
// Contributing so thin-sample metrics stay observable.
func (c *Calculator) windowStats(views []model.TeamView, currentCount int, ratings map[int]rating.Point) WindowStats {
	ws := WindowStats{
		Games:        len(views),
		Contributing: make(map[string]int),
	}

	var (
		weightSum                        float64
		ppgSum, papgSum, marginSum, wSum float64

		yardsW, yardsSum     float64
		yppYards, yppPlays   float64
		yppGames             int
		oppYardsW, oppYdsSum float64
		oppYppYds, oppYppPl  float64
		oppYppGames          int
		thirdConv, thirdAtt  float64
		thirdGames           int
		toW, toSum           float64
		passYds, rushYds     float64
		passGames            int
		sosW, sosSum         float64
		sosGames             int
	)

	gapped := make(map[int]bool)

	for i, v := range views {
		w := c.weightFor(i, currentCount)
		weightSum += w
		if i >= currentCount {
			ws.PriorSeasonGames++
		}

		ppgSum += w * float64(v.PointsScored)
		papgSum += w * float64(v.PointsAllowed)
		marginSum += w * float64(v.Margin())
		if v.Won {
			wSum += w
			ws.Wins++
		}

		s := v.Stats
		o := v.OppStats

		if s != nil && s.TotalYards != nil {
			yardsW += w
			yardsSum += w * float64(*s.TotalYards)
			ws.Contributing[MetricTotalYards]++
		} else {
			gapped[i] = true
		}
		if s != nil && s.TotalYards != nil && s.TotalPlays != nil {
			yppYards += w * float64(*s.TotalYards)
			yppPlays += w * float64(*s.TotalPlays)
			yppGames++
			ws.Contributing[MetricYardsPerPlay]++
		} else {
			gapped[i] = true
		}
		if o != nil && o.TotalYards != nil {
			oppYardsW += w
			oppYdsSum += w * float64(*o.TotalYards)
			ws.Contributing[MetricOppTotalYards]++
		} else {
			gapped[i] = true
		}
		if o != nil && o.TotalYards != nil && o.TotalPlays != nil {
			oppYppYds += w * float64(*o.TotalYards)
			oppYppPl += w * float64(*o.TotalPlays)
			oppYppGames++
			ws.Contributing[MetricOppYPP]++
		} else {
			gapped[i] = true
		}
		if s != nil && s.ThirdDownConversions != nil && s.ThirdDownAttempts != nil {
			thirdConv += w * float64(*s.ThirdDownConversions)
			thirdAtt += w * float64(*s.ThirdDownAttempts)
			thirdGames++
			ws.Contributing[MetricThirdDownPct]++
		} else {
			gapped[i] = true
		}
		if s != nil && s.TurnoversGained != nil && s.TurnoversLost != nil {
			toW += w
			toSum += w * float64(*s.TurnoversGained-*s.TurnoversLost)
			ws.Contributing[MetricTurnoverDiff]++
		} else {
			gapped[i] = true
		}
		if s != nil && s.PassingYards != nil && s.RushingYards != nil {
			passYds += w * float64(*s.PassingYards)
			rushYds += w * float64(*s.RushingYards)
			passGames++
			ws.Contributing[MetricPassRatio]++
		} else {
			gapped[i] = true
		}

		if p, ok := ratings[v.GameID]; ok {
			sosW += w
			sosSum += w * p.OppBefore
			sosGames++
			ws.Contributing[MetricSOS]++
		}
	}

	ws.GapGames = len(gapped)

	if weightSum > 0 {
		ws.PPG = ppgSum / weightSum
		ws.PAPG = papgSum / weightSum
		ws.Margin = marginSum / weightSum
		ws.WinRate = wSum / weightSum
	}
	if yardsW > 0 {
		ws.TotalYards = yardsSum / yardsW
	}
	if yppPlays > 0 {
		ws.YardsPerPlay = yppYards / yppPlays
	}
	if oppYardsW > 0 {
		ws.OppTotalYards = oppYdsSum / oppYardsW
	}
	if oppYppPl > 0 {
		ws.OppYardsPerPlay = oppYppYds / oppYppPl
	}
	if thirdAtt > 0 {
		ws.ThirdDownPct = thirdConv / thirdAtt * pctScale
	}
	if toW > 0 {
		ws.TurnoverDiff = toSum / toW
	}
	if total := passYds + rushYds; total > 0 {
		ws.PassRatio = passYds / total
	} else if passGames > 0 {
		ws.PassRatio = 0.5
	}
	if sosW > 0 {
		ws.SOS = sosSum / sosW
	}

	// Rating delta across the window: newest After minus oldest Before
	// among the window's rated games (views are most recent first).
	var newest, oldest *rating.Point
	for _, v := range views {
		if p, ok := ratings[v.GameID]; ok {
			p := p
			if newest == nil {
				newest = &p
			}
			oldest = &p
		}
	}
	if newest != nil && oldest != nil {
		ws.RatingDelta = newest.After - oldest.Before
	}

	return ws
}

// trends computes the momentum indicators over the given window: the mean of
// the most recent half minus the mean of the earlier half.
func trends(views []model.TeamView) (ppg, margin, defensive float64) {
	if len(views) < 2 {
		return 0, 0, 0
	}
	mid := len(views) / 2
	recent, earlier := views[:mid], views[mid:]

	mean := func(vs []model.TeamView, f func(model.TeamView) float64) float64 {
		var sum float64
		for _, v := range vs {
			sum += f(v)
		}
		return sum / float64(len(vs))
	}

	scored := func(v model.TeamView) float64 { return float64(v.PointsScored) }
	allowed := func(v model.TeamView) float64 { return float64(v.PointsAllowed) }
	marginOf := func(v model.TeamView) float64 { return float64(v.Margin()) }

	ppg = mean(recent, scored) - mean(earlier, scored)
	margin = mean(recent, marginOf) - mean(earlier, marginOf)
	defensive = mean(recent, allowed) - mean(earlier, allowed)
	return ppg, margin, defensive
}

// winStreak counts consecutive results from the most recent game backwards:
// positive for wins, negative for losses.
func winStreak(views []model.TeamView) int {
	if len(views) == 0 {
		return 0
	}
	streak := 0
	winning := views[0].Won
	for _, v := range views {
		if v.Won != winning {
			break
		}
		if winning {
			streak++
		} else {
			streak--
		}
	}
	return streak
}

// consistency returns the population standard deviation of points scored and
// margin, zero when fewer than two games exist.
func consistency(views []model.TeamView) (points, margin float64) {
	if len(views) < 2 {
		return 0, 0
	}
	n := float64(len(views))
	var pSum, mSum float64
	for _, v := range views {
		pSum += float64(v.PointsScored)
		mSum += float64(v.Margin())
	}
	pMean, mMean := pSum/n, mSum/n
	var pVar, mVar float64
	for _, v := range views {
		pVar += (float64(v.PointsScored) - pMean) * (float64(v.PointsScored) - pMean)
		mVar += (float64(v.Margin()) - mMean) * (float64(v.Margin()) - mMean)
	}
	return math.Sqrt(pVar / n), math.Sqrt(mVar / n)
}

// lowConfidence reports whether the fraction of window games with stat gaps
// exceeds the configured threshold.
func (c *Calculator) lowConfidence(ws WindowStats) bool {
	if ws.Games == 0 {
		return false
	}
	return float64(ws.GapGames)/float64(ws.Games) > c.gapThreshold
}

// neutralSnapshot fills a placeholder for teams without qualifying history.
// This is a defined edge case for brand-new programs, not an error.
func (c *Calculator) neutralSnapshot(teamID, season, week, seasonGames int) Snapshot {
	b := c.baseline
	r := c.ratings.Entering(teamID, season, week)
	ws := WindowStats{
		Games:           0,
		Contributing:    make(map[string]int),
		PPG:             b.PPG,
		PAPG:            b.PAPG,
		WinRate:         b.WinRate,
		TotalYards:      b.TotalYards,
		YardsPerPlay:    b.YardsPerPlay,
		OppTotalYards:   b.TotalYards,
		OppYardsPerPlay: b.YardsPerPlay,
		ThirdDownPct:    b.ThirdDownPct,
		PassRatio:       b.PassRatio,
		SOS:             r,
	}
	return Snapshot{
		TeamID:      teamID,
		Season:      season,
		Week:        week,
		Neutral:     true,
		Short:       ws,
		Long:        ws,
		SeasonGames: seasonGames,
		SeasonPPG:   b.PPG,
		SeasonPAPG:  b.PAPG,
		Rating:      r,
	}
}
