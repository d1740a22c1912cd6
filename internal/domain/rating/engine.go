// Package rating implements the competitive-strength rating engine.
//
// The engine is a pure left-fold over the chronologically sorted game
// sequence: the accumulator is a team->current-rating mapping and every
// processed game emits one timeline entry. Recomputing over the same game
// list is deterministic and bit-identical.
package rating

import (
	"context"
	"math"

	"github.com/gridironlab/pigskin/internal/domain/model"
)

// Default rating configuration constants.
const (
	defaultBaseRating    = 1500.0
	defaultKFactor       = 32.0
	defaultHomeAdvantage = 65.0
	defaultCarryover     = 0.75
	defaultMarginScale   = 2.2
	defaultMultiplierCap = 3.0
	defaultUpsetBonus    = 1.2
	minMarginMultiplier  = 1.0
	logisticDivisor      = 400.0
)

// Engine computes rating timelines from completed game histories.
type Engine struct {
	base          float64
	k             float64
	homeAdvantage float64
	carryover     float64
	marginScale   float64
	multiplierCap float64
	upsetBonus    float64
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		base:          defaultBaseRating,
		k:             defaultKFactor,
		homeAdvantage: defaultHomeAdvantage,
		carryover:     defaultCarryover,
		marginScale:   defaultMarginScale,
		multiplierCap: defaultMultiplierCap,
		upsetBonus:    defaultUpsetBonus,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Base returns the configured base rating.
func (e *Engine) Base() float64 { return e.base }

// Expectancy returns the probability that the home team wins, from the
// standard logistic rating-difference formula. The home-field offset is
// applied to the home rating for expectation only; it is never stored.
func (e *Engine) Expectancy(homeRating, awayRating float64) float64 {
	return 1 / (1 + math.Pow(10, (awayRating-(homeRating+e.homeAdvantage))/logisticDivisor))
}

// marginMultiplier scales the rating step by margin of victory with
// diminishing returns. Upsets (winner entered lower-rated) get a bonus; the
// result is clamped so a blowout cannot produce unbounded swings and a
// one-point game still moves ratings.
func (e *Engine) marginMultiplier(margin int, winnerRating, loserRating float64) float64 {
	m := math.Log(math.Abs(float64(margin))+1) * e.marginScale
	if winnerRating < loserRating {
		m *= e.upsetBonus
	}
	return math.Max(minMarginMultiplier, math.Min(e.multiplierCap, m))
}

// regress pulls a rating toward base across one season boundary, keeping
// the configured fraction of its deviation.
func (e *Engine) regress(r float64) float64 {
	return e.base + e.carryover*(r-e.base)
}

// Compute folds the given games, in chronological order, into a complete
// rating Timeline. Unrecognized teams are seeded lazily at the base rating.
// Invalid completed games (tied score, missing stats) are excluded and
// recorded on the timeline rather than aborting the pass; scheduled games
// are ignored. The input slice is not mutated.
func (e *Engine) Compute(ctx context.Context, games []model.Game) (*Timeline, error) {
	ordered := make([]model.Game, len(games))
	copy(ordered, games)
	model.SortGames(ordered)

	tl := newTimeline(e.base, e.carryover)
	current := make(map[int]float64)
	season := 0

	for _, g := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !g.Completed() {
			continue
		}
		if err := g.Validate(); err != nil {
			tl.skipped = append(tl.skipped, Skipped{GameID: g.ID, Reason: err})
			continue
		}

		// Season boundary: regress every tracked team once per
		// intervening season so idle programs drift back toward base.
		if season == 0 {
			season = g.Season
		}
		for season < g.Season {
			for id, r := range current {
				current[id] = e.regress(r)
			}
			season++
		}

		home, ok := current[g.HomeTeamID]
		if !ok {
			home = e.base
		}
		away, ok := current[g.AwayTeamID]
		if !ok {
			away = e.base
		}

		expected := e.Expectancy(home, away)
		actual := 0.0
		if g.HomeWon() {
			actual = 1.0
		}

		winner, loser := home, away
		if !g.HomeWon() {
			winner, loser = away, home
		}
		mult := e.marginMultiplier(g.Margin(), winner, loser)

		homeChange := e.k * mult * (actual - expected)
		awayChange := -homeChange

		current[g.HomeTeamID] = home + homeChange
		current[g.AwayTeamID] = away + awayChange

		tl.record(GameRating{
			GameID:     g.ID,
			Season:     g.Season,
			Week:       g.Week,
			HomeTeamID: g.HomeTeamID,
			AwayTeamID: g.AwayTeamID,
			HomeBefore: home,
			AwayBefore: away,
			HomeAfter:  home + homeChange,
			AwayAfter:  away + awayChange,
			HomeChange: homeChange,
			AwayChange: awayChange,
		})
	}

	tl.current = current
	return tl, nil
}
