// Package model contains domain models passed between pipeline layers.
package model

import (
	"fmt"
	"sort"
	"time"
)

// Team is an identity with a name and conference. Teams are immutable once
// created and never deleted.
type Team struct {
	ID         int
	Name       string
	Conference string
}

// TeamGameStats is the per-team box score for one game. Optional fields are
// pointers: nil means the import collaborator could not provide the value,
// which the rolling calculator treats as a per-metric gap rather than an
// error.
type TeamGameStats struct {
	TotalYards           *int
	TotalPlays           *int
	PassingYards         *int
	RushingYards         *int
	ThirdDownConversions *int
	ThirdDownAttempts    *int
	TurnoversLost        *int // fumbles lost + interceptions thrown
	TurnoversGained      *int // takeaways forced
}

// Game is an immutable record once played. Scores are nil until the game
// completes; a completed game must carry both teams' stat records.
type Game struct {
	ID         int
	Season     int
	Week       int
	Date       time.Time
	HomeTeamID int
	AwayTeamID int
	HomeScore  *int
	AwayScore  *int
	HomeStats  *TeamGameStats
	AwayStats  *TeamGameStats
}

// Completed reports whether both final scores are populated.
func (g Game) Completed() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// Margin returns home score minus away score. Zero for scheduled games.
func (g Game) Margin() int {
	if !g.Completed() {
		return 0
	}
	return *g.HomeScore - *g.AwayScore
}

// HomeWon reports whether the home team won. Callers must check Completed
// first; ties are rejected by Validate.
func (g Game) HomeWon() bool {
	return g.Completed() && *g.HomeScore > *g.AwayScore
}

// Validate checks the invariants a completed game must satisfy. Scheduled
// games always validate. Violations wrap ErrInvalidGame so batch callers can
// classify with errors.Is.
func (g Game) Validate() error {
	if !g.Completed() {
		return nil
	}
	if *g.HomeScore == *g.AwayScore {
		return fmt.Errorf("%w: game %d: %w", ErrInvalidGame, g.ID, ErrTiedScore)
	}
	if g.HomeStats == nil || g.AwayStats == nil {
		return fmt.Errorf("%w: game %d: %w", ErrInvalidGame, g.ID, ErrMissingStats)
	}
	return nil
}

// SortGames orders games chronologically: season ascending, week ascending,
// then game id as a stable tie-break for same-week games. Path-dependent
// rating updates rely on this ordering being total and deterministic.
func SortGames(games []Game) {
	sort.SliceStable(games, func(i, j int) bool {
		a, b := games[i], games[j]
		if a.Season != b.Season {
			return a.Season < b.Season
		}
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		return a.ID < b.ID
	})
}

// TeamView is one team's perspective of a completed game: its own scoring
// line, its opponent, and both stat records. The rolling calculator consumes
// these instead of raw games so home/away bookkeeping stays in one place.
type TeamView struct {
	GameID        int
	Season        int
	Week          int
	OpponentID    int
	Home          bool
	PointsScored  int
	PointsAllowed int
	Won           bool
	Stats         *TeamGameStats
	OppStats      *TeamGameStats
}

// Margin returns points scored minus points allowed.
func (v TeamView) Margin() int {
	return v.PointsScored - v.PointsAllowed
}

// ViewFor returns the game from teamID's perspective. The second return is
// false when the team did not play in this game or the game is not completed.
func (g Game) ViewFor(teamID int) (TeamView, bool) {
	if !g.Completed() {
		return TeamView{}, false
	}
	switch teamID {
	case g.HomeTeamID:
		return TeamView{
			GameID:        g.ID,
			Season:        g.Season,
			Week:          g.Week,
			OpponentID:    g.AwayTeamID,
			Home:          true,
			PointsScored:  *g.HomeScore,
			PointsAllowed: *g.AwayScore,
			Won:           *g.HomeScore > *g.AwayScore,
			Stats:         g.HomeStats,
			OppStats:      g.AwayStats,
		}, true
	case g.AwayTeamID:
		return TeamView{
			GameID:        g.ID,
			Season:        g.Season,
			Week:          g.Week,
			OpponentID:    g.HomeTeamID,
			Home:          false,
			PointsScored:  *g.AwayScore,
			PointsAllowed: *g.HomeScore,
			Won:           *g.AwayScore > *g.HomeScore,
			Stats:         g.AwayStats,
			OppStats:      g.HomeStats,
		}, true
	}
	return TeamView{}, false
}

// IntPtr is a convenience for building optional stat fields.
func IntPtr(v int) *int { return &v }
