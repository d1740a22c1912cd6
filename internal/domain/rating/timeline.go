package rating

import "sort"

// GameRating is one timeline entry: both teams' ratings immediately before
// and after a single game.
type GameRating struct {
	GameID     int
	Season     int
	Week       int
	HomeTeamID int
	AwayTeamID int
	HomeBefore float64
	AwayBefore float64
	HomeAfter  float64
	AwayAfter  float64
	HomeChange float64
	AwayChange float64
}

// Point is one team's rating around a single game it played.
type Point struct {
	GameID     int
	Season     int
	Week       int
	OpponentID int
	Before     float64
	After      float64
	// OppBefore is the opponent's rating entering the same game, used as
	// the strength-of-schedule input downstream.
	OppBefore float64
}

// Skipped records a game excluded from the fold and why.
type Skipped struct {
	GameID int
	Reason error
}

// TeamRating pairs a team with its current rating, for rankings.
type TeamRating struct {
	TeamID int
	Rating float64
}

// Timeline is the complete, order-stable output of a rating pass. It is
// immutable once computed; the rolling-stats calculator reads it without
// locking.
type Timeline struct {
	base      float64
	carryover float64
	entries   []GameRating
	byTeam    map[int][]Point
	current   map[int]float64
	skipped   []Skipped
}

func newTimeline(base, carryover float64) *Timeline {
	return &Timeline{
		base:      base,
		carryover: carryover,
		byTeam:    make(map[int][]Point),
	}
}

func (t *Timeline) record(gr GameRating) {
	t.entries = append(t.entries, gr)
	t.byTeam[gr.HomeTeamID] = append(t.byTeam[gr.HomeTeamID], Point{
		GameID:     gr.GameID,
		Season:     gr.Season,
		Week:       gr.Week,
		OpponentID: gr.AwayTeamID,
		Before:     gr.HomeBefore,
		After:      gr.HomeAfter,
		OppBefore:  gr.AwayBefore,
	})
	t.byTeam[gr.AwayTeamID] = append(t.byTeam[gr.AwayTeamID], Point{
		GameID:     gr.GameID,
		Season:     gr.Season,
		Week:       gr.Week,
		OpponentID: gr.HomeTeamID,
		Before:     gr.AwayBefore,
		After:      gr.AwayAfter,
		OppBefore:  gr.HomeBefore,
	})
}

// Entries returns all timeline entries in processing order.
func (t *Timeline) Entries() []GameRating { return t.entries }

// SkippedGames returns the games excluded from the fold.
func (t *Timeline) SkippedGames() []Skipped { return t.skipped }

// Teams returns the number of teams with at least one rating point.
func (t *Timeline) Teams() int { return len(t.byTeam) }

// History returns a team's rating points in chronological order.
func (t *Timeline) History(teamID int) []Point { return t.byTeam[teamID] }

// before reports whether point (s1, w1) is strictly before (s2, w2).
func before(s1, w1, s2, w2 int) bool {
	if s1 != s2 {
		return s1 < s2
	}
	return w1 < w2
}

// Entering returns a team's rating entering the given (season, week): the
// post-game rating of its most recent game strictly before that point,
// regressed once per intervening season boundary. Teams with no prior games
// enter at the base rating. No future game can influence the result.
func (t *Timeline) Entering(teamID, season, week int) float64 {
	points := t.byTeam[teamID]
	var last *Point
	for i := range points {
		if !before(points[i].Season, points[i].Week, season, week) {
			break
		}
		last = &points[i]
	}
	if last == nil {
		return t.base
	}
	r := last.After
	for s := last.Season; s < season; s++ {
		r = t.base + t.carryover*(r-t.base)
	}
	return r
}

// Recent returns up to n of a team's rating points strictly before
// (season, week), most recent first.
func (t *Timeline) Recent(teamID, season, week, n int) []Point {
	points := t.byTeam[teamID]
	end := 0
	for end < len(points) && before(points[end].Season, points[end].Week, season, week) {
		end++
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	out := make([]Point, 0, end-start)
	for i := end - 1; i >= start; i-- {
		out = append(out, points[i])
	}
	return out
}

// Current returns a team's rating after its last processed game, or the
// base rating if it never played.
func (t *Timeline) Current(teamID int) float64 {
	if r, ok := t.current[teamID]; ok {
		return r
	}
	return t.base
}

// TopN returns the n highest-rated teams, ties broken by team id for
// deterministic output.
func (t *Timeline) TopN(n int) []TeamRating {
	ranked := make([]TeamRating, 0, len(t.current))
	for id, r := range t.current {
		ranked = append(ranked, TeamRating{TeamID: id, Rating: r})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Rating != ranked[j].Rating {
			return ranked[i].Rating > ranked[j].Rating
		}
		return ranked[i].TeamID < ranked[j].TeamID
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}
