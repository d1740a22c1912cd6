package features

import (
	"context"
	"fmt"

	"github.com/gridironlab/pigskin/internal/domain/rolling"
)

// SnapshotSource yields a team's newest snapshot entering a week no later
// than the given one, if any exists. Snapshots are keyed by the week they
// enter, so one keyed at exactly (season, week) carries only earlier games.
type SnapshotSource interface {
	LatestSnapshotFor(ctx context.Context, teamID, season, week int) (rolling.Snapshot, bool, error)
}

// Assembler joins two team snapshots into one matchup feature vector.
type Assembler struct {
	snapshots SnapshotSource
}

// New creates an Assembler reading from the given snapshot source.
func New(snapshots SnapshotSource) *Assembler {
	return &Assembler{snapshots: snapshots}
}

// Assemble builds the feature vector for a home/away matchup in the given
// (season, week). Both teams need a snapshot entering that week or earlier;
// otherwise ErrInsufficientHistory is returned naming the missing side.
func (a *Assembler) Assemble(ctx context.Context, homeTeamID, awayTeamID, season, week int) (Vector, error) {
	home, ok, err := a.snapshots.LatestSnapshotFor(ctx, homeTeamID, season, week)
	if err != nil {
		return Vector{}, fmt.Errorf("loading home snapshot for team %d: %w", homeTeamID, err)
	}
	if !ok {
		return Vector{}, fmt.Errorf("home team %d before %d week %d: %w",
			homeTeamID, season, week, ErrInsufficientHistory)
	}

	away, ok, err := a.snapshots.LatestSnapshotFor(ctx, awayTeamID, season, week)
	if err != nil {
		return Vector{}, fmt.Errorf("loading away snapshot for team %d: %w", awayTeamID, err)
	}
	if !ok {
		return Vector{}, fmt.Errorf("away team %d before %d week %d: %w",
			awayTeamID, season, week, ErrInsufficientHistory)
	}

	return Vector{
		HomeTeamID: homeTeamID,
		AwayTeamID: awayTeamID,
		Season:     season,
		Week:       week,
		Home:       home,
		Away:       away,
	}, nil
}
