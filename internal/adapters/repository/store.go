// Package repository defines persistence for games, snapshots and teams.
package repository

import (
	"context"

	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
)

// GameStore provides read/write access to teams and game results.
type GameStore interface {
	// UpsertTeam inserts or updates a team record.
	UpsertTeam(ctx context.Context, team model.Team) error
	// ListTeams returns all known teams ordered by id.
	ListTeams(ctx context.Context) ([]model.Team, error)

	// UpsertGame inserts or replaces a game by its id.
	UpsertGame(ctx context.Context, game model.Game) error
	// GetGame returns a game by id, or ErrNotFound.
	GetGame(ctx context.Context, id int) (model.Game, error)
	// ListGames returns all games ordered by (season, week, id).
	ListGames(ctx context.Context) ([]model.Game, error)

	// TeamGamesBefore returns a team's completed games in the given season
	// strictly before the given week, most recent first.
	TeamGamesBefore(ctx context.Context, teamID, season, week int) ([]model.TeamView, error)
	// TeamSeasonTail returns a team's last n completed games of the given
	// season, most recent first.
	TeamSeasonTail(ctx context.Context, teamID, season, n int) ([]model.TeamView, error)

	// TeamIDs returns the ids of every team appearing in stored games.
	TeamIDs(ctx context.Context) ([]int, error)
	// CountGames returns the number of stored games.
	CountGames(ctx context.Context) (int, error)
}

// SnapshotStore persists rolling snapshots keyed by (team, season, week).
type SnapshotStore interface {
	// PutSnapshot inserts or replaces a snapshot.
	PutSnapshot(ctx context.Context, snap rolling.Snapshot) error
	// LatestSnapshotFor returns the team's newest snapshot entering a week
	// no later than (season, week), searching earlier seasons too. A
	// snapshot keyed at exactly (season, week) qualifies: it is built from
	// games strictly before that week. The boolean reports whether any
	// snapshot was found.
	LatestSnapshotFor(ctx context.Context, teamID, season, week int) (rolling.Snapshot, bool, error)
	// CountSnapshots returns the number of stored snapshots.
	CountSnapshots(ctx context.Context) (int, error)
}

// Store is the full persistence surface the pipeline needs.
type Store interface {
	GameStore
	SnapshotStore
}
