package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	// postgres driver
	_ "github.com/lib/pq"

	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
)

// PostgresStore is a Store backed by Postgres. Box scores and snapshot
// payloads live in JSONB columns; the query predicates only need the keyed
// columns, so the variable-width stat fields stay schemaless.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens and verifies a Postgres connection.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS teams (
			id         INT PRIMARY KEY,
			name       TEXT NOT NULL,
			conference TEXT NOT NULL DEFAULT ''
		);`,
		`CREATE TABLE IF NOT EXISTS games (
			id           INT PRIMARY KEY,
			season       INT NOT NULL,
			week         INT NOT NULL,
			game_date    TIMESTAMPTZ NOT NULL,
			home_team_id INT NOT NULL,
			away_team_id INT NOT NULL,
			home_score   INT,
			away_score   INT,
			home_stats   JSONB,
			away_stats   JSONB
		);`,
		`CREATE INDEX IF NOT EXISTS games_season_week ON games (season, week, id);`,
		`CREATE INDEX IF NOT EXISTS games_home_team ON games (home_team_id, season, week);`,
		`CREATE INDEX IF NOT EXISTS games_away_team ON games (away_team_id, season, week);`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			team_id INT NOT NULL,
			season  INT NOT NULL,
			week    INT NOT NULL,
			payload JSONB NOT NULL,
			PRIMARY KEY (team_id, season, week)
		);`,
	}
	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) UpsertTeam(ctx context.Context, team model.Team) error {
	const q = `
		INSERT INTO teams (id, name, conference)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = $2, conference = $3`
	if _, err := s.db.ExecContext(ctx, q, team.ID, team.Name, team.Conference); err != nil {
		return fmt.Errorf("upserting team %d: %w", team.ID, err)
	}
	return nil
}

func (s *PostgresStore) ListTeams(ctx context.Context) ([]model.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, conference FROM teams ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Conference); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}
	return teams, nil
}

func statsJSON(stats *model.TeamGameStats) (any, error) {
	if stats == nil {
		return nil, nil
	}
	b, err := json.Marshal(stats)
	if err != nil {
		return nil, fmt.Errorf("encoding box score: %w", err)
	}
	return b, nil
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func (s *PostgresStore) UpsertGame(ctx context.Context, game model.Game) error {
	homeStats, err := statsJSON(game.HomeStats)
	if err != nil {
		return err
	}
	awayStats, err := statsJSON(game.AwayStats)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO games
			(id, season, week, game_date, home_team_id, away_team_id,
			 home_score, away_score, home_stats, away_stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			season = $2, week = $3, game_date = $4,
			home_team_id = $5, away_team_id = $6,
			home_score = $7, away_score = $8,
			home_stats = $9, away_stats = $10`
	_, err = s.db.ExecContext(ctx, q,
		game.ID, game.Season, game.Week, game.Date,
		game.HomeTeamID, game.AwayTeamID,
		nullableInt(game.HomeScore), nullableInt(game.AwayScore),
		homeStats, awayStats,
	)
	if err != nil {
		return fmt.Errorf("upserting game %d: %w", game.ID, err)
	}
	return nil
}

const gameColumns = `id, season, week, game_date, home_team_id, away_team_id,
	home_score, away_score, home_stats, away_stats`

func scanGame(rows *sql.Rows) (model.Game, error) {
	var (
		g                    model.Game
		date                 time.Time
		homeScore, awayScore sql.NullInt64
		homeStats, awayStats []byte
	)
	err := rows.Scan(&g.ID, &g.Season, &g.Week, &date,
		&g.HomeTeamID, &g.AwayTeamID,
		&homeScore, &awayScore, &homeStats, &awayStats)
	if err != nil {
		return model.Game{}, fmt.Errorf("scanning game row: %w", err)
	}
	g.Date = date
	if homeScore.Valid {
		g.HomeScore = model.IntPtr(int(homeScore.Int64))
	}
	if awayScore.Valid {
		g.AwayScore = model.IntPtr(int(awayScore.Int64))
	}
	if len(homeStats) > 0 {
		g.HomeStats = &model.TeamGameStats{}
		if err := json.Unmarshal(homeStats, g.HomeStats); err != nil {
			return model.Game{}, fmt.Errorf("decoding home box score for game %d: %w", g.ID, err)
		}
	}
	if len(awayStats) > 0 {
		g.AwayStats = &model.TeamGameStats{}
		if err := json.Unmarshal(awayStats, g.AwayStats); err != nil {
			return model.Game{}, fmt.Errorf("decoding away box score for game %d: %w", g.ID, err)
		}
	}
	return g, nil
}

func (s *PostgresStore) queryGames(ctx context.Context, q string, args ...any) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rows: %w", err)
	}
	return games, nil
}

func (s *PostgresStore) GetGame(ctx context.Context, id int) (model.Game, error) {
	games, err := s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id)
	if err != nil {
		return model.Game{}, err
	}
	if len(games) == 0 {
		return model.Game{}, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return games[0], nil
}

func (s *PostgresStore) ListGames(ctx context.Context) ([]model.Game, error) {
	return s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY season, week, id`)
}

func viewsFor(games []model.Game, teamID int) []model.TeamView {
	views := make([]model.TeamView, 0, len(games))
	for _, g := range games {
		if !g.Completed() {
			continue
		}
		if v, ok := g.ViewFor(teamID); ok {
			views = append(views, v)
		}
	}
	return views
}

func (s *PostgresStore) TeamGamesBefore(ctx context.Context, teamID, season, week int) ([]model.TeamView, error) {
	games, err := s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games
		 WHERE season = $2 AND week < $3
		   AND (home_team_id = $1 OR away_team_id = $1)
		 ORDER BY week DESC, id DESC`,
		teamID, season, week)
	if err != nil {
		return nil, err
	}
	return viewsFor(games, teamID), nil
}

func (s *PostgresStore) TeamSeasonTail(ctx context.Context, teamID, season, n int) ([]model.TeamView, error) {
	games, err := s.queryGames(ctx,
		`SELECT `+gameColumns+` FROM games
		 WHERE season = $2
		   AND (home_team_id = $1 OR away_team_id = $1)
		   AND home_score IS NOT NULL AND away_score IS NOT NULL
		 ORDER BY week DESC, id DESC
		 LIMIT $3`,
		teamID, season, n)
	if err != nil {
		return nil, err
	}
	return viewsFor(games, teamID), nil
}

func (s *PostgresStore) TeamIDs(ctx context.Context) ([]int, error) {
	const q = `
		SELECT DISTINCT team_id FROM (
			SELECT home_team_id AS team_id FROM games
			UNION
			SELECT away_team_id FROM games
		) ids ORDER BY team_id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying team ids: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team ids: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) CountGames(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) PutSnapshot(ctx context.Context, snap rolling.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	const q = `
		INSERT INTO snapshots (team_id, season, week, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (team_id, season, week) DO UPDATE SET payload = $4`
	if _, err := s.db.ExecContext(ctx, q, snap.TeamID, snap.Season, snap.Week, payload); err != nil {
		return fmt.Errorf("upserting snapshot for team %d: %w", snap.TeamID, err)
	}
	return nil
}

func (s *PostgresStore) LatestSnapshotFor(ctx context.Context, teamID, season, week int) (rolling.Snapshot, bool, error) {
	const q = `
		SELECT payload FROM snapshots
		WHERE team_id = $1
		  AND (season < $2 OR (season = $2 AND week <= $3))
		ORDER BY season DESC, week DESC
		LIMIT 1`
	var payload []byte
	err := s.db.QueryRowContext(ctx, q, teamID, season, week).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return rolling.Snapshot{}, false, nil
	}
	if err != nil {
		return rolling.Snapshot{}, false, fmt.Errorf("querying snapshot for team %d: %w", teamID, err)
	}
	var snap rolling.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return rolling.Snapshot{}, false, fmt.Errorf("decoding snapshot for team %d: %w", teamID, err)
	}
	return snap, true, nil
}

func (s *PostgresStore) CountSnapshots(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}
