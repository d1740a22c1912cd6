package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
)

// MemStore is a mutex-guarded in-memory Store. It backs tests and
// single-process runs where no Postgres instance is available.
type MemStore struct {
	mu        sync.RWMutex
	teams     map[int]model.Team
	games     map[int]model.Game
	snapshots map[int][]rolling.Snapshot // per team, sorted by (season, week)
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		teams:     make(map[int]model.Team),
		games:     make(map[int]model.Game),
		snapshots: make(map[int][]rolling.Snapshot),
	}
}

func (s *MemStore) UpsertTeam(_ context.Context, team model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teams[team.ID] = team
	return nil
}

func (s *MemStore) ListTeams(_ context.Context) ([]model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) UpsertGame(_ context.Context, game model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID] = game
	return nil
}

func (s *MemStore) GetGame(_ context.Context, id int) (model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return model.Game{}, ErrNotFound
	}
	return g, nil
}

func (s *MemStore) ListGames(_ context.Context) ([]model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	model.SortGames(out)
	return out, nil
}

// teamSeasonViews returns the team's completed views for a season in
// ascending (week, game id) order. Callers hold at least a read lock.
func (s *MemStore) teamSeasonViews(teamID, season int) []model.TeamView {
	var views []model.TeamView
	for _, g := range s.games {
		if g.Season != season || !g.Completed() {
			continue
		}
		if v, ok := g.ViewFor(teamID); ok {
			views = append(views, v)
		}
	}
	sort.Slice(views, func(i, j int) bool {
		if views[i].Week != views[j].Week {
			return views[i].Week < views[j].Week
		}
		return views[i].GameID < views[j].GameID
	})
	return views
}

func reverse(views []model.TeamView) []model.TeamView {
	for i, j := 0, len(views)-1; i < j; i, j = i+1, j-1 {
		views[i], views[j] = views[j], views[i]
	}
	return views
}

func (s *MemStore) TeamGamesBefore(_ context.Context, teamID, season, week int) ([]model.TeamView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := s.teamSeasonViews(teamID, season)
	cut := len(views)
	for i, v := range views {
		if v.Week >= week {
			cut = i
			break
		}
	}
	return reverse(views[:cut]), nil
}

func (s *MemStore) TeamSeasonTail(_ context.Context, teamID, season, n int) ([]model.TeamView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := s.teamSeasonViews(teamID, season)
	if n < len(views) {
		views = views[len(views)-n:]
	}
	return reverse(views), nil
}

func (s *MemStore) TeamIDs(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int]struct{})
	for _, g := range s.games {
		seen[g.HomeTeamID] = struct{}{}
		seen[g.AwayTeamID] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Ints(out)
	return out, nil
}

func (s *MemStore) CountGames(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games), nil
}

func (s *MemStore) PutSnapshot(_ context.Context, snap rolling.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snaps := s.snapshots[snap.TeamID]
	for i, existing := range snaps {
		if existing.Season == snap.Season && existing.Week == snap.Week {
			snaps[i] = snap
			return nil
		}
	}
	snaps = append(snaps, snap)
	sort.Slice(snaps, func(i, j int) bool {
		if snaps[i].Season != snaps[j].Season {
			return snaps[i].Season < snaps[j].Season
		}
		return snaps[i].Week < snaps[j].Week
	})
	s.snapshots[snap.TeamID] = snaps
	return nil
}

func (s *MemStore) LatestSnapshotFor(_ context.Context, teamID, season, week int) (rolling.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snaps := s.snapshots[teamID]
	for i := len(snaps) - 1; i >= 0; i-- {
		sn := snaps[i]
		if sn.Season < season || (sn.Season == season && sn.Week <= week) {
			return sn, true, nil
		}
	}
	return rolling.Snapshot{}, false, nil
}

func (s *MemStore) CountSnapshots(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, snaps := range s.snapshots {
		total += len(snaps)
	}
	return total, nil
}
