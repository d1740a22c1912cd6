package repository_test

import (
	"context"
	"testing"

	"github.com/gridironlab/pigskin/internal/adapters/repository"
	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
	. "github.com/smartystreets/goconvey/convey"
)

func storedGame(id, season, week, homeID, awayID, homeScore, awayScore int) model.Game {
	return model.Game{
		ID:         id,
		Season:     season,
		Week:       week,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeScore:  model.IntPtr(homeScore),
		AwayScore:  model.IntPtr(awayScore),
	}
}

func TestGameRoundTrip(t *testing.T) {
	Convey("Given a store holding games across seasons", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		So(store.UpsertGame(ctx, storedGame(3, 2023, 2, 1, 2, 28, 14)), ShouldBeNil)
		So(store.UpsertGame(ctx, storedGame(1, 2022, 10, 1, 3, 21, 17)), ShouldBeNil)
		So(store.UpsertGame(ctx, storedGame(2, 2023, 1, 2, 3, 10, 13)), ShouldBeNil)

		Convey("When all games are listed", func() {
			games, err := store.ListGames(ctx)
			So(err, ShouldBeNil)

			Convey("Then they come back in (season, week, id) order", func() {
				So(len(games), ShouldEqual, 3)
				So(games[0].ID, ShouldEqual, 1)
				So(games[1].ID, ShouldEqual, 2)
				So(games[2].ID, ShouldEqual, 3)
			})
		})

		Convey("When a game is fetched by id", func() {
			g, err := store.GetGame(ctx, 2)
			So(err, ShouldBeNil)
			So(g.Season, ShouldEqual, 2023)

			_, err = store.GetGame(ctx, 999)
			So(err, ShouldWrap, repository.ErrNotFound)
		})

		Convey("When an existing game is upserted again", func() {
			So(store.UpsertGame(ctx, storedGame(3, 2023, 2, 1, 2, 35, 14)), ShouldBeNil)

			n, err := store.CountGames(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)

			g, err := store.GetGame(ctx, 3)
			So(err, ShouldBeNil)
			So(*g.HomeScore, ShouldEqual, 35)
		})

		Convey("When team ids are listed", func() {
			ids, err := store.TeamIDs(ctx)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []int{1, 2, 3})
		})
	})
}

func TestTeamViews(t *testing.T) {
	Convey("Given a team's season with an unplayed game", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		So(store.UpsertGame(ctx, storedGame(1, 2023, 1, 1, 2, 24, 10)), ShouldBeNil)
		So(store.UpsertGame(ctx, storedGame(2, 2023, 2, 3, 1, 20, 27)), ShouldBeNil)
		So(store.UpsertGame(ctx, storedGame(3, 2023, 3, 1, 4, 31, 28)), ShouldBeNil)
		// scheduled, not yet played
		So(store.UpsertGame(ctx, model.Game{ID: 4, Season: 2023, Week: 4, HomeTeamID: 1, AwayTeamID: 5}), ShouldBeNil)

		Convey("When games before week 3 are fetched", func() {
			views, err := store.TeamGamesBefore(ctx, 1, 2023, 3)
			So(err, ShouldBeNil)

			Convey("Then only earlier weeks appear, most recent first", func() {
				So(len(views), ShouldEqual, 2)
				So(views[0].Week, ShouldEqual, 2)
				So(views[0].Home, ShouldBeFalse)
				So(views[0].PointsScored, ShouldEqual, 27)
				So(views[1].Week, ShouldEqual, 1)
			})
		})

		Convey("When the season tail is fetched", func() {
			views, err := store.TeamSeasonTail(ctx, 1, 2023, 2)
			So(err, ShouldBeNil)

			Convey("Then the unplayed game is excluded", func() {
				So(len(views), ShouldEqual, 2)
				So(views[0].Week, ShouldEqual, 3)
				So(views[1].Week, ShouldEqual, 2)
			})
		})
	})
}

func TestSnapshotLookup(t *testing.T) {
	Convey("Given snapshots across two seasons", t, func() {
		store := repository.NewMemStore()
		ctx := context.Background()
		put := func(season, week int, rating float64) {
			So(store.PutSnapshot(ctx, rolling.Snapshot{
				TeamID: 1, Season: season, Week: week, Rating: rating,
			}), ShouldBeNil)
		}
		put(2022, 12, 1540)
		put(2023, 3, 1550)
		put(2023, 5, 1575)

		Convey("When the snapshot entering week 5 is fetched", func() {
			snap, ok, err := store.LatestSnapshotFor(ctx, 1, 2023, 5)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(snap.Week, ShouldEqual, 5)
		})

		Convey("When the week falls between stored snapshots", func() {
			snap, ok, err := store.LatestSnapshotFor(ctx, 1, 2023, 4)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(snap.Week, ShouldEqual, 3)
		})

		Convey("When no current-season snapshot exists yet", func() {
			snap, ok, err := store.LatestSnapshotFor(ctx, 1, 2023, 1)

			Convey("Then the prior-season snapshot is used", func() {
				So(err, ShouldBeNil)
				So(ok, ShouldBeTrue)
				So(snap.Season, ShouldEqual, 2022)
				So(snap.Week, ShouldEqual, 12)
			})
		})

		Convey("When the team has no snapshots at all", func() {
			_, ok, err := store.LatestSnapshotFor(ctx, 42, 2023, 5)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("When a snapshot is replaced", func() {
			put(2023, 3, 1560)
			snap, ok, err := store.LatestSnapshotFor(ctx, 1, 2023, 4)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(snap.Rating, ShouldEqual, 1560)

			n, err := store.CountSnapshots(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 3)
		})
	})
}
