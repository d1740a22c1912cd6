package features_test

import (
	"context"
	"testing"

	"github.com/gridironlab/pigskin/internal/domain/features"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
	. "github.com/smartystreets/goconvey/convey"
)

type snapKey struct {
	teamID int
	season int
}

type fakeSnapshots struct {
	snaps map[snapKey][]rolling.Snapshot // ascending by week
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{snaps: make(map[snapKey][]rolling.Snapshot)}
}

func (f *fakeSnapshots) add(s rolling.Snapshot) {
	k := snapKey{s.TeamID, s.Season}
	f.snaps[k] = append(f.snaps[k], s)
}

func (f *fakeSnapshots) LatestSnapshotFor(_ context.Context, teamID, season, week int) (rolling.Snapshot, bool, error) {
	vs := f.snaps[snapKey{teamID, season}]
	for i := len(vs) - 1; i >= 0; i-- {
		if vs[i].Week <= week {
			return vs[i], true, nil
		}
	}
	return rolling.Snapshot{}, false, nil
}

func snap(teamID, season, week int, rating, ppg float64) rolling.Snapshot {
	s := rolling.Snapshot{TeamID: teamID, Season: season, Week: week, Rating: rating}
	s.Long.PPG = ppg
	s.Short.PPG = ppg
	return s
}

func TestAssemble(t *testing.T) {
	Convey("Given snapshots for both sides of a matchup", t, func() {
		source := newFakeSnapshots()
		source.add(snap(1, 2023, 4, 1560, 31))
		source.add(snap(1, 2023, 6, 1580, 33))
		source.add(snap(2, 2023, 5, 1490, 24))
		asm := features.New(source)

		Convey("When the week-7 vector is assembled", func() {
			v, err := asm.Assemble(context.Background(), 1, 2, 2023, 7)
			So(err, ShouldBeNil)

			Convey("Then each side carries its latest prior snapshot", func() {
				So(v.Home.Week, ShouldEqual, 6)
				So(v.Home.Rating, ShouldEqual, 1580)
				So(v.Away.Week, ShouldEqual, 5)
				So(v.Away.Rating, ShouldEqual, 1490)
			})

			Convey("Then differentials are home minus away", func() {
				So(v.RatingDiff(), ShouldEqual, 90)
			})
		})

		Convey("When the week-5 vector is assembled", func() {
			v, err := asm.Assemble(context.Background(), 1, 2, 2023, 5)

			Convey("Then the snapshot entering week 5 itself qualifies", func() {
				So(err, ShouldBeNil)
				So(v.Home.Week, ShouldEqual, 4)
				So(v.Away.Week, ShouldEqual, 5)
			})
		})
	})
}

func TestAssembleInsufficientHistory(t *testing.T) {
	Convey("Given a snapshot for only one side", t, func() {
		source := newFakeSnapshots()
		source.add(snap(1, 2023, 4, 1560, 31))
		asm := features.New(source)

		Convey("When the opponent has never been snapshotted", func() {
			_, err := asm.Assemble(context.Background(), 1, 42, 2023, 7)

			Convey("Then the matchup is rejected", func() {
				So(err, ShouldWrap, features.ErrInsufficientHistory)
			})
		})

		Convey("When the home side has no snapshot early enough", func() {
			_, err := asm.Assemble(context.Background(), 1, 1, 2023, 3)

			Convey("Then the matchup is rejected", func() {
				So(err, ShouldWrap, features.ErrInsufficientHistory)
			})
		})
	})
}

func TestSchemaStability(t *testing.T) {
	Convey("Given the flattened feature schema", t, func() {
		cols := features.Columns()

		Convey("Then rows align with columns one to one", func() {
			v := features.Vector{
				Home: snap(1, 2023, 4, 1560, 31),
				Away: snap(2, 2023, 4, 1500, 28),
			}
			So(len(v.Row()), ShouldEqual, len(cols))
		})

		Convey("Then every per-team column appears for home, away and diff", func() {
			So(len(cols)%3, ShouldEqual, 0)
			n := len(cols) / 3
			for i := 0; i < n; i++ {
				base := cols[i][len("home_"):]
				So(cols[n+i], ShouldEqual, "away_"+base)
				So(cols[2*n+i], ShouldEqual, "diff_"+base)
			}
		})

		Convey("Then diff values equal home minus away", func() {
			v := features.Vector{
				Home: snap(1, 2023, 4, 1560, 31),
				Away: snap(2, 2023, 4, 1500, 28),
			}
			row := v.Row()
			n := len(row) / 3
			for i := 0; i < n; i++ {
				So(row[2*n+i], ShouldAlmostEqual, row[i]-row[n+i], 1e-12)
			}
		})
	})
}
