package dedupe_test

import (
	"context"
	"sync"
	"testing"

	"github.com/gridironlab/pigskin/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSeenAndRecord(t *testing.T) {
	Convey("Given a fresh deduper", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		Convey("When a game ID is recorded twice", func() {
			first := d.SeenAndRecord(ctx, 401520281)
			second := d.SeenAndRecord(ctx, 401520281)

			Convey("Then only the first record reports unseen", func() {
				So(first, ShouldBeFalse)
				So(second, ShouldBeTrue)
				So(d.Size(), ShouldEqual, 1)
			})
		})

		Convey("When an unrecorded ID is re-ingested", func() {
			So(d.SeenAndRecord(ctx, 7), ShouldBeFalse)
			d.Unrecord(ctx, 7)

			Convey("Then it is treated as new again", func() {
				So(d.SeenAndRecord(ctx, 7), ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestBoundedEviction(t *testing.T) {
	Convey("Given a deduper bounded to 3 IDs", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(3))
		ctx := context.Background()
		for id := 1; id <= 3; id++ {
			So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
		}

		Convey("When a fourth ID arrives", func() {
			So(d.SeenAndRecord(ctx, 4), ShouldBeFalse)

			Convey("Then the oldest ID is forgotten", func() {
				So(d.Size(), ShouldEqual, 3)
				So(d.SeenAndRecord(ctx, 1), ShouldBeFalse)
				So(d.SeenAndRecord(ctx, 3), ShouldBeTrue)
			})
		})
	})
}

func TestUnboundedMode(t *testing.T) {
	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0))
		ctx := context.Background()

		Convey("When many IDs are recorded", func() {
			for id := 0; id < 1000; id++ {
				So(d.SeenAndRecord(ctx, id), ShouldBeFalse)
			}

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 1000)
				So(d.SeenAndRecord(ctx, 0), ShouldBeTrue)
			})
		})
	})
}

func TestConcurrentRecording(t *testing.T) {
	Convey("Given many goroutines racing on the same ID set", t, func() {
		d := dedupe.NewInMemoryDeduper()
		ctx := context.Background()

		var wg sync.WaitGroup
		var newlySeen sync.Map
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for id := 0; id < 100; id++ {
					if !d.SeenAndRecord(ctx, id) {
						newlySeen.Store(id, struct{}{})
					}
				}
			}()
		}
		wg.Wait()

		Convey("Then each ID is newly recorded exactly once", func() {
			So(d.Size(), ShouldEqual, 100)
			count := 0
			newlySeen.Range(func(_, _ any) bool {
				count++
				return true
			})
			So(count, ShouldEqual, 100)
		})
	})
}
