package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/gridironlab/pigskin/internal/adapters/mq/queue"
	. "github.com/smartystreets/goconvey/convey"
)

func TestEnqueueDequeue(t *testing.T) {
	Convey("Given a bounded queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(4))
		ctx := context.Background()

		Convey("When jobs are enqueued and dequeued", func() {
			So(q.Enqueue(ctx, queue.Job{TeamID: 1, Season: 2023, Week: 5}), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{TeamID: 2, Season: 2023, Week: 5}), ShouldBeTrue)
			So(q.Len(ctx), ShouldEqual, 2)
			So(q.Close(), ShouldBeNil)

			var got []queue.Job
			for j := range q.Dequeue(ctx) {
				got = append(got, j)
			}

			Convey("Then jobs arrive in order and the channel closes after drain", func() {
				So(len(got), ShouldEqual, 2)
				So(got[0].TeamID, ShouldEqual, 1)
				So(got[1].TeamID, ShouldEqual, 2)
			})
		})
	})
}

func TestQueueFull(t *testing.T) {
	Convey("Given a queue at capacity", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(1))
		ctx := context.Background()
		So(q.Enqueue(ctx, queue.Job{TeamID: 1}), ShouldBeTrue)

		Convey("When another job is offered", func() {
			ok := q.Enqueue(ctx, queue.Job{TeamID: 2})

			Convey("Then it is rejected instead of blocking", func() {
				So(ok, ShouldBeFalse)
				So(q.Len(ctx), ShouldEqual, 1)
			})
		})
	})
}

func TestQueueClose(t *testing.T) {
	Convey("Given a closed queue", t, func() {
		q := queue.NewInMemoryQueue()
		ctx := context.Background()
		So(q.Close(), ShouldBeNil)

		Convey("Then further enqueues are rejected", func() {
			So(q.IsClosed(), ShouldBeTrue)
			So(q.Enqueue(ctx, queue.Job{TeamID: 1}), ShouldBeFalse)
		})

		Convey("Then closing again is harmless", func() {
			So(q.Close(), ShouldBeNil)
		})
	})
}

func TestDequeueRespectsContext(t *testing.T) {
	Convey("Given a consumer with a cancelled context", t, func() {
		q := queue.NewInMemoryQueue()
		ctx, cancel := context.WithCancel(context.Background())

		ch := q.Dequeue(ctx)
		So(q.Enqueue(context.Background(), queue.Job{TeamID: 1}), ShouldBeTrue)
		<-ch
		cancel()

		Convey("When more jobs arrive after cancellation", func() {
			So(q.Enqueue(context.Background(), queue.Job{TeamID: 2}), ShouldBeTrue)

			Convey("Then the consumer channel closes", func() {
				deadline := time.After(time.Second)
				for open := true; open; {
					select {
					case _, ok := <-ch:
						open = ok
					case <-deadline:
						t.Fatal("dequeue channel did not close")
					}
				}
			})
		})
	})
}
