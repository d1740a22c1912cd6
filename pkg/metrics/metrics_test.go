package metrics_test

import (
	"testing"

	"github.com/gridironlab/pigskin/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a fresh registry", t, func() {
		reg := prometheus.NewRegistry()

		Convey("When creating a manager with options", func() {
			m := metrics.NewManager(
				metrics.WithRegistry(reg),
				metrics.WithNamespace("test"),
				metrics.WithSubsystem("core"),
				metrics.WithHistogramBuckets([]float64{1, 5, 10}),
			)

			Convey("Then it should register its metrics on the registry", func() {
				So(m, ShouldNotBeNil)
				families, err := reg.Gather()
				So(err, ShouldBeNil)
				// Gauges register eagerly; counters appear after first use,
				// so only assert the registry is populated.
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording pipeline events", func() {
			So(func() {
				metrics.RecordGameProcessed()
				metrics.RecordGameSkipped("tied_score")
				metrics.RecordRatingUpdate()
				metrics.RecordSnapshotBuilt()
				metrics.RecordSnapshotNeutral()
				metrics.RecordSnapshotBuildLatency(1.5)
				metrics.RecordPartialMetricGame()
				metrics.RecordFeatureVector()
				metrics.RecordInsufficientHistory()
				metrics.RecordQueueEnqueue()
				metrics.RecordQueueDequeue()
				metrics.RecordQueueEnqueueError()
				metrics.UpdateQueueSize(3)
				metrics.UpdateQueueCapacity(100)
				metrics.UpdateQueueUtilization(0.03)
				metrics.UpdateWorkerCount(4)
				metrics.RecordWorkerProcessingLatency(2.0)
				metrics.RecordWorkerError()
				metrics.UpdateTeamsTracked(12)
				metrics.RecordErrorByComponent("worker", "snapshot_error")
				metrics.RecordPassDuration(0.25)
			}, ShouldNotPanic)
		})

		Convey("Then the custom registry should gather without error", func() {
			families, err := metrics.Registry().Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})
	})
}
