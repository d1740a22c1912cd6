package logger_test

import (
	"context"
	"testing"

	"github.com/gridironlab/pigskin/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given an initialized global logger", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("Then Get returns a usable logger", func() {
			l := logger.Get()
			So(l, ShouldNotBeNil)
			So(func() {
				l.Info(context.Background(), "hello", logger.Int("n", 1))
			}, ShouldNotPanic)
		})

		Convey("Then Named returns a grouped sub-logger", func() {
			l := logger.Named("rating")
			So(l, ShouldNotBeNil)
			So(func() {
				l.Debug(context.Background(), "fold step", logger.String("team", "x"))
			}, ShouldNotPanic)
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given the level parser", t, func() {
		So(logger.Init(), ShouldBeNil)

		Convey("When passed known levels", func() {
			for _, lvl := range []string{"debug", "info", "warn", "warning", "error", ""} {
				So(logger.SetLevelString(lvl), ShouldBeNil)
			}
		})

		Convey("When passed an unknown level", func() {
			So(logger.SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}
