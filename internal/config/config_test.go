package config_test

import (
	"testing"

	"github.com/gridironlab/pigskin/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewDefaults(t *testing.T) {
	Convey("Given a default config", t, func() {
		cfg := config.New()

		Convey("Then rating tunables match the historical model", func() {
			So(cfg.BaseRating, ShouldEqual, 1500)
			So(cfg.KFactor, ShouldEqual, 32)
			So(cfg.HomeAdvantage, ShouldEqual, 65)
			So(cfg.CarryoverFraction, ShouldEqual, 0.75)
			So(cfg.MultiplierCap, ShouldEqual, 3.0)
			So(cfg.UpsetBonus, ShouldEqual, 1.2)
		})

		Convey("Then rolling-stats tunables match the feature contract", func() {
			So(cfg.ShortWindow, ShouldEqual, 3)
			So(cfg.LongWindow, ShouldEqual, 5)
			So(cfg.PriorSeasonDecay, ShouldEqual, 0.7)
			So(cfg.MinGames, ShouldEqual, 2)
		})

		Convey("Then operational defaults are sane", func() {
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.WorkerCount, ShouldBeGreaterThan, 0)
			So(cfg.JobQueueSize, ShouldBeGreaterThan, 0)
			So(cfg.PostgresDSN, ShouldBeEmpty)
		})
	})
}
