package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridironlab/pigskin/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLoad(t *testing.T) {
	Convey("Given a clean environment", t, func() {
		os.Unsetenv("PIGSKIN_CONFIG")

		Convey("When loading with no file and no env overrides", func() {
			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.KFactor, ShouldEqual, 32)
			So(cfg.ShortWindow, ShouldEqual, 3)
		})

		Convey("When an env override is present", func() {
			os.Setenv("PIGSKIN_K_FACTOR", "24")
			os.Setenv("PIGSKIN_LOG_LEVEL", "debug")
			defer func() {
				os.Unsetenv("PIGSKIN_K_FACTOR")
				os.Unsetenv("PIGSKIN_LOG_LEVEL")
			}()

			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.KFactor, ShouldEqual, 24)
			So(cfg.LogLevel, ShouldEqual, "debug")
		})

		Convey("When a YAML file is provided", func() {
			dir := t.TempDir()
			path := filepath.Join(dir, "pigskin.yaml")
			body := "home_advantage: 50\nprior_season_decay: 0.6\n"
			So(os.WriteFile(path, []byte(body), 0o600), ShouldBeNil)
			os.Setenv("PIGSKIN_CONFIG", path)
			defer os.Unsetenv("PIGSKIN_CONFIG")

			cfg, err := config.Load(context.Background())
			So(err, ShouldBeNil)
			So(cfg.HomeAdvantage, ShouldEqual, 50)
			So(cfg.PriorSeasonDecay, ShouldEqual, 0.6)
			// untouched keys keep their defaults
			So(cfg.CarryoverFraction, ShouldEqual, 0.75)
		})

		Convey("When the file path does not exist", func() {
			os.Setenv("PIGSKIN_CONFIG", "/nonexistent/pigskin.yaml")
			defer os.Unsetenv("PIGSKIN_CONFIG")

			_, err := config.Load(context.Background())
			So(err, ShouldNotBeNil)
		})

		Convey("When validation fails", func() {
			os.Setenv("PIGSKIN_SHORT_WINDOW", "9")
			defer os.Unsetenv("PIGSKIN_SHORT_WINDOW")

			_, err := config.Load(context.Background())
			So(err, ShouldNotBeNil)
		})
	})
}
