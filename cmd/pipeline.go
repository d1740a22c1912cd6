package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/gridironlab/pigskin/internal/adapters/repository"
	service "github.com/gridironlab/pigskin/internal/app"
	"github.com/gridironlab/pigskin/internal/config"
	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rating"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
	"github.com/gridironlab/pigskin/pkg/logger"
)

// newPipeline loads config, opens the configured store and starts a
// service with the feed from --games ingested.
func newPipeline(ctx context.Context) (*service.Service, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		return nil, err
	}

	opts := []service.Option{
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.JobQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithRatingOptions(
			rating.WithBaseRating(cfg.BaseRating),
			rating.WithKFactor(cfg.KFactor),
			rating.WithHomeAdvantage(cfg.HomeAdvantage),
			rating.WithCarryoverFraction(cfg.CarryoverFraction),
			rating.WithMultiplierCap(cfg.MultiplierCap),
			rating.WithUpsetBonus(cfg.UpsetBonus),
		),
		service.WithRollingOptions(
			rolling.WithWindows(cfg.ShortWindow, cfg.LongWindow),
			rolling.WithPriorSeasonDecay(cfg.PriorSeasonDecay),
			rolling.WithMinGames(cfg.MinGames),
			rolling.WithGapThreshold(cfg.GapThreshold),
		),
	}

	if cfg.PostgresDSN != "" {
		store, err := repository.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			return nil, err
		}
		opts = append(opts, service.WithStore(store))
	}

	svc := service.New(opts...)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}

	if gamesFile != "" {
		games, err := readGamesFile(gamesFile)
		if err != nil {
			svc.Stop()
			return nil, err
		}
		report, err := svc.IngestGames(ctx, games)
		if err != nil {
			svc.Stop()
			return nil, err
		}
		logger.Get().Info(ctx, "ingested games file",
			logger.String("path", gamesFile),
			logger.Int("ingested", report.Ingested),
			logger.Int("duplicates", report.Duplicates),
		)
	}

	return svc, nil
}

func readGamesFile(path string) ([]model.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading games file: %w", err)
	}
	var games []model.Game
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parsing games file %s: %w", path, err)
	}
	return games, nil
}
