// Package service wires the prediction pipeline together: game ingestion,
// the rating fold, the snapshot fan-out and feature assembly.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/gridironlab/pigskin/internal/adapters/mq/queue"
	workerpool "github.com/gridironlab/pigskin/internal/adapters/mq/worker"
	"github.com/gridironlab/pigskin/internal/adapters/repository"
	"github.com/gridironlab/pigskin/internal/domain/dedupe"
	"github.com/gridironlab/pigskin/internal/domain/features"
	"github.com/gridironlab/pigskin/internal/domain/model"
	"github.com/gridironlab/pigskin/internal/domain/rating"
	"github.com/gridironlab/pigskin/internal/domain/rolling"
	"github.com/gridironlab/pigskin/pkg/logger"
	"github.com/gridironlab/pigskin/pkg/metrics"
)

// IngestReport summarizes one ingestion batch.
type IngestReport struct {
	RunID      string
	Received   int
	Ingested   int
	Duplicates int
	Failed     int
}

// RatingReport summarizes one full rating pass.
type RatingReport struct {
	RunID    string
	Games    int
	Rated    int
	Skipped  []rating.Skipped
	Teams    int
	Duration time.Duration
}

// SnapshotReport summarizes one snapshot fan-out.
type SnapshotReport struct {
	RunID     string
	Teams     int
	Enqueued  int
	Dropped   int
	Snapshots int
	Duration  time.Duration
}

// Service runs the pipeline over a Store.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	deduper dedupe.Deduper
	engine  *rating.Engine

	timeline *rating.Timeline

	workerCount int
	queueSize   int
	dedupeSize  int
	ratingOpts  []rating.Option
	rollingOpts []rolling.Option

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the backing store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of snapshot workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the snapshot job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the ingestion dedupe cache size.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithRatingOptions forwards options to the rating engine.
func WithRatingOptions(opts ...rating.Option) Option {
	return func(s *Service) {
		s.ratingOpts = append(s.ratingOpts, opts...)
	}
}

// WithRollingOptions forwards options to the snapshot calculator.
func WithRollingOptions(opts ...rolling.Option) Option {
	return func(s *Service) {
		s.rollingOpts = append(s.rollingOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   10000,
		dedupeSize:  50000,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	if s.store == nil {
		s.store = repository.NewMemStore()
		s.logger.Info(ctx, "using in-memory store")
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.engine = rating.New(s.ratingOpts...)

	s.started = true
	s.logger.Info(ctx, "pipeline service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop shuts the service down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "pipeline service stopped")
}

func (s *Service) checkStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// IngestGames stores a batch of games, dropping duplicates by game id.
// A game that fails to persist is unrecorded so a retry can succeed.
func (s *Service) IngestGames(ctx context.Context, games []model.Game) (IngestReport, error) {
	if err := s.checkStarted(); err != nil {
		return IngestReport{}, err
	}

	report := IngestReport{
		RunID:    uuid.New().String(),
		Received: len(games),
	}
	for _, g := range games {
		if s.deduper.SeenAndRecord(ctx, g.ID) {
			report.Duplicates++
			metrics.RecordGameSkipped("duplicate")
			continue
		}
		if err := s.store.UpsertGame(ctx, g); err != nil {
			s.deduper.Unrecord(ctx, g.ID)
			report.Failed++
			metrics.RecordErrorByComponent("ingest", "store_error")
			s.logger.Error(ctx, "failed to store game",
				logger.Int("game_id", g.ID), logger.Error(err))
			continue
		}
		report.Ingested++
	}

	s.logger.Info(ctx, "ingested game batch",
		logger.String("run_id", report.RunID),
		logger.Int("received", report.Received),
		logger.Int("ingested", report.Ingested),
		logger.Int("duplicates", report.Duplicates),
		logger.Int("failed", report.Failed),
	)
	return report, nil
}

// RunRatings folds every stored game into a fresh rating timeline.
func (s *Service) RunRatings(ctx context.Context) (RatingReport, error) {
	if err := s.checkStarted(); err != nil {
		return RatingReport{}, err
	}

	start := time.Now()
	report := RatingReport{RunID: uuid.New().String()}

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return RatingReport{}, fmt.Errorf("loading games: %w", err)
	}
	report.Games = len(games)

	tl, err := s.engine.Compute(ctx, games)
	if err != nil {
		return RatingReport{}, fmt.Errorf("computing ratings: %w", err)
	}
	if len(tl.Entries()) == 0 {
		return RatingReport{}, rating.ErrNoGames
	}

	s.mu.Lock()
	s.timeline = tl
	s.mu.Unlock()

	report.Rated = len(tl.Entries())
	report.Skipped = tl.SkippedGames()
	report.Teams = tl.Teams()
	report.Duration = time.Since(start)

	for range tl.Entries() {
		metrics.RecordGameProcessed()
		metrics.RecordRatingUpdate()
	}
	for _, sk := range tl.SkippedGames() {
		metrics.RecordGameSkipped(skipReason(sk.Reason))
	}
	metrics.UpdateTeamsTracked(report.Teams)
	metrics.RecordPassDuration(report.Duration.Seconds())

	s.logger.Info(ctx, "rating pass complete",
		logger.String("run_id", report.RunID),
		logger.Int("games", report.Games),
		logger.Int("rated", report.Rated),
		logger.Int("skipped", len(report.Skipped)),
		logger.Int("teams", report.Teams),
	)
	return report, nil
}

// skipReason maps a skip error to a bounded metric label.
func skipReason(err error) string {
	switch {
	case errors.Is(err, model.ErrTiedScore):
		return "tied_score"
	case errors.Is(err, model.ErrMissingStats):
		return "missing_stats"
	default:
		return "invalid"
	}
}

// Timeline returns the most recent rating timeline, or ErrNoRatings when
// RunRatings has not succeeded yet.
func (s *Service) Timeline() (*rating.Timeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.timeline == nil {
		return nil, ErrNoRatings
	}
	return s.timeline, nil
}

// RunSnapshots fans out snapshot builds for every known team entering
// (season, week). Teams are independent, so jobs run on the worker pool.
func (s *Service) RunSnapshots(ctx context.Context, season, week int) (SnapshotReport, error) {
	if err := s.checkStarted(); err != nil {
		return SnapshotReport{}, err
	}
	tl, err := s.Timeline()
	if err != nil {
		return SnapshotReport{}, err
	}

	start := time.Now()
	report := SnapshotReport{RunID: uuid.New().String()}

	teamIDs, err := s.store.TeamIDs(ctx)
	if err != nil {
		return SnapshotReport{}, fmt.Errorf("listing teams: %w", err)
	}
	report.Teams = len(teamIDs)

	calc := rolling.New(s.store, tl, s.rollingOpts...)
	q := jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	pool := workerpool.NewPool(s.workerCount, q, calc, s.store)
	pool.Start(ctx)

	for _, teamID := range teamIDs {
		if q.Enqueue(ctx, jobqueue.Job{TeamID: teamID, Season: season, Week: week}) {
			report.Enqueued++
		} else {
			report.Dropped++
		}
	}
	if err := q.Close(); err != nil {
		return SnapshotReport{}, fmt.Errorf("closing job queue: %w", err)
	}
	if err := pool.Wait(ctx); err != nil {
		return SnapshotReport{}, fmt.Errorf("draining snapshot jobs: %w", err)
	}

	report.Snapshots, err = s.store.CountSnapshots(ctx)
	if err != nil {
		return SnapshotReport{}, fmt.Errorf("counting snapshots: %w", err)
	}
	report.Duration = time.Since(start)

	s.logger.Info(ctx, "snapshot pass complete",
		logger.String("run_id", report.RunID),
		logger.Int("season", season),
		logger.Int("week", week),
		logger.Int("teams", report.Teams),
		logger.Int("enqueued", report.Enqueued),
		logger.Int("dropped", report.Dropped),
	)
	return report, nil
}

// Recompute reruns ratings and then snapshots for every week of the given
// season up to and including toWeek. Week 1 snapshots fall back to prior
// seasons where history exists.
func (s *Service) Recompute(ctx context.Context, season, toWeek int) error {
	if _, err := s.RunRatings(ctx); err != nil {
		return err
	}
	for week := 1; week <= toWeek; week++ {
		if _, err := s.RunSnapshots(ctx, season, week); err != nil {
			return fmt.Errorf("snapshots for week %d: %w", week, err)
		}
	}
	return nil
}

// AssembleFeatures builds the matchup feature vector for a game entering
// (season, week).
func (s *Service) AssembleFeatures(ctx context.Context, homeTeamID, awayTeamID, season, week int) (features.Vector, error) {
	if err := s.checkStarted(); err != nil {
		return features.Vector{}, err
	}

	asm := features.New(s.store)
	v, err := asm.Assemble(ctx, homeTeamID, awayTeamID, season, week)
	if err != nil {
		if errors.Is(err, features.ErrInsufficientHistory) {
			metrics.RecordInsufficientHistory()
		}
		return features.Vector{}, err
	}
	metrics.RecordFeatureVector()
	return v, nil
}

// TopRatings returns the current top-n teams by rating.
func (s *Service) TopRatings(n int) ([]rating.TeamRating, error) {
	tl, err := s.Timeline()
	if err != nil {
		return nil, err
	}
	return tl.TopN(n), nil
}

// DedupeSize returns the number of game ids currently tracked.
func (s *Service) DedupeSize() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}
