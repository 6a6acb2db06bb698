package services

import (
	"context"
	"sync"
	"time"

	"breakd/internal/models"
	"breakd/internal/providers"
	"breakd/internal/scheduler"
	"breakd/internal/storage"
	"breakd/internal/structures"
)

type StatsServiceInterface interface {
	Record(ctx context.Context, game models.GameType, took time.Duration) (*models.BreakStats, error)
	Get(ctx context.Context) (*models.BreakStats, error)
	Reset(ctx context.Context) error
}

// StatsService owns the breakStats key. Its own lock makes each
// read-modify-write atomic without touching the scheduler's.
type StatsService struct {
	mu      sync.Mutex
	repo    storage.SettingsRepositoryInterface
	clock   scheduler.Clock
	timeout time.Duration
	logger  providers.Logger
}

func NewStatsService(conf *structures.Config, repo storage.SettingsRepositoryInterface, clock scheduler.Clock, logger providers.Logger) StatsServiceInterface {
	timeout := conf.Scheduler.StoreTimeout
	if timeout <= 0 {
		timeout = structures.DefaultStoreTimeout
	}
	return &StatsService{
		repo:    repo,
		clock:   clock,
		timeout: timeout,
		logger:  logger,
	}
}

func (s *StatsService) Record(ctx context.Context, game models.GameType, took time.Duration) (*models.BreakStats, error) {
	if _, err := models.ParseGameType(string(game)); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.repo.LoadStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Record(game, took, s.clock.Now())
	if err := s.repo.SaveStats(ctx, stats); err != nil {
		return nil, err
	}
	s.logger.Debugf(providers.TypeStore, "Recorded %s break, total %d, streak %d", game, stats.TotalBreaks, stats.CurrentStreak)
	return stats, nil
}

func (s *StatsService) Get(ctx context.Context) (*models.BreakStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.repo.LoadStats(ctx)
}

func (s *StatsService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.RemoveStats(ctx); err != nil {
		return err
	}
	s.logger.Infof(providers.TypeStore, "Statistics reset")
	return nil
}
