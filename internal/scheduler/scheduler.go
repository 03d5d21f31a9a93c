package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"StockLens/internal/config"
)

// Refresher reloads a cached snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages the background cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Directory Refresher
	Ctx       context.Context
	Timeout   time.Duration

	logger *zap.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, dir Refresher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		Cron:      cron.New(cron.WithParser(config.CronParser)),
		Directory: dir,
		Ctx:       ctx,
		Timeout:   2 * time.Minute,
		logger:    logger,
	}
}

// RegisterAll registers the directory prewarm. An empty expression
// disables it.
func (s *Scheduler) RegisterAll(directoryCron string) error {
	if directoryCron == "" {
		s.logger.Info("directory prewarm disabled")
		return nil
	}
	if _, err := s.Cron.AddFunc(directoryCron, s.directoryTask); err != nil {
		return fmt.Errorf("register directory task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.Cron.Entries())))
}

// Stop stops the cron scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

// RunDirectoryNow executes the prewarm immediately (PREWARM_ON_START).
func (s *Scheduler) RunDirectoryNow() {
	s.directoryTask()
}

func (s *Scheduler) directoryTask() {
	ctx, cancel := context.WithTimeout(s.Ctx, s.Timeout)
	defer cancel()

	started := time.Now()
	if err := s.Directory.Refresh(ctx); err != nil {
		s.logger.Error("directory refresh failed", zap.Error(err))
		return
	}
	s.logger.Info("directory refreshed", zap.Duration("took", time.Since(started)))
}
