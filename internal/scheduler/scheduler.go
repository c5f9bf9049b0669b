package scheduler

import (
	"context"
	"time"

	"github.com/fakhrymubarak/skycast/internal/config"
	"github.com/fakhrymubarak/skycast/internal/model"
	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// LocationRefresher is the part of the location service the scheduler drives.
type LocationRefresher interface {
	LoadCachedLocation(ctx context.Context) (*model.Location, bool, error)
	RefreshCurrent(ctx context.Context, loc model.Location) (*model.CurrentConditions, error)
}

// Scheduler periodically refreshes the ambient weather snapshot of the persisted location.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher LocationRefresher
	interval  time.Duration
	logger    *zap.SugaredLogger
}

// New creates a new Scheduler.
func New(refresher LocationRefresher, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		refresher: refresher,
		interval:  interval,
		logger:    config.GetLogger(),
	}
}

// Start schedules the refresh job, runs it once immediately and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.RunOnce)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// RunOnce refreshes the snapshot for the cached location. Without one it does nothing.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	loc, ok, err := s.refresher.LoadCachedLocation(ctx)
	if err != nil {
		s.logger.Errorw("scheduler: failed to load cached location", "error", err)
		return
	}
	if !ok {
		s.logger.Debugw("scheduler: no cached location; nothing to refresh")
		return
	}

	current, err := s.refresher.RefreshCurrent(ctx, *loc)
	if err != nil {
		s.logger.Warnw("scheduler: refresh failed", "location", loc.Name, "error", err)
		return
	}
	s.logger.Infow("scheduler: refreshed current conditions", "location", loc.Name, "temperature", current.Temperature)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
