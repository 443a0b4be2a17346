package schedule

import (
	"context"
	"fmt"
	"sync"

	"deskwise/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler drives RunDueSchedules from a cron entry inside the API process.
type Scheduler struct {
	service ScheduleService
	cfg     *config.Config
	logger  *zap.Logger

	cron *cron.Cron
	mu   sync.Mutex
}

func NewScheduler(service ScheduleService, cfg *config.Config, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		service: service,
		cfg:     cfg,
		logger:  logger.Named("scheduler"),
	}
}

// InitializeScheduler registers the sweep under SchedulerSpec and starts the
// cron runner. Overlapping sweeps are skipped rather than queued.
func (s *Scheduler) InitializeScheduler(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already running")
	}

	cronLog := cronLogger{s.logger.Sugar()}
	c := cron.New(cron.WithLogger(cronLog), cron.WithChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	))
	if _, err := c.AddFunc(s.cfg.SchedulerSpec, s.Sweep); err != nil {
		return fmt.Errorf("invalid scheduler spec %q: %w", s.cfg.SchedulerSpec, err)
	}

	s.logger.Info("starting report scheduler", zap.String("spec", s.cfg.SchedulerSpec))
	c.Start()
	s.cron = c
	return nil
}

// StopScheduler stops new sweeps and waits for a running one to finish or ctx to end.
func (s *Scheduler) StopScheduler(ctx context.Context) error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c == nil {
		return nil
	}
	select {
	case <-c.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sweep runs one bounded pass over the due schedules.
func (s *Scheduler) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SchedulerSweepTimeout)
	defer cancel()

	if _, err := s.service.RunDueSchedules(ctx); err != nil {
		s.logger.Error("schedule sweep failed", zap.Error(err))
	}
}

// cronLogger routes robfig/cron's logging through zap.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
