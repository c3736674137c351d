package results

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/hoops-league-service/internal/logging"
)

// DefaultRunTimeout bounds one scheduled run.
const DefaultRunTimeout = 2 * time.Minute

// SchedulerConfig places the daily run.
type SchedulerConfig struct {
	Hour       int
	Location   *time.Location
	Clock      clockwork.Clock
	RunTimeout time.Duration
}

// Scheduler runs a Reconciler once a day.
type Scheduler struct {
	sched      gocron.Scheduler
	job        gocron.Job
	reconciler *Reconciler
	logger     *slog.Logger
	timeout    time.Duration

	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler registers the daily job. Call Start to begin.
func NewScheduler(rec *Reconciler, cfg SchedulerConfig, logger *slog.Logger) (*Scheduler, error) {
	if cfg.Hour < 0 || cfg.Hour > 23 {
		return nil, fmt.Errorf("reconcile hour %d out of range", cfg.Hour)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}
	opts := []gocron.SchedulerOption{gocron.WithLocation(cfg.Location)}
	if cfg.Clock != nil {
		opts = append(opts, gocron.WithClock(cfg.Clock))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		sched:      sched,
		reconciler: rec,
		logger:     logger,
		timeout:    cfg.RunTimeout,
		ctx:        ctx,
		cancel:     cancel,
	}
	job, err := sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(uint(cfg.Hour), 0, 0))),
		gocron.NewTask(s.run),
		gocron.WithName("results-reconcile"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		_ = sched.Shutdown()
		return nil, fmt.Errorf("schedule reconcile: %w", err)
	}
	s.job = job
	return s, nil
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	if _, err := s.reconciler.Run(ctx, Options{}); err != nil {
		logging.Warn(s.logger, "scheduled results reconcile failed", "err", err)
	}
}

// Start begins scheduling.
func (s *Scheduler) Start() {
	s.sched.Start()
}

// RunNow triggers the job outside its schedule.
func (s *Scheduler) RunNow() error {
	return s.job.RunNow()
}

// Stop cancels a running reconcile and shuts the scheduler down.
func (s *Scheduler) Stop() error {
	s.cancel()
	return s.sched.Shutdown()
}
