package scheduler

import (
	"context"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/staticimport/swa/internal/fares"
)

// Cycler runs one poll over every trip.
type Cycler interface {
	RunCycle(ctx context.Context) fares.CycleReport
}

// Scheduler periodically polls fares for every configured trip. Cycles
// never overlap, so each trip sees its updates in order.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cycler    Cycler
	interval  time.Duration
	jitter    time.Duration
	timeout   time.Duration
	ctx       context.Context
	cancel    context.CancelFunc
	cycles    atomic.Int64
	logger    *slog.Logger
}

// New creates a new Scheduler. Before every cycle but the first it waits a
// random extra delay of up to jitter.
func New(cycler Cycler, interval, jitter, timeout time.Duration) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		scheduler: s,
		cycler:    cycler,
		interval:  interval,
		jitter:    jitter,
		timeout:   timeout,
		ctx:       ctx,
		cancel:    cancel,
		logger:    slog.Default().With("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	interval := s.interval
	if interval <= 0 {
		interval = time.Minute
	}

	_, err := s.scheduler.Every(interval).Do(s.runJob)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Cycles reports how many cycles have completed.
func (s *Scheduler) Cycles() int64 {
	return s.cycles.Load()
}

func (s *Scheduler) runJob() {
	if s.cycles.Load() > 0 && s.jitter > 0 {
		wait := time.Duration(rand.Int63n(int64(s.jitter)))
		s.logger.Info("waiting before next poll", "delay", wait)
		select {
		case <-s.ctx.Done():
			return
		case <-time.After(wait):
		}
	}

	timeout := s.timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	s.logger.Info("polling fares")
	report := s.cycler.RunCycle(ctx)
	n := s.cycles.Add(1)
	s.logger.Info("poll complete", "cycle", n, "trips", report.Polled,
		"failed", report.Failed, "alerts", report.Alerts)
}

// Stop cancels any in-flight cycle and stops future ones.
func (s *Scheduler) Stop() {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
