package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/osse101/CaseVault_Go/internal/metrics"
	"github.com/osse101/CaseVault_Go/internal/worker"
)

// Enqueuer accepts jobs without blocking and reports whether the job was queued
type Enqueuer interface {
	Enqueue(job worker.Job) bool
}

// Option adjusts a single scheduled entry
type Option func(*entry)

// RunAtStart queues the job once as soon as it is scheduled
func RunAtStart() Option {
	return func(e *entry) { e.atStart = true }
}

type entry struct {
	name     string
	interval time.Duration
	job      worker.Job
	atStart  bool
}

// Scheduler feeds jobs to a worker pool on fixed intervals
type Scheduler struct {
	queue  Enqueuer
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a scheduler that queues onto q
func New(q Enqueuer) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{queue: q, ctx: ctx, cancel: cancel}
}

// Schedule runs job every interval until Stop. A tick that finds the queue full is dropped.
func (s *Scheduler) Schedule(interval time.Duration, job worker.Job, opts ...Option) {
	e := entry{name: worker.JobName(job), interval: interval, job: job}
	for _, opt := range opts {
		opt(&e)
	}
	if e.interval <= 0 {
		slog.Warn(LogMsgInvalidInterval, "job", e.name, "interval", e.interval)
		return
	}
	if s.ctx.Err() != nil {
		return
	}

	if e.atStart {
		s.tick(e)
	}
	s.wg.Add(1)
	go s.loop(e)
}

func (s *Scheduler) loop(e entry) {
	defer s.wg.Done()
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.tick(e)
		}
	}
}

func (s *Scheduler) tick(e entry) {
	if s.queue.Enqueue(e.job) {
		return
	}
	metrics.ScheduledTicksSkipped.WithLabelValues(e.name).Inc()
	slog.Warn(LogMsgTickSkipped, "job", e.name)
}

// Stop ends every schedule and waits for the tick loops to exit. Jobs already queued are left
// to the pool.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
