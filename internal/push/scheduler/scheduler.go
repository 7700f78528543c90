package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"notify-backend/internal/push/domain"
	"notify-backend/pkg/apperror"
	"notify-backend/pkg/events"
	"notify-backend/pkg/metrics"
	"notify-backend/pkg/zlog"

	"go.uber.org/zap"
)

const (
	StateIdle    = "idle"
	StateRunning = "running"
)

// CycleRunner executes one broadcast cycle
type CycleRunner interface {
	RunCycle(ctx context.Context) (domain.CycleReport, error)
}

// Status is a snapshot of the scheduler for the admin endpoint
type Status struct {
	State        string              `json:"state"`
	Scheduled    bool                `json:"scheduled"`
	Interval     string              `json:"interval"`
	SkippedTicks int64               `json:"skipped_ticks"`
	LastCycle    *domain.CycleReport `json:"last_cycle,omitempty"`
}

// BroadcastScheduler fires broadcast cycles on a fixed interval with at most
// one cycle in flight. A tick that arrives while a cycle runs is skipped.
type BroadcastScheduler struct {
	runner    CycleRunner
	interval  time.Duration
	metrics   *metrics.Metrics
	publisher events.Publisher

	running   atomic.Bool
	scheduled atomic.Bool
	skipped   atomic.Int64

	mu   sync.RWMutex
	last *domain.CycleReport

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewBroadcastScheduler creates a new scheduler. publisher and m may be nil.
func NewBroadcastScheduler(runner CycleRunner, interval time.Duration, m *metrics.Metrics, publisher events.Publisher) *BroadcastScheduler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &BroadcastScheduler{
		runner:    runner,
		interval:  interval,
		metrics:   m,
		publisher: publisher,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the scheduler loop. Cycles run with ctx, which should outlive Stop.
func (s *BroadcastScheduler) Start(ctx context.Context) {
	if !s.scheduled.CompareAndSwap(false, true) {
		return
	}
	select {
	case <-s.stopChan:
		s.scheduled.Store(false)
		return
	default:
	}

	zlog.Info("[Broadcast] Starting broadcast scheduler", zap.Duration("interval", s.interval))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.tick(ctx)
			case <-s.stopChan:
				zlog.Info("[Broadcast] Scheduler stopped")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight cycle to finish.
// A stopped scheduler cannot be started again.
func (s *BroadcastScheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	s.scheduled.Store(false)
}

// RunOnce runs a cycle now under the same guard as the timer.
// It returns a conflict error when a cycle is already running.
func (s *BroadcastScheduler) RunOnce(ctx context.Context) (domain.CycleReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return domain.CycleReport{}, apperror.Conflict("broadcast cycle already running")
	}
	return s.execute(ctx)
}

// Status returns the current state, skipped tick count and last report
func (s *BroadcastScheduler) Status() Status {
	st := Status{
		State:        StateIdle,
		Scheduled:    s.scheduled.Load(),
		Interval:     s.interval.String(),
		SkippedTicks: s.skipped.Load(),
	}
	if s.running.Load() {
		st.State = StateRunning
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last != nil {
		last := *s.last
		st.LastCycle = &last
	}
	return st
}

func (s *BroadcastScheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		n := s.skipped.Add(1)
		s.metrics.RecordSkippedTick()
		zlog.Warn("[Broadcast] Previous cycle still running, tick skipped", zap.Int64("skipped_total", n))
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_, _ = s.execute(ctx)
	}()
}

// execute runs a cycle; the caller must already hold the running flag.
// The flag is released whatever the cycle does, panics included.
func (s *BroadcastScheduler) execute(ctx context.Context) (report domain.CycleReport, err error) {
	s.metrics.SetRunning(true)
	started := time.Now()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("broadcast cycle panicked: %v", r)
			report = domain.CycleReport{
				StartedAt:  started,
				FinishedAt: time.Now(),
				Outcome:    domain.OutcomePanicked,
				Error:      err.Error(),
			}
			zlog.Error("[Broadcast] Cycle panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		s.finish(ctx, report)
	}()

	report, err = s.runner.RunCycle(ctx)
	if err != nil {
		zlog.Error("[Broadcast] Cycle failed", zap.String("outcome", string(report.Outcome)), zap.Error(err))
	}
	return report, err
}

func (s *BroadcastScheduler) finish(ctx context.Context, report domain.CycleReport) {
	if report.Outcome == "" {
		report.Outcome = domain.OutcomeFailed
	}

	s.mu.Lock()
	s.last = &report
	s.mu.Unlock()

	s.running.Store(false)
	s.metrics.SetRunning(false)
	s.metrics.RecordCycle(string(report.Outcome), report.Duration())

	if err := s.publisher.Publish(ctx, events.TypeBroadcastCycleCompleted, report); err != nil {
		zlog.Warn("[Broadcast] Failed to publish cycle event", zap.Error(err))
	}
}
