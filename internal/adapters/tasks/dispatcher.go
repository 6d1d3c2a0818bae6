// Package tasks runs deferred work on a fixed pool of workers with
// at-least-once, retried execution.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/metrics"
)

const (
	queueSizePerWorker = 64
	defaultBaseDelay   = 500 * time.Millisecond
	maxDelay           = 30 * time.Second
)

// Dispatcher queues tasks and executes them on Run's workers. Handlers must be
// registered before Run is called.
type Dispatcher struct {
	logger      *slog.Logger
	metrics     *metrics.Metrics
	workers     int
	maxAttempts int
	baseDelay   time.Duration

	handlers map[string]domain.TaskHandler
	queue    chan domain.Task
}

var _ domain.TaskDispatcher = (*Dispatcher)(nil)

// NewDispatcher returns a dispatcher with the given pool size and retry budget.
func NewDispatcher(logger *slog.Logger, workers, maxAttempts int, m *metrics.Metrics) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Dispatcher{
		logger:      logger.With("component", "tasks"),
		metrics:     m,
		workers:     workers,
		maxAttempts: maxAttempts,
		baseDelay:   defaultBaseDelay,
		handlers:    make(map[string]domain.TaskHandler),
		queue:       make(chan domain.Task, workers*queueSizePerWorker),
	}
}

// Handle registers the handler for tasks named name.
func (d *Dispatcher) Handle(name string, h domain.TaskHandler) {
	d.handlers[name] = h
}

// Dispatch enqueues t. It blocks while the queue is full and fails when ctx is
// done first or when no handler is registered for t.Name.
func (d *Dispatcher) Dispatch(ctx context.Context, t domain.Task) error {
	if _, ok := d.handlers[t.Name]; !ok {
		return fmt.Errorf("dispatch: no handler for task %q", t.Name)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	select {
	case d.queue <- t:
		d.logger.Debug("task queued", "task", t.Name, "task_id", t.ID)
		return nil
	case <-ctx.Done():
		return fmt.Errorf("dispatch %s: %w", t.Name, ctx.Err())
	}
}

// Run starts the workers and blocks until ctx is cancelled and every worker
// has finished its current task. Tasks still queued at shutdown are dropped.
func (d *Dispatcher) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for range d.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case t := <-d.queue:
					d.execute(ctx, t)
				}
			}
		}()
	}
	wg.Wait()
	if n := len(d.queue); n > 0 {
		d.logger.Warn("dropping queued tasks on shutdown", "count", n)
	}
	return nil
}

func (d *Dispatcher) execute(ctx context.Context, t domain.Task) {
	h := d.handlers[t.Name]
	logger := d.logger.With("task", t.Name, "task_id", t.ID)
	for attempt := 1; ; attempt++ {
		err := h(ctx, t)
		if err == nil {
			d.metrics.RecordTask(t.Name, metrics.TaskSucceeded)
			logger.Debug("task done", "attempt", attempt)
			return
		}
		if attempt >= d.maxAttempts || errors.Is(err, domain.ErrInvalidInput) {
			d.metrics.RecordTask(t.Name, metrics.TaskFailed)
			logger.Error("task failed", "attempt", attempt, "error", err)
			return
		}
		d.metrics.RecordTask(t.Name, metrics.TaskRetried)
		delay := d.backoff(attempt)
		logger.Warn("task failed, retrying", "attempt", attempt, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

// backoff doubles the base delay per failed attempt, capped at maxDelay.
func (d *Dispatcher) backoff(attempt int) time.Duration {
	delay := d.baseDelay << (attempt - 1)
	if delay <= 0 || delay > maxDelay {
		return maxDelay
	}
	return delay
}
