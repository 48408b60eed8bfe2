package tasks

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher runs fire-and-forget work. Outcomes are observed only by the
// logging sink; callers never wait on a task. Wait exists so a shutting-down
// server can drain in-flight notifications before exiting.
type Dispatcher struct {
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher whose tasks are bounded by timeout
func NewDispatcher(logger *zap.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		timeout: timeout,
	}
}

// Go runs fn on its own goroutine with a bounded context. Errors are logged
// under the task name and otherwise dropped.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			d.logger.Warn("background task failed",
				zap.String("task", name),
				zap.Error(err))
			return
		}
		d.logger.Debug("background task completed", zap.String("task", name))
	}()
}

// Wait blocks until running tasks finish or ctx expires
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
