package periodictask

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// PeriodicTask manages a background task that runs at regular intervals
type PeriodicTask struct {
	clock    clock.Clock
	interval time.Duration
	task     func(ctx context.Context)
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a new PeriodicTask instance. The task receives a context cancelled by Stop.
func New(clk clock.Clock, interval time.Duration, task func(ctx context.Context)) *PeriodicTask {
	if clk == nil {
		clk = clock.New()
	}
	return &PeriodicTask{
		clock:    clk,
		interval: interval,
		task:     task,
	}
}

// Start begins executing the task at the specified interval
func (pt *PeriodicTask) Start() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if pt.running || pt.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	pt.cancel = cancel
	pt.running = true

	// Created before Start returns so a mock clock advanced right after Start reaches it
	ticker := pt.clock.Ticker(pt.interval)

	pt.wg.Add(1)
	go func() {
		defer pt.wg.Done()
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				pt.task(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop terminates the periodic task execution and waits for a running task to return
func (pt *PeriodicTask) Stop() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.running {
		return
	}

	pt.cancel()
	pt.wg.Wait()
	pt.running = false
}

// IsRunning returns true if the task is currently running
func (pt *PeriodicTask) IsRunning() bool {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	return pt.running
}
