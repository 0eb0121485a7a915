package main

import (
	"context"
	"sync"
	"time"
)

// Scheduler drives SyncAllFeeds on a fixed cadence for the lifetime of the
// process. It runs on its own goroutine, never on the render loop, and a
// failed cycle only produces a log entry; the next cycle still runs after
// the standard delay.
type Scheduler struct {
	interval time.Duration
	runSync  func(context.Context)

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewScheduler(interval time.Duration, runSync func(context.Context)) *Scheduler {
	return &Scheduler{interval: interval, runSync: runSync}
}

func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx)
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSync(ctx)
		}
	}
}

// Stop cancels the loop and waits for any in-flight cycle to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
}
