package table

import (
	"sync"
	"time"
)

// scheduler is a cancellable single-shot task: scheduling a new task
// atomically cancels any prior pending one. It coalesces bursts of state
// changes into a single fetch after a quiet period. There is no maximum
// wait; a continuously-changing state can defer the task indefinitely.
type scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
}

func newScheduler(delay time.Duration) *scheduler {
	return &scheduler{delay: delay}
}

// Schedule arms the task, cancelling any pending one first.
func (s *scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels any pending task.
func (s *scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
