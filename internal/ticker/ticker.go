// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ticker drives a callback on a fixed interval for headless hosts.
//
// The contract that matters is Stop: once it returns, the run loop has
// exited and fn will not be called again.
package ticker

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is the tick period used when Interval is zero.
const DefaultInterval = time.Second

// Scheduler calls a function every Interval until stopped.
type Scheduler struct {
	Interval time.Duration

	// Now supplies the time passed to fn. Defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a scheduler with the given interval.
func New(interval time.Duration) *Scheduler {
	return &Scheduler{Interval: interval}
}

// Start runs fn once immediately and then every Interval in a new goroutine.
// The loop ends when ctx is cancelled or Stop is called; either way the
// scheduler can be started again. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context, fn func(time.Time)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done != nil {
		return
	}

	interval := s.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer func() {
			s.mu.Lock()
			if s.done == done {
				s.cancel, s.done = nil, nil
			}
			s.mu.Unlock()
			cancel()
			close(done)
		}()

		t := time.NewTicker(interval)
		defer t.Stop()

		fn(now())
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				// A tick and a cancel can be ready together; cancel wins.
				if ctx.Err() != nil {
					return
				}
				fn(now())
			}
		}
	}()
}

// Stop cancels the loop and waits for it to exit. It is idempotent and safe
// to call before Start. fn must not call Stop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the loop is active.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done != nil
}

// Done returns a channel closed when the current loop exits, or nil when
// not running.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}
