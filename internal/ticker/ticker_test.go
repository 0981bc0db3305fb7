// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ticker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestScheduler_StopHaltsCallbacks(t *testing.T) {
	s := New(5 * time.Millisecond)

	var calls atomic.Int64
	s.Start(context.Background(), func(time.Time) { calls.Add(1) })

	deadline := time.Now().Add(2 * time.Second)
	for calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if calls.Load() < 3 {
		t.Fatalf("expected at least 3 ticks, got %d", calls.Load())
	}

	s.Stop()
	after := calls.Load()
	time.Sleep(30 * time.Millisecond)

	if got := calls.Load(); got != after {
		t.Errorf("callback ran after Stop: %d -> %d", after, got)
	}
	if s.Running() {
		t.Error("Running() should be false after Stop")
	}
}

func TestScheduler_FiresImmediately(t *testing.T) {
	s := New(time.Hour)
	fired := make(chan time.Time, 1)
	fixed := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.Now = func() time.Time { return fixed }

	s.Start(context.Background(), func(now time.Time) { fired <- now })
	defer s.Stop()

	select {
	case got := <-fired:
		if !got.Equal(fixed) {
			t.Errorf("tick time: got %v, want %v", got, fixed)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not fire")
	}
}

func TestScheduler_StopIdempotent(t *testing.T) {
	s := New(time.Millisecond)
	s.Stop() // before Start

	s.Start(context.Background(), func(time.Time) {})
	s.Stop()
	s.Stop()
}

func TestScheduler_StartTwiceIsNoop(t *testing.T) {
	s := New(time.Hour)
	var calls atomic.Int64
	done := make(chan struct{}, 2)
	fn := func(time.Time) {
		calls.Add(1)
		done <- struct{}{}
	}

	s.Start(context.Background(), fn)
	<-done
	s.Start(context.Background(), fn)
	s.Stop()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected one loop, got %d calls", got)
	}
}

func TestScheduler_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(time.Millisecond)
	s.Start(ctx, func(time.Time) {})

	done := s.Done()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit on context cancel")
	}
	s.Stop()
}

func TestScheduler_ContextCancelClearsState(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(time.Hour)
	s.Start(ctx, func(time.Time) {})

	done := s.Done()
	cancel()
	<-done

	if s.Running() {
		t.Fatal("Running() = true after the context was cancelled")
	}
	if s.Done() != nil {
		t.Error("Done() should be nil once the loop has exited")
	}

	ran := make(chan struct{})
	s.Start(context.Background(), func(time.Time) { close(ran) })
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("Start after cancellation did not run the callback")
	}
	s.Stop()
}

func TestScheduler_Restart(t *testing.T) {
	s := New(time.Hour)
	var calls atomic.Int64

	for i := 0; i < 3; i++ {
		ran := make(chan struct{})
		s.Start(context.Background(), func(time.Time) {
			calls.Add(1)
			close(ran)
		})
		<-ran
		s.Stop()
	}

	if got := calls.Load(); got != 3 {
		t.Errorf("calls: got %d, want 3", got)
	}
}
