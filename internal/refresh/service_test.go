package refresh

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTarget struct {
	calls    atomic.Int32
	failures atomic.Int32
	err      error
}

func (f *fakeTarget) RefreshTasks(context.Context) error {
	f.calls.Add(1)
	if f.err != nil {
		f.failures.Add(1)
		return f.err
	}
	f.failures.Store(0)
	return nil
}

func (f *fakeTarget) RefreshFailures() int { return int(f.failures.Load()) }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestServiceRunsOnSchedule(t *testing.T) {
	target := &fakeTarget{}
	s := NewService("@every 1s", target, 3, quietLogger())
	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(3 * time.Second)
	for target.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if target.calls.Load() == 0 {
		t.Fatal("expected at least one scheduled refresh")
	}
}

func TestTickSkipsAfterGivingUp(t *testing.T) {
	target := &fakeTarget{err: errors.New("down")}
	target.failures.Store(3)
	s := NewService("@every 1m", target, 3, quietLogger())

	s.tick(t.Context())
	if target.calls.Load() != 0 || s.Skipped() != 1 {
		t.Fatalf("expected skipped tick, calls=%d skipped=%d", target.calls.Load(), s.Skipped())
	}

	if err := s.RunNow(t.Context()); err == nil {
		t.Fatal("manual refresh should reach the target and fail")
	}
	if target.calls.Load() != 1 {
		t.Fatalf("expected one manual call, got %d", target.calls.Load())
	}

	target.err = nil
	if err := s.RunNow(t.Context()); err != nil {
		t.Fatalf("manual refresh: %v", err)
	}
	s.tick(t.Context())
	if target.calls.Load() != 3 {
		t.Fatalf("schedule should resume after success, calls=%d", target.calls.Load())
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewService("every now and then", &fakeTarget{}, 3, quietLogger())
	if err := s.Start(t.Context()); err == nil {
		s.Stop()
		t.Fatal("expected error for bad schedule")
	}
}

func TestEmptyScheduleDisables(t *testing.T) {
	s := NewService("", &fakeTarget{}, 3, quietLogger())
	if err := s.Start(t.Context()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
}
