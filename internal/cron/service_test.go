package cron

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stitchsync/stitchsync-backend/internal/schedule"
	"github.com/stitchsync/stitchsync-backend/pkg/logger"
)

type fakeLock struct {
	available bool
	acquires  int
	releases  int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	return f.available, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.releases++
	return nil
}

type fakeDueRunner struct {
	summary *schedule.DispatchSummary
	err     error
	calls   int
}

func (f *fakeDueRunner) RunDue(context.Context) (*schedule.DispatchSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRunCycleDispatchesUnderLock(t *testing.T) {
	lock := &fakeLock{available: true}
	runner := &fakeDueRunner{summary: &schedule.DispatchSummary{Succeeded: 2}}
	svc, err := NewService(ServiceParams{Logger: testLogger(), Lock: lock, Schedule: runner})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if runner.calls != 1 {
		t.Fatalf("expected one dispatch, got %d", runner.calls)
	}
	if lock.releases != 1 {
		t.Fatalf("lock not released: %d", lock.releases)
	}
}

func TestRunCycleSkipsWhenLockHeld(t *testing.T) {
	lock := &fakeLock{available: false}
	runner := &fakeDueRunner{summary: &schedule.DispatchSummary{}}
	svc, err := NewService(ServiceParams{Logger: testLogger(), Lock: lock, Schedule: runner})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err != nil {
		t.Fatalf("runCycle: %v", err)
	}
	if runner.calls != 0 {
		t.Fatalf("dispatch ran without the lock: %d", runner.calls)
	}
	if lock.releases != 0 {
		t.Fatalf("released a lock that was never acquired: %d", lock.releases)
	}
}

func TestRunCycleReleasesLockOnDispatchError(t *testing.T) {
	lock := &fakeLock{available: true}
	runner := &fakeDueRunner{err: fmt.Errorf("db down")}
	svc, err := NewService(ServiceParams{Logger: testLogger(), Lock: lock, Schedule: runner})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	if err := svc.runCycle(context.Background()); err == nil {
		t.Fatal("expected dispatch error")
	}
	if lock.releases != 1 {
		t.Fatalf("lock not released after failure: %d", lock.releases)
	}
}
