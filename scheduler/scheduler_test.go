package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/obreport/collector/util"
)

func testLogger() *util.Logger {
	logger := util.NewLogger()
	logger.Quiet = true
	return logger
}

func TestGroupFromConfigInterval(t *testing.T) {
	group, err := GroupFromConfig(2, "")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if group.Interval != 2*time.Second {
		t.Errorf("expected 2s interval, got %s", group.Interval)
	}
	if group.Cron != nil {
		t.Error("expected no cron expression for interval mode")
	}
}

func TestGroupFromConfigCron(t *testing.T) {
	group, err := GroupFromConfig(0, "0 */10 * * * * *")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	someTime := time.Date(2013, 1, 1, 0, 5, 0, 0, time.UTC)
	expectedNextRun := time.Date(2013, 1, 1, 0, 10, 0, 0, time.UTC)
	actualNextRun := group.Cron.Next(someTime)

	if expectedNextRun != actualNextRun {
		t.Errorf("\nNext run:\n\texpected %s\n\tactual %s\n\n", expectedNextRun, actualNextRun)
	}
}

func TestGroupFromConfigBadSchedule(t *testing.T) {
	_, err := GroupFromConfig(0, "not a cron expression")
	if err == nil {
		t.Error("expected error for invalid schedule, got none")
	}
}

func TestScheduleSpacing(t *testing.T) {
	const interval = 50 * time.Millisecond

	group := Group{Interval: interval}
	ctx, cancel := context.WithCancel(context.Background())

	var starts []time.Time
	done := make(chan struct{})
	go func() {
		group.Schedule(ctx, func() {
			starts = append(starts, time.Now())
			if len(starts) == 3 {
				cancel()
			}
		}, testLogger(), "test")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not finish in time")
	}

	if len(starts) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(starts))
	}
	for i := 1; i < len(starts); i++ {
		if spacing := starts[i].Sub(starts[i-1]); spacing < interval {
			t.Errorf("cycle starts %d and %d only %s apart, expected at least %s", i-1, i, spacing, interval)
		}
	}
}

func TestScheduleRunsImmediately(t *testing.T) {
	group := Group{Interval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan struct{})
	done := make(chan struct{})
	go func() {
		group.Schedule(ctx, func() { close(ran) }, testLogger(), "test")
		close(done)
	}()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("first cycle did not start immediately")
	}

	// Cancelling mid-sleep must interrupt the hour-long wait promptly
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cancellation did not interrupt the sleep")
	}
}
