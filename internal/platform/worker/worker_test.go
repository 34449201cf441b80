package worker

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errProcess = errors.New("process failed")

func TestLoop_CancellationStopsLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	iterations := 0

	err := Loop(ctx, Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(_ context.Context) error {
			iterations++
			if iterations >= 3 {
				cancel()
			}

			return nil
		},
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Loop() error = %v, want context.Canceled", err)
	}

	if iterations < 3 {
		t.Errorf("iterations = %d, want >= 3", iterations)
	}
}

func TestLoop_OnErrorStops(t *testing.T) {
	err := Loop(context.Background(), Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(_ context.Context) error {
			return errProcess
		},
		OnError: func(_ error) bool { return false },
	})

	if !errors.Is(err, errProcess) {
		t.Errorf("Loop() error = %v, want errProcess", err)
	}
}

func TestLoop_PeriodicTaskRuns(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	taskRuns := 0

	_ = Loop(ctx, Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(_ context.Context) error {
			if taskRuns > 0 {
				cancel()
			}

			return nil
		},
		PeriodicTasks: []PeriodicTask{{
			Name:     "tick",
			Interval: time.Nanosecond,
			Run:      func(_ context.Context) { taskRuns++ },
		}},
	})

	if taskRuns == 0 {
		t.Error("periodic task never ran")
	}
}

func TestLoop_SurvivesProcessPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	iterations := 0

	err := Loop(ctx, Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(_ context.Context) error {
			iterations++
			if iterations >= 3 {
				cancel()

				return nil
			}

			panic("boom")
		},
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Loop() error = %v, want context.Canceled", err)
	}

	if iterations < 3 {
		t.Errorf("iterations = %d, want >= 3 despite panics", iterations)
	}
}

func TestLoop_SurvivesPeriodicTaskPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	taskRuns := 0

	_ = Loop(ctx, Config{
		Name:         "test",
		PollInterval: time.Millisecond,
		Process: func(_ context.Context) error {
			if taskRuns > 0 {
				cancel()
			}

			return nil
		},
		PeriodicTasks: []PeriodicTask{{
			Name:     "tick",
			Interval: time.Nanosecond,
			Run: func(_ context.Context) {
				taskRuns++
				panic("tick failed")
			},
		}},
	})

	if taskRuns == 0 {
		t.Error("periodic task never ran")
	}
}

func TestWait_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := Wait(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait() error = %v, want context.Canceled", err)
	}

	if err := Wait(context.Background(), 0); err != nil {
		t.Errorf("Wait(0) error = %v, want nil", err)
	}
}
