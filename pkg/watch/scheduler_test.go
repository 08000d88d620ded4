package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mercator-hq/condconfig/pkg/telemetry/logging"
)

func TestNewScheduler_InvalidSchedule(t *testing.T) {
	for _, schedule := range []string{"", "every minute", "* * *", "61 * * * *"} {
		if _, err := NewScheduler(schedule, nil); err == nil {
			t.Errorf("NewScheduler(%q) should fail", schedule)
		}
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler("0 3 * * *", nil)
	if err != nil {
		t.Fatalf("NewScheduler() error = %v", err)
	}

	if s.NextRun() != nil {
		t.Error("NextRun() should be nil before Start")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := s.Start(ctx, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := s.Start(ctx, func(context.Context) error { return nil }); err == nil {
		t.Error("second Start() should fail")
	}

	next := s.NextRun()
	if next == nil {
		t.Fatal("NextRun() = nil after Start")
	}
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("NextRun() = %v, want 03:00", next)
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if s.IsRunning() {
		t.Error("scheduler should stop when the context is cancelled")
	}
}

func TestScheduler_RunScheduledLogsErrors(t *testing.T) {
	s, err := NewScheduler("* * * * *", nil)
	if err != nil {
		t.Fatal(err)
	}

	called := false
	s.runScheduled(context.Background(), func(context.Context) error {
		called = true
		return errors.New("boom")
	})
	if !called {
		t.Error("run func not invoked")
	}
}

func TestRunner_SerializesRuns(t *testing.T) {
	var (
		mu      sync.Mutex
		active  int
		maxSeen int
		trigger []string
	)
	runner := NewRunner(func(ctx context.Context) error {
		mu.Lock()
		active++
		if active > maxSeen {
			maxSeen = active
		}
		mu.Unlock()

		time.Sleep(20 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		return nil
	})

	var wg sync.WaitGroup
	for _, tr := range []string{TriggerStartup, TriggerWatch, TriggerSchedule, TriggerWatch} {
		wg.Add(1)
		go func(tr string) {
			defer wg.Done()
			if err := runner.Run(context.Background(), tr); err != nil {
				t.Errorf("Run() error = %v", err)
			}
			mu.Lock()
			trigger = append(trigger, tr)
			mu.Unlock()
		}(tr)
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max concurrent runs = %d, want 1", maxSeen)
	}
	if len(trigger) != 4 {
		t.Errorf("completed runs = %d, want 4", len(trigger))
	}
}

func TestRunner_PassesTrigger(t *testing.T) {
	var got string
	runner := NewRunner(func(ctx context.Context) error {
		got = logging.GetTrigger(ctx)
		return nil
	})

	if err := runner.Run(context.Background(), TriggerSchedule); err != nil {
		t.Fatal(err)
	}
	if got != TriggerSchedule {
		t.Errorf("trigger = %q, want %q", got, TriggerSchedule)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, TriggerWatch); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() with cancelled ctx error = %v, want context.Canceled", err)
	}
}
