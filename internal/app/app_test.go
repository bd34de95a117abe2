package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"dca-trader/internal/config"
)

type countingRunner struct {
	mu    sync.Mutex
	count int
	err   error
}

func (r *countingRunner) Tick(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return r.err
}

func (r *countingRunner) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "test"},
		Strategy: config.StrategyConfig{
			Symbol:      "SPY",
			DailyAmount: 100.0,
			TimeInForce: "day",
		},
		Scheduler: config.SchedulerConfig{
			DailyAt:      "09:35",
			Timezone:     "UTC",
			PollInterval: 5 * time.Millisecond,
		},
	}
}

func waitForCount(t *testing.T, r *countingRunner, want int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if r.Count() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for %d runs, got %d", want, r.Count())
		case <-time.After(time.Millisecond):
		}
	}
}

func TestRunExecutesOnceImmediately(t *testing.T) {
	runner := &countingRunner{}
	clk := &fakeClock{now: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)}

	a := New(testConfig(), zap.NewNop(), runner)
	a.now = clk.Now

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitForCount(t, runner, 1)

	// 未到触发点，轮询不应再次执行
	time.Sleep(30 * time.Millisecond)
	if got := runner.Count(); got != 1 {
		t.Fatalf("expected a single immediate run, got %d", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunFiresAtDailyTrigger(t *testing.T) {
	runner := &countingRunner{}
	clk := &fakeClock{now: time.Date(2026, 8, 28, 9, 34, 0, 0, time.UTC)}

	a := New(testConfig(), zap.NewNop(), runner)
	a.now = clk.Now

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitForCount(t, runner, 1)

	clk.Set(time.Date(2026, 8, 28, 9, 36, 0, 0, time.UTC))
	waitForCount(t, runner, 2)

	// 触发后推进到次日，同一天不再执行
	time.Sleep(30 * time.Millisecond)
	if got := runner.Count(); got != 2 {
		t.Fatalf("expected no re-fire on the same day, got %d runs", got)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

func TestRunSurvivesCycleErrors(t *testing.T) {
	runner := &countingRunner{err: errors.New("broker unavailable")}
	clk := &fakeClock{now: time.Date(2026, 8, 28, 9, 34, 0, 0, time.UTC)}

	a := New(testConfig(), zap.NewNop(), runner)
	a.now = clk.Now

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	waitForCount(t, runner, 1)
	clk.Set(time.Date(2026, 8, 28, 9, 36, 0, 0, time.UTC))
	waitForCount(t, runner, 2)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("expected loop to survive cycle errors, got %v", err)
	}
}

func TestRunRejectsBadTriggerTime(t *testing.T) {
	cfg := testConfig()
	cfg.Scheduler.DailyAt = "25:99"

	a := New(cfg, zap.NewNop(), &countingRunner{})
	if err := a.Run(context.Background()); err == nil {
		t.Fatalf("expected error for invalid daily_at")
	}
}
