package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForSequential(t *testing.T) {
	cfg := Config{Enabled: false}
	var order []int
	For(5, func(i int) {
		order = append(order, i)
	}, cfg)
	if len(order) != 5 {
		t.Fatalf("expected 5 calls, got %d", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Errorf("sequential fallback must run in order, got %v", order)
			break
		}
	}
}

func TestForParallel(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4}
	var count int64
	var sum int64
	For(100, func(i int) {
		atomic.AddInt64(&count, 1)
		atomic.AddInt64(&sum, int64(i))
	}, cfg)
	if count != 100 {
		t.Errorf("expected 100 calls, got %d", count)
	}
	if sum != 4950 {
		t.Errorf("expected index sum 4950, got %d", sum)
	}
}

func TestForSingleItem(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8}
	calls := 0
	For(1, func(i int) {
		calls++ // no atomics needed: a single item stays on the caller's goroutine
	}, cfg)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestForZeroItems(t *testing.T) {
	For(0, func(i int) {
		t.Error("callback must not run for n = 0")
	}, DefaultConfig())
}

func TestForMoreWorkersThanItems(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 32}
	var count int64
	For(3, func(i int) {
		atomic.AddInt64(&count, 1)
	}, cfg)
	if count != 3 {
		t.Errorf("expected 3 calls, got %d", count)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers = %d, want >= 1", cfg.NumWorkers)
	}
}
