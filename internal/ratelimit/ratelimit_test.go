package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 1, 3, 3, 3},
		{"exceeding burst blocks", 1, 2, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("test") {
					passed++
				}
			}

			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestIndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	rl.Allow("key1")
	if rl.Allow("key1") {
		t.Error("key1 should be exhausted")
	}
	if !rl.Allow("key2") {
		t.Error("key2 should be independent and allowed")
	}
}

func TestWaitContextCancelled(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("test")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "test"); err == nil {
		t.Error("Wait() should fail when context is canceled")
	}
}

func TestEvictIdle(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()
	rl.idleTTL = 10 * time.Millisecond

	rl.Allow("stale")
	time.Sleep(20 * time.Millisecond)
	rl.evictIdle()

	rl.mu.Lock()
	_, exists := rl.limiters["stale"]
	rl.mu.Unlock()
	if exists {
		t.Error("idle key should be evicted")
	}

	// An evicted key starts over with a fresh bucket.
	if !rl.Allow("stale") {
		t.Error("fresh key should be allowed")
	}
}
