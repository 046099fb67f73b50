package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		burst    int
		calls    int
		wantPass int
	}{
		{"burst allows initial requests", 3, 3, 3},
		{"exceeding burst blocks", 2, 5, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := PerMinute(1, tt.burst)
			passed := 0
			for i := 0; i < tt.calls; i++ {
				if rl.Allow("10.0.0.1") {
					passed++
				}
			}
			if passed != tt.wantPass {
				t.Errorf("Allow() passed %d, want %d", passed, tt.wantPass)
			}
		})
	}
}

func TestKeyedRateLimiter_KeysIndependent(t *testing.T) {
	rl := PerMinute(1, 1)
	if !rl.Allow("a") {
		t.Fatal("first call for a should pass")
	}
	if rl.Allow("a") {
		t.Fatal("second call for a should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("first call for b should pass")
	}
}

func TestKeyedRateLimiter_Sweep(t *testing.T) {
	rl := PerMinute(1, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.Allow("old")
	now = now.Add(10 * time.Minute)
	rl.Allow("fresh")

	if removed := rl.Sweep(5 * time.Minute); removed != 1 {
		t.Fatalf("Sweep() removed %d, want 1", removed)
	}
	if rl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", rl.Len())
	}
}
