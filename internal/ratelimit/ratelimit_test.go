package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedRateLimiter_Allow(t *testing.T) {
	tests := []struct {
		name     string
		rps      float64
		burst    int
		calls    int
		wantPass int
	}{
		{name: "burst allows initial requests", rps: 1, burst: 3, calls: 3, wantPass: 3},
		{name: "exceeding burst blocks", rps: 1, burst: 2, calls: 5, wantPass: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := New(tt.rps, tt.burst)
			defer rl.Stop()

			passed := 0
			for range tt.calls {
				if rl.Allow("test") {
					passed++
				}
			}
			assert.Equal(t, tt.wantPass, passed)
		})
	}
}

func TestKeyedRateLimiter_IndependentKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	assert.True(t, rl.Allow("key1"))
	assert.False(t, rl.Allow("key1"), "key1 should be exhausted")
	assert.True(t, rl.Allow("key2"), "key2 should be independent")
}

func TestKeyedRateLimiter_WaitContextCanceled(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("test")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	assert.Error(t, rl.Wait(ctx, "test"))
}

func TestPerInterval(t *testing.T) {
	rl := PerInterval(30, time.Minute, 2)
	defer rl.Stop()

	assert.InDelta(t, 0.5, float64(rl.limit), 1e-9)
	assert.True(t, rl.Allow("ip"))
	assert.True(t, rl.Allow("ip"))
	assert.False(t, rl.Allow("ip"))
}

func TestKeyedRateLimiter_EvictIdle(t *testing.T) {
	rl := NewWithIdleTTL(1, 1, time.Minute)
	defer rl.Stop()

	current := time.Unix(1_000, 0)
	rl.now = func() time.Time { return current }

	rl.Allow("old")
	current = current.Add(45 * time.Second)
	rl.Allow("fresh")
	require.Equal(t, 2, rl.Len())

	current = current.Add(30 * time.Second)
	assert.Equal(t, 1, rl.evictIdle())
	assert.Equal(t, 1, rl.Len())

	assert.True(t, rl.Allow("old"), "evicted key starts with a full bucket")
}

func TestKeyedRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
