package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAllowsBurst(t *testing.T) {
	l := New("test", 3)

	assert.Equal(t, "test", l.Name())
	assert.True(t, l.limiter.Allow())
	assert.True(t, l.limiter.Allow())
	assert.True(t, l.limiter.Allow())
	assert.False(t, l.limiter.Allow())
}

func TestPerMinuteBurst(t *testing.T) {
	l := PerMinute("AniList", 90)

	for i := 0; i < 9; i++ {
		require.True(t, l.limiter.Allow(), "request %d should be inside the burst", i)
	}
	assert.False(t, l.limiter.Allow())
}

func TestPerMinuteMinimumBurst(t *testing.T) {
	l := PerMinute("slow", 5)
	assert.True(t, l.limiter.Allow())
	assert.False(t, l.limiter.Allow())
}

func TestWaitHonoursContext(t *testing.T) {
	l := PerMinute("slow", 1)
	require.True(t, l.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for slow")
}
