package redis

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/internal/insights"
	"github.com/pulseboard/backend/pkg/circuitbreaker"
	"github.com/pulseboard/backend/pkg/retry"
)

var _ insights.Counter = (*Client)(nil)

// unreachable points at a port nothing listens on.
func unreachable() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestBreakerOpensWhenRedisIsDown(t *testing.T) {
	breaker := circuitbreaker.New("redis", circuitbreaker.Config{FailureThreshold: 2, Timeout: time.Minute})
	c := newClient(unreachable(), "test", breaker)
	defer c.Close()
	ctx := context.Background()

	require.Error(t, c.Increment(ctx, "revenue"))
	require.Error(t, c.Increment(ctx, "revenue"))
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	_, err := c.Counts(ctx)
	assert.True(t, errors.Is(err, circuitbreaker.ErrCircuitOpen))
	assert.ErrorIs(t, c.Reset(ctx), circuitbreaker.ErrCircuitOpen)
	assert.ErrorIs(t, c.Ping(ctx), circuitbreaker.ErrCircuitOpen)
}

func TestNewClientGivesUpAfterRetries(t *testing.T) {
	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = 2
	cfg.InitialDelay = time.Millisecond

	_, err := NewClient(context.Background(), Options{Host: "127.0.0.1", Port: 1, Retry: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestTopicsKey(t *testing.T) {
	c := newClient(unreachable(), "", nil)
	defer c.Close()
	assert.Equal(t, "pulseboard:insights:topics", c.topicsKey())
}

func newLiveClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = 1

	c, err := NewClient(context.Background(), Options{Host: mr.Host(), Port: port, KeyPrefix: "test", Retry: cfg})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestTopicCounters(t *testing.T) {
	c, mr := newLiveClient(t)
	ctx := context.Background()

	for _, topic := range []string{"revenue", "revenue", "customers", insights.FallbackTopic} {
		require.NoError(t, c.Increment(ctx, topic))
	}
	assert.Equal(t, "2", mr.HGet("test:insights:topics", "revenue"))

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"revenue": 2, "customers": 1, "default": 1}, counts)

	require.NoError(t, c.Ping(ctx))

	require.NoError(t, c.Reset(ctx))
	assert.False(t, mr.Exists("test:insights:topics"))

	counts, err = c.Counts(ctx)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestCountsSkipsMalformedValues(t *testing.T) {
	c, mr := newLiveClient(t)
	ctx := context.Background()

	require.NoError(t, c.Increment(ctx, "inventory"))
	mr.HSet("test:insights:topics", "performance", "lots")

	counts, err := c.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"inventory": 1}, counts)
}
