package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulseboard/backend/pkg/random"
)

func testConfig(waits *[]time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Source = random.NewScripted(0.5) // zero jitter
	cfg.sleep = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return ctx.Err()
	}
	return cfg
}

func TestDoSucceedsAfterRetries(t *testing.T) {
	var waits []time.Duration
	calls := 0

	err := Do(context.Background(), testConfig(&waits), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, waits)
}

func TestDoReturnsLastError(t *testing.T) {
	var waits []time.Duration
	boom := errors.New("boom")

	err := Do(context.Background(), testConfig(&waits), func(context.Context) error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Len(t, waits, 2)
}

func TestDoStopsOnPermanent(t *testing.T) {
	var waits []time.Duration
	calls := 0
	bad := errors.New("bad credentials")

	err := Do(context.Background(), testConfig(&waits), func(context.Context) error {
		calls++
		return Permanent(bad)
	})

	assert.ErrorIs(t, err, bad)
	assert.ErrorIs(t, err, ErrPermanent)
	assert.Equal(t, 1, calls)
	assert.Empty(t, waits)
}

func TestDoHonoursCancelledContext(t *testing.T) {
	var waits []time.Duration
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, testConfig(&waits), func(context.Context) error {
		t.Fatal("operation must not run")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	var waits []time.Duration
	calls := 0

	got, err := DoWithResult(context.Background(), testConfig(&waits), func(context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("try again")
		}
		return "PONG", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "PONG", got)
}

func TestAddJitterBounds(t *testing.T) {
	src := random.New(3)
	for i := 0; i < 500; i++ {
		d := addJitter(src, time.Second, 0.1)
		require.GreaterOrEqual(t, d, 900*time.Millisecond)
		require.LessOrEqual(t, d, 1100*time.Millisecond)
	}
	assert.Equal(t, time.Second, addJitter(src, time.Second, 0))
}
