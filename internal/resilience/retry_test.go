package resilience

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts: attempts,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestDoValRecoversFromTransientFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	got, err := DoVal(context.Background(), fastRetry(3), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", FromHTTPStatus(eris.New("service unavailable"), 503)
		}
		return "price", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "price", got)
	assert.Equal(t, 3, calls)
}

func TestDoValStopsOnPermanentError(t *testing.T) {
	t.Parallel()

	permanent := eris.New("part number not found")
	calls := 0
	_, err := DoVal(context.Background(), fastRetry(3), func(context.Context) (int, error) {
		calls++
		return 0, permanent
	})
	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestDoValExhaustsAttempts(t *testing.T) {
	t.Parallel()

	retried := 0
	cfg := fastRetry(3)
	cfg.OnRetry = func(attempt int, err error) {
		retried++
		assert.Equal(t, retried, attempt)
		assert.Error(t, err)
	}

	calls := 0
	_, err := DoVal(context.Background(), cfg, func(context.Context) (int, error) {
		calls++
		return 0, FromHTTPStatus(eris.New("gateway timeout"), 504)
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 2, retried)
}

func TestDoValHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := DoVal(ctx, fastRetry(5), func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, FromHTTPStatus(eris.New("throttled"), 429)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	t.Parallel()

	cfg := RetryConfig{BaseDelay: 100 * time.Millisecond, MaxDelay: 250 * time.Millisecond}

	first := backoff(cfg, 1)
	assert.InDelta(t, 100*time.Millisecond, first, float64(25*time.Millisecond))

	second := backoff(cfg, 2)
	assert.InDelta(t, 200*time.Millisecond, second, float64(50*time.Millisecond))

	// Doubling past the cap clamps to MaxDelay before jitter.
	fifth := backoff(cfg, 5)
	assert.InDelta(t, 250*time.Millisecond, fifth, float64(63*time.Millisecond))
}
