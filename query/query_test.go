package query

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"filedrop/errors"
)

func newTestClient(t *testing.T, cfg Config) *Client[int] {
	t.Helper()
	client, err := New[int](cfg, logs.GetLoggerFromLevel(slog.LevelError))
	require.NoError(t, err)
	return client
}

// fastRetry keeps test runs quick while preserving the default shape.
var fastRetry = RetryPolicy{
	MaxAttempts: 2,
	Delay:       time.Millisecond,
	IsRetryable: DefaultRetryPolicy.IsRetryable,
}

func TestClient_Ensure(t *testing.T) {
	t.Run("should fetch once and serve from cache within the stale window", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 42, nil
		}

		for i := 0; i < 5; i++ {
			value, err := client.Ensure(context.Background(), "answer", fetch)
			req.NoError(err)
			req.Equal(42, value)
		}
		req.Equal(int32(1), calls.Load())
	})

	t.Run("should refetch once the stale window elapses", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{StaleWindow: time.Minute, Retry: fastRetry})

		current := time.Now()
		client.now = func() time.Time { return current }

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			calls.Add(1)
			return int(calls.Load()), nil
		}

		value, err := client.Ensure(context.Background(), "k", fetch)
		req.NoError(err)
		req.Equal(1, value)

		current = current.Add(30 * time.Second)
		value, err = client.Ensure(context.Background(), "k", fetch)
		req.NoError(err)
		req.Equal(1, value, "still fresh, no refetch")

		current = current.Add(31 * time.Second)
		value, err = client.Ensure(context.Background(), "k", fetch)
		req.NoError(err)
		req.Equal(2, value, "past the window, refetched")
	})

	t.Run("should collapse concurrent fetches of one key", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			return 7, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				value, err := client.Ensure(context.Background(), "shared", fetch)
				req.NoError(err)
				req.Equal(7, value)
			}()
		}
		wg.Wait()
		req.Equal(int32(1), calls.Load())
	})
}

func TestClient_Retry(t *testing.T) {
	t.Run("should replay a transient failure and succeed", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			if calls.Add(1) == 1 {
				return 0, fmt.Errorf("server hiccup")
			}
			return 9, nil
		}

		value, err := client.Fetch(context.Background(), "k", fetch)
		req.NoError(err)
		req.Equal(9, value)
		req.Equal(int32(2), calls.Load())

		_, status := client.Get("k")
		req.Equal(StatusSuccess, status)
	})

	t.Run("should stop after the attempt budget and record the error", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 0, fmt.Errorf("persistent failure")
		}

		_, err := client.Fetch(context.Background(), "k", fetch)
		req.Error(err)
		req.Equal(int32(2), calls.Load())

		_, status := client.Get("k")
		req.Equal(StatusError, status)
		req.ErrorContains(client.Err("k"), "persistent failure")
	})

	t.Run("should not replay a connection failure", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		var calls atomic.Int32
		fetch := func(ctx context.Context) (int, error) {
			calls.Add(1)
			return 0, fmt.Errorf("%w: dial tcp refused", errors.ErrNoResponse)
		}

		_, err := client.Fetch(context.Background(), "k", fetch)
		req.ErrorIs(err, errors.ErrNoResponse)
		req.Equal(int32(1), calls.Load())
	})

	t.Run("should keep the previous value through a failed refetch", func(t *testing.T) {
		req := require.New(t)
		client := newTestClient(t, Config{Retry: fastRetry})

		value, err := client.Fetch(context.Background(), "k", func(ctx context.Context) (int, error) {
			return 5, nil
		})
		req.NoError(err)
		req.Equal(5, value)

		_, err = client.Fetch(context.Background(), "k", func(ctx context.Context) (int, error) {
			return 0, fmt.Errorf("%w: gone", errors.ErrNoResponse)
		})
		req.Error(err)

		stale, status := client.Get("k")
		req.Equal(StatusError, status)
		req.Equal(5, stale, "readers keep the last good value")
	})
}

func TestClient_Update(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, Config{Retry: fastRetry})

	req.False(client.Update("missing", func(v int) int { return v + 1 }),
		"a key that never resolved cannot be patched")

	_, err := client.Fetch(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 10, nil
	})
	req.NoError(err)

	req.True(client.Update("k", func(v int) int { return v + 1 }))
	value, status := client.Get("k")
	req.Equal(11, value)
	req.Equal(StatusSuccess, status)
}

func TestClient_Invalidate(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, Config{StaleWindow: time.Hour, Retry: fastRetry})

	var calls atomic.Int32
	fetch := func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	}

	_, err := client.Ensure(context.Background(), "k", fetch)
	req.NoError(err)

	client.Invalidate("k")
	value, status := client.Get("k")
	req.Equal(1, value, "invalidation keeps the value visible")
	req.Equal(StatusSuccess, status)

	value, err = client.Ensure(context.Background(), "k", fetch)
	req.NoError(err)
	req.Equal(2, value, "next read refetches")
}

func TestClient_Set_Seeds_Stale(t *testing.T) {
	req := require.New(t)
	client := newTestClient(t, Config{StaleWindow: time.Hour, Retry: fastRetry})

	client.Set("k", 99)
	value, status := client.Get("k")
	req.Equal(99, value)
	req.Equal(StatusSuccess, status)

	value, err := client.Ensure(context.Background(), "k", func(ctx context.Context) (int, error) {
		return 100, nil
	})
	req.NoError(err)
	req.Equal(100, value, "a seeded value never suppresses the first real fetch")
}
