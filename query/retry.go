package query

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"filedrop/transport"
)

// RetryPolicy bounds how a failed fetch is replayed before the failure is
// surfaced to the caller.
type RetryPolicy struct {
	// MaxAttempts counts the first try too; 1 means no retry at all.
	MaxAttempts int
	Delay       time.Duration
	// IsRetryable decides per error; a nil func retries everything.
	IsRetryable func(error) bool
}

// DefaultRetryPolicy replays a failed fetch once after a second. A server
// that is not reachable at all stays unreachable a second later, so
// connection failures are not replayed.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 2,
	Delay:       time.Second,
	IsRetryable: func(err error) bool {
		return !transport.IsConnectionFailure(err)
	},
}

func (p RetryPolicy) execute(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	delay := p.Delay
	if delay <= 0 {
		delay = time.Millisecond
	}
	backoff := retry.WithMaxRetries(uint64(attempts-1), retry.NewConstant(delay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if p.IsRetryable != nil && !p.IsRetryable(err) {
			return err
		}
		return retry.RetryableError(err)
	})
}
