package chain

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryPolicy bounds how often a transaction query is repeated while the node does not know
// the transaction yet.
type RetryPolicy struct {
	MaxAttempts uint
	Delay       time.Duration
}

// Timer abstracts waiting between attempts. retry-go's default timer uses time.After.
type Timer = retry.Timer

// errTxPending marks an attempt whose stderr was non-empty.
var errTxPending = errors.New("transaction not found yet")

func (p RetryPolicy) attempts() uint {
	// retry-go treats zero attempts as unbounded.
	if p.MaxAttempts == 0 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) options(ctx context.Context, timer Timer, onRetry retry.OnRetryFunc) []retry.Option {
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(p.attempts()),
		retry.Delay(p.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, errTxPending)
		}),
	}
	if timer != nil {
		opts = append(opts, retry.WithTimer(timer))
	}
	if onRetry != nil {
		opts = append(opts, retry.OnRetry(onRetry))
	}
	return opts
}

func retryDo(ctx context.Context, policy RetryPolicy, timer Timer, onRetry retry.OnRetryFunc, fn func() error) error {
	return retry.Do(fn, policy.options(ctx, timer, onRetry)...)
}
