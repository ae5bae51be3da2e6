package transcriber

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy bounds the in-line retry loop around the transcription call
type RetryPolicy struct {
	MaxRetries   uint64 // retries after the initial attempt
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
}

// DefaultRetryPolicy matches the production policy: up to 3 retries with
// exponential backoff capped at 8 seconds
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     8 * time.Second,
	}
}

// retryingClient retries transient failures of the wrapped client.
// Only retryable kinds (server error, timeout, rate limit) are attempted
// again; client errors fail immediately.
type retryingClient struct {
	inner  Client
	policy RetryPolicy
}

// NewRetryingClient wraps a Client with the retry policy
func NewRetryingClient(inner Client, policy RetryPolicy) Client {
	return &retryingClient{
		inner:  inner,
		policy: policy,
	}
}

func (c *retryingClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	var result *Result

	operation := func() error {
		res, err := c.inner.Transcribe(ctx, audioPath)
		if err != nil {
			if !KindOf(err).Retryable() {
				return backoff.Permanent(err)
			}
			return err
		}
		result = res
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.policy.InitialDelay
	b.Multiplier = c.policy.Multiplier
	b.MaxInterval = c.policy.MaxDelay
	b.MaxElapsedTime = 0 // bounded by MaxRetries, not wall clock
	b.RandomizationFactor = 0

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.policy.MaxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}
