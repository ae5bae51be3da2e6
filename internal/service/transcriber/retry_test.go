package transcriber

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns the scripted responses in order, then repeats the last one
type scriptedClient struct {
	calls     int
	responses []error
	text      string
}

func (c *scriptedClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	idx := c.calls
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	c.calls++
	if err := c.responses[idx]; err != nil {
		return nil, err
	}
	return &Result{Text: c.text}, nil
}

func fastRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestRetryingClientExhaustsRetriesOnServerError(t *testing.T) {
	inner := &scriptedClient{
		responses: []error{&Error{Kind: KindServerError, StatusCode: 500, Message: "upstream down"}},
	}
	client := NewRetryingClient(inner, fastRetryPolicy())

	_, err := client.Transcribe(context.Background(), "memo.wav")
	require.Error(t, err)
	assert.Equal(t, KindServerError, KindOf(err))
	// initial attempt plus three retries
	assert.Equal(t, 4, inner.calls)
}

func TestRetryingClientStopsOnNonRetryableError(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
	}{
		{name: "unauthorized", kind: KindUnauthorized},
		{name: "file too large", kind: KindFileTooLarge},
		{name: "unsupported format", kind: KindUnsupportedFormat},
		{name: "network unavailable goes to the queue instead", kind: KindNetworkUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &scriptedClient{
				responses: []error{&Error{Kind: tt.kind, Message: "nope"}},
			}
			client := NewRetryingClient(inner, fastRetryPolicy())

			_, err := client.Transcribe(context.Background(), "memo.wav")
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, 1, inner.calls)
		})
	}
}

func TestRetryingClientRecoversAfterTransientFailures(t *testing.T) {
	inner := &scriptedClient{
		responses: []error{
			&Error{Kind: KindServerError, StatusCode: 503, Message: "upstream down"},
			&Error{Kind: KindRateLimited, StatusCode: 429, Message: "slow down"},
			nil,
		},
		text: "third time lucky",
	}
	client := NewRetryingClient(inner, fastRetryPolicy())

	result, err := client.Transcribe(context.Background(), "memo.wav")
	require.NoError(t, err)
	assert.Equal(t, "third time lucky", result.Text)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingClientSucceedsWithoutRetry(t *testing.T) {
	inner := &scriptedClient{responses: []error{nil}, text: "first try"}
	client := NewRetryingClient(inner, fastRetryPolicy())

	result, err := client.Transcribe(context.Background(), "memo.wav")
	require.NoError(t, err)
	assert.Equal(t, "first try", result.Text)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryingClientHonorsContextCancellation(t *testing.T) {
	inner := &scriptedClient{
		responses: []error{&Error{Kind: KindServerError, StatusCode: 500, Message: "upstream down"}},
	}
	policy := fastRetryPolicy()
	policy.InitialDelay = time.Minute // force the retry wait to outlive the context
	client := NewRetryingClient(inner, policy)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Transcribe(ctx, "memo.wav")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestDefaultRetryPolicy(t *testing.T) {
	policy := DefaultRetryPolicy()
	assert.Equal(t, uint64(3), policy.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, policy.InitialDelay)
	assert.Equal(t, 2.0, policy.Multiplier)
	assert.Equal(t, 8*time.Second, policy.MaxDelay)
}
