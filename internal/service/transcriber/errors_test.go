package transcriber

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/talktobook/talktobook/internal/errors"
)

func TestMapStatusCode(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   Kind
	}{
		{name: "401 unauthorized", status: 401, want: KindUnauthorized},
		{name: "403 forbidden", status: 403, want: KindUnauthorized},
		{name: "429 rate limited", status: 429, want: KindRateLimited},
		{name: "413 payload too large", status: 413, want: KindFileTooLarge},
		{name: "415 unsupported media type", status: 415, want: KindUnsupportedFormat},
		{name: "408 request timeout", status: 408, want: KindTimeout},
		{name: "500 internal server error", status: 500, want: KindServerError},
		{name: "502 bad gateway", status: 502, want: KindServerError},
		{name: "503 service unavailable", status: 503, want: KindServerError},
		{name: "599 upper bound of server errors", status: 599, want: KindServerError},
		{name: "400 bad request", status: 400, want: KindUnknown},
		{name: "404 not found", status: 404, want: KindUnknown},
		{name: "418 teapot", status: 418, want: KindUnknown},
		{name: "200 is not an error status", status: 200, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapStatusCode(tt.status))
		})
	}
}

// timeoutError imitates a net.Error that timed out
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestMapTransportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "context deadline", err: context.DeadlineExceeded, want: KindTimeout},
		{name: "net timeout", err: timeoutError{}, want: KindTimeout},
		{name: "connection refused", err: &net.OpError{Op: "dial", Err: errors.New("connection refused")}, want: KindNetworkUnavailable},
		{name: "plain error", err: errors.New("boom"), want: KindNetworkUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapTransportError(tt.err))
		})
	}
}

func TestKindRetryable(t *testing.T) {
	retryable := []Kind{KindServerError, KindTimeout, KindRateLimited}
	for _, k := range retryable {
		assert.True(t, k.Retryable(), "kind %s should be retryable", k)
	}

	terminal := []Kind{KindUnauthorized, KindFileTooLarge, KindUnsupportedFormat, KindNetworkUnavailable, KindUnknown}
	for _, k := range terminal {
		assert.False(t, k.Retryable(), "kind %s should not be retryable", k)
	}
}

func TestKindAppErrorCode(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{kind: KindUnauthorized, want: apperrors.CodeUnauthorized},
		{kind: KindRateLimited, want: apperrors.CodeRateLimited},
		{kind: KindFileTooLarge, want: apperrors.CodeTooLarge},
		{kind: KindUnsupportedFormat, want: apperrors.CodeUnsupportedFormat},
		{kind: KindNetworkUnavailable, want: apperrors.CodeUnavailable},
		{kind: KindTimeout, want: apperrors.CodeTimeout},
		{kind: KindServerError, want: apperrors.CodeExternal},
		{kind: KindUnknown, want: apperrors.CodeExternal},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.AppErrorCode())
		})
	}
}

func TestKindOf(t *testing.T) {
	terr := &Error{Kind: KindRateLimited, StatusCode: 429, Message: "slow down"}
	assert.Equal(t, KindRateLimited, KindOf(terr))

	// Wrapped errors keep their kind
	wrapped := apperrors.Wrap(terr, apperrors.CodeExternal, "transcription failed")
	assert.Equal(t, KindRateLimited, KindOf(wrapped))

	assert.Equal(t, KindUnknown, KindOf(errors.New("some other error")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestAsAppError(t *testing.T) {
	terr := &Error{Kind: KindUnauthorized, StatusCode: 401, Message: "invalid api key"}
	appErr := AsAppError(terr)
	assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid api key", appErr.Message)
	assert.ErrorIs(t, appErr, error(terr))

	assert.Nil(t, AsAppError(nil))

	foreign := AsAppError(errors.New("boom"))
	assert.Equal(t, apperrors.CodeExternal, foreign.Code)
}
