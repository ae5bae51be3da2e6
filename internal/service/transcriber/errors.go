package transcriber

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	apperrors "github.com/talktobook/talktobook/internal/errors"
)

// Kind classifies failures of the transcription API into a closed taxonomy
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindRateLimited
	KindFileTooLarge
	KindUnsupportedFormat
	KindServerError
	KindNetworkUnavailable
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindRateLimited:
		return "rate_limited"
	case KindFileTooLarge:
		return "file_too_large"
	case KindUnsupportedFormat:
		return "unsupported_format"
	case KindServerError:
		return "server_error"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Retryable reports whether in-line retry with backoff may help.
// NetworkUnavailable is deliberately excluded: offline requests go to the
// queue instead of being retried against a dead link.
func (k Kind) Retryable() bool {
	switch k {
	case KindServerError, KindTimeout, KindRateLimited:
		return true
	default:
		return false
	}
}

// AppErrorCode maps the Kind to the application error code used at the
// service boundary
func (k Kind) AppErrorCode() string {
	switch k {
	case KindUnauthorized:
		return apperrors.CodeUnauthorized
	case KindRateLimited:
		return apperrors.CodeRateLimited
	case KindFileTooLarge:
		return apperrors.CodeTooLarge
	case KindUnsupportedFormat:
		return apperrors.CodeUnsupportedFormat
	case KindNetworkUnavailable:
		return apperrors.CodeUnavailable
	case KindTimeout:
		return apperrors.CodeTimeout
	default:
		return apperrors.CodeExternal
	}
}

// Error is the typed failure returned by the transcription client
type Error struct {
	Kind       Kind
	StatusCode int    // HTTP status, 0 for transport failures
	APIType    string // "type" field of the API error body, when present
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transcription %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("transcription %s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("transcription %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the Kind from an error produced by a Client
func KindOf(err error) Kind {
	var terr *Error
	if errors.As(err, &terr) {
		return terr.Kind
	}
	return KindUnknown
}

// MapStatusCode maps an HTTP status code of the transcription API to a Kind
func MapStatusCode(status int) Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestEntityTooLarge:
		return KindFileTooLarge
	case status == http.StatusUnsupportedMediaType:
		return KindUnsupportedFormat
	case status == http.StatusRequestTimeout:
		return KindTimeout
	case status >= 500 && status <= 599:
		return KindServerError
	default:
		return KindUnknown
	}
}

// MapTransportError maps a failure of the HTTP round trip itself to a Kind
func MapTransportError(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetworkUnavailable
	}
	return KindNetworkUnavailable
}

// AsAppError converts a client error to the domain error hierarchy
func AsAppError(err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	var terr *Error
	if errors.As(err, &terr) {
		return apperrors.Wrap(err, terr.Kind.AppErrorCode(), terr.Message)
	}
	return apperrors.Wrap(err, apperrors.CodeExternal, "transcription failed")
}
