package service

import (
	"context"
	"net/http"
	"time"
)

// defaultProbeURL answers 204 with no body, which keeps probes cheap
const defaultProbeURL = "https://clients3.google.com/generate_204"

// ConnectivityChecker reports whether the transcription API is reachable
type ConnectivityChecker interface {
	Online(ctx context.Context) bool
}

// httpConnectivityChecker probes a well-known URL with a HEAD request
type httpConnectivityChecker struct {
	probeURL string
	client   *http.Client
}

// NewConnectivityChecker creates a ConnectivityChecker probing the given URL.
// An empty URL selects the default probe endpoint.
func NewConnectivityChecker(probeURL string) ConnectivityChecker {
	if probeURL == "" {
		probeURL = defaultProbeURL
	}
	return &httpConnectivityChecker{
		probeURL: probeURL,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Online reports reachability. Any HTTP response counts as online; only a
// failed round trip means the network is down.
func (c *httpConnectivityChecker) Online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
