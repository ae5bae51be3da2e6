package transcriber

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	// DefaultCacheTTL is how long a transcription result stays valid for an
	// unchanged file
	DefaultCacheTTL = 5 * time.Minute
	// DefaultCacheSize bounds the number of cached results
	DefaultCacheSize = 128
)

// Fingerprint derives the cache key from the file identity: path, size and
// modification time. Any rewrite of the file produces a new key.
func Fingerprint(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())))
	return hex.EncodeToString(sum[:]), nil
}

// cachingClient serves repeated transcriptions of an unchanged file from
// memory. On a hit no call reaches the wrapped client.
type cachingClient struct {
	inner Client
	cache *expirable.LRU[string, string]
}

// NewCachingClient wraps a Client with a TTL-bounded read-through cache
func NewCachingClient(inner Client, size int, ttl time.Duration) Client {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &cachingClient{
		inner: inner,
		cache: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

func (c *cachingClient) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	key, err := Fingerprint(audioPath)
	if err != nil {
		// Cannot identify the file; let the wrapped client report the failure
		return c.inner.Transcribe(ctx, audioPath)
	}

	if text, ok := c.cache.Get(key); ok {
		return &Result{Text: text}, nil
	}

	result, err := c.inner.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	c.cache.Add(key, result.Text)
	return result, nil
}
