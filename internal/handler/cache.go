package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/keyfleet/keyfleet/internal/ui"
)

const (
	// DefaultCacheTTL is the default time-to-live for cached responses.
	DefaultCacheTTL = 5 * time.Minute

	// cleanupInterval is how often expired entries are swept.
	cleanupInterval = 1 * time.Minute
)

// cacheEntry holds one cached response body and its expiry.
type cacheEntry struct {
	body     []byte
	expireAt time.Time
}

func (e *cacheEntry) expired() bool {
	return time.Now().After(e.expireAt)
}

// ResponseCache is a thread-safe in-memory cache keyed by the SHA-256
// hash of the request body. Identical generation requests inside the TTL
// window are served without touching any provider.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	logger  *slog.Logger

	hits   int64
	misses int64
}

// ResponseCacheOption is a functional option for configuring ResponseCache.
type ResponseCacheOption func(*ResponseCache)

// WithCacheTTL sets a custom TTL for cache entries.
func WithCacheTTL(ttl time.Duration) ResponseCacheOption {
	return func(c *ResponseCache) {
		c.ttl = ttl
	}
}

// WithCacheLogger sets a custom logger.
func WithCacheLogger(logger *slog.Logger) ResponseCacheOption {
	return func(c *ResponseCache) {
		c.logger = logger
	}
}

// NewResponseCache creates a ResponseCache and starts its background sweep.
func NewResponseCache(opts ...ResponseCacheOption) *ResponseCache {
	c := &ResponseCache{
		entries: make(map[string]*cacheEntry),
		ttl:     DefaultCacheTTL,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweep()

	return c
}

// HashRequest returns the cache key for a request body.
func HashRequest(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Get returns the cached body for key, if present and not expired.
func (c *ResponseCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || entry.expired() {
		c.mu.Lock()
		// A concurrent Set may have refreshed the entry between the read
		// and write locks; only evict what is still expired.
		if current, still := c.entries[key]; still && current.expired() {
			delete(c.entries, key)
		}
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	c.hits++
	c.mu.Unlock()

	return entry.body, true
}

// Set stores a response body under key with the configured TTL.
func (c *ResponseCache) Set(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &cacheEntry{
		body:     body,
		expireAt: time.Now().Add(c.ttl),
	}
}

// Stats returns hit/miss counters and the current entry count.
func (c *ResponseCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.entries)
}

func (c *ResponseCache) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		removed := 0
		now := time.Now()
		for key, entry := range c.entries {
			if now.After(entry.expireAt) {
				delete(c.entries, key)
				removed++
			}
		}
		remaining := len(c.entries)
		c.mu.Unlock()

		if removed > 0 {
			c.logger.Debug("cache sweep",
				slog.Int("removed", removed),
				slog.Int("remaining", remaining),
			)
		}
	}
}

// CacheMiddleware serves repeated POST /v1/generate requests from the
// cache. Only 200 responses are stored.
func CacheMiddleware(cache *ResponseCache, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost || c.Request.URL.Path != "/v1/generate" {
			c.Next()
			return
		}

		bodyBytes, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Next()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		key := HashRequest(bodyBytes)

		if cached, found := cache.Get(key); found {
			start := time.Now()
			logger.Info("cache hit", slog.String("cache_key", key[:12]+"..."))
			ui.PrintCacheHit(key, time.Since(start))
			c.Set("cache_hit", true)
			c.Data(http.StatusOK, "application/json", cached)
			c.Abort()
			return
		}

		writer := &captureWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			cache.Set(key, writer.body.Bytes())
			logger.Debug("response cached",
				slog.String("cache_key", key[:12]+"..."),
				slog.Int("size_bytes", writer.body.Len()),
			)
		}
	}
}

// captureWriter tees the response body so it can be cached after the
// handler runs.
type captureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
