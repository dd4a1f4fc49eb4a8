// Package credential manages the lifecycle of provider API keys: safe
// concurrent checkout and release, and permanent retirement of keys that
// turn out to be invalid.
package credential

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultCheckoutTimeout bounds how long a checkout waits for a key to
// become available before giving up.
const DefaultCheckoutTimeout = 30 * time.Second

// PoolEmptyError is returned by Checkout when a provider has no live keys at
// all: either none were ever configured, or every configured key has been
// retired. It is returned immediately, without waiting.
type PoolEmptyError struct {
	Provider string
}

func (e *PoolEmptyError) Error() string {
	return fmt.Sprintf("no usable API keys for provider %q", e.Provider)
}

// CheckoutTimeoutError is returned by Checkout when keys exist but all of
// them stayed checked out for the full timeout window.
type CheckoutTimeoutError struct {
	Provider string
	Timeout  time.Duration
}

func (e *CheckoutTimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for an API key for provider %q", e.Timeout, e.Provider)
}

// Pool holds one provider's API keys. A key is in exactly one of three
// states: available (issuable by Checkout), checked out (held by one
// in-flight call), or retired (permanently out of circulation). The number
// of keys loaded at construction is the hard ceiling on concurrent
// checkouts; the (N+1)th caller blocks until a release.
//
// Available keys are issued in FIFO order relative to release order, and
// blocked Checkout callers are served first-come-first-served (the Go
// runtime queues blocked channel receivers in arrival order).
type Pool struct {
	provider string

	// available carries issuable keys; capacity equals the configured key
	// count so Release never blocks.
	available chan string

	mu         sync.Mutex
	checkedOut map[string]struct{}
	retired    map[string]time.Time
	total      int

	timeout time.Duration
	logger  *slog.Logger
}

// PoolOption is a functional option for configuring a Pool.
type PoolOption func(*Pool)

// WithCheckoutTimeout sets how long Checkout waits for a key.
func WithCheckoutTimeout(timeout time.Duration) PoolOption {
	return func(p *Pool) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithPoolLogger sets a custom logger.
func WithPoolLogger(logger *slog.Logger) PoolOption {
	return func(p *Pool) {
		p.logger = logger
	}
}

// NewPool creates a pool for the given provider. Empty and duplicate keys
// are dropped; insertion order of the survivors is preserved.
func NewPool(provider string, keys []string, opts ...PoolOption) *Pool {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, key)
	}

	p := &Pool{
		provider:   provider,
		available:  make(chan string, len(unique)),
		checkedOut: make(map[string]struct{}),
		retired:    make(map[string]time.Time),
		total:      len(unique),
		timeout:    DefaultCheckoutTimeout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, key := range unique {
		p.available <- key
	}
	return p
}

// Provider returns the provider name this pool belongs to.
func (p *Pool) Provider() string {
	return p.provider
}

// Checkout borrows a key for the duration of one call. It blocks the calling
// goroutine until a key becomes available, the configured timeout elapses, or
// ctx is cancelled. Returns a PoolEmptyError immediately when the pool has no
// live keys at all, so callers can tell "nothing configured" apart from
// "temporarily all busy".
func (p *Pool) Checkout(ctx context.Context) (string, error) {
	if p.LiveCount() == 0 {
		return "", &PoolEmptyError{Provider: p.provider}
	}

	timer := time.NewTimer(p.timeout)
	defer timer.Stop()

	for {
		select {
		case key := <-p.available:
			p.mu.Lock()
			if _, dead := p.retired[key]; dead {
				// A key retired while sitting in the queue is discarded,
				// not reissued. Keep waiting within the same deadline.
				p.mu.Unlock()
				continue
			}
			p.checkedOut[key] = struct{}{}
			p.mu.Unlock()
			return key, nil

		case <-timer.C:
			return "", &CheckoutTimeoutError{Provider: p.provider, Timeout: p.timeout}

		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

// Release returns a checked-out key to the available queue. Releasing a key
// that has already been retired is a logged no-op: retirement and release can
// race with a late-arriving response, and whichever transition lands first
// wins.
func (p *Pool) Release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dead := p.retired[key]; dead {
		p.logger.Debug("release of retired key ignored",
			slog.String("provider", p.provider),
			slog.String("key", MaskKey(key)),
		)
		return
	}

	if _, held := p.checkedOut[key]; !held {
		p.logger.Warn("release of key not checked out",
			slog.String("provider", p.provider),
			slog.String("key", MaskKey(key)),
		)
		return
	}

	delete(p.checkedOut, key)
	p.available <- key
}

// Retire permanently removes a key from circulation. It is never reissued by
// Checkout for the lifetime of the process. Retiring an already-retired key
// is a no-op.
func (p *Pool) Retire(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, dead := p.retired[key]; dead {
		return
	}

	delete(p.checkedOut, key)
	p.retired[key] = time.Now()

	p.logger.Warn("API key retired",
		slog.String("provider", p.provider),
		slog.String("key", MaskKey(key)),
		slog.Int("remaining", p.total-len(p.retired)),
	)
}

// LiveCount returns the number of keys still in circulation (available or
// checked out). Zero means Checkout can never succeed again.
func (p *Pool) LiveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total - len(p.retired)
}

// Stats is a point-in-time snapshot of a pool's key states.
type Stats struct {
	Provider   string `json:"provider"`
	Total      int    `json:"total"`
	Available  int    `json:"available"`
	CheckedOut int    `json:"checked_out"`
	Retired    int    `json:"retired"`
}

// Snapshot returns the pool's current key counts. Total is always the sum of
// the other three.
func (p *Pool) Snapshot() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Stats{
		Provider:   p.provider,
		Total:      p.total,
		Available:  p.total - len(p.retired) - len(p.checkedOut),
		CheckedOut: len(p.checkedOut),
		Retired:    len(p.retired),
	}
}

// IsPoolEmpty reports whether err is a PoolEmptyError.
func IsPoolEmpty(err error) bool {
	var e *PoolEmptyError
	return errors.As(err, &e)
}

// IsCheckoutTimeout reports whether err is a CheckoutTimeoutError.
func IsCheckoutTimeout(err error) bool {
	var e *CheckoutTimeoutError
	return errors.As(err, &e)
}

// MaskKey returns a masked version of an API key safe for logging.
// Shows first 4 and last 4 characters.
func MaskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
