package credential

import (
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry maps provider names to their pools, initializing each pool
// exactly once on first reference. The registry-wide lock covers only the
// "has this provider been initialized yet" check; the actual key loading for
// a provider runs under that provider's own sync.Once, so first callers for
// different providers do not serialize each other.
type Registry struct {
	source Source

	mu    sync.Mutex
	pools map[string]*poolEntry

	timeout time.Duration
	logger  *slog.Logger
}

type poolEntry struct {
	once sync.Once
	pool *Pool
}

// RegistryOption is a functional option for configuring a Registry.
type RegistryOption func(*Registry)

// WithRegistryCheckoutTimeout sets the checkout timeout applied to every
// pool the registry creates.
func WithRegistryCheckoutTimeout(timeout time.Duration) RegistryOption {
	return func(r *Registry) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithRegistryLogger sets a custom logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// NewRegistry creates a registry backed by the given credential source.
func NewRegistry(source Source, opts ...RegistryOption) *Registry {
	r := &Registry{
		source:  source,
		pools:   make(map[string]*poolEntry),
		timeout: DefaultCheckoutTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pool returns the pool for a provider, creating and loading it on first
// reference. A provider whose source yields zero keys is not an error: it is
// registered with an empty pool and subsequent Checkout calls on it return
// PoolEmptyError.
func (r *Registry) Pool(provider string) *Pool {
	r.mu.Lock()
	entry, ok := r.pools[provider]
	if !ok {
		entry = &poolEntry{}
		r.pools[provider] = entry
	}
	r.mu.Unlock()

	return r.initPool(provider, entry)
}

// initPool runs the provider's one-time key load. Safe to call from multiple
// goroutines; the sync.Once guarantees the load happens exactly once and that
// every caller observes the constructed pool.
func (r *Registry) initPool(provider string, entry *poolEntry) *Pool {
	entry.once.Do(func() {
		keys, err := r.source.Load(provider)
		if err != nil {
			r.logger.Error("failed to load API keys",
				slog.String("provider", provider),
				slog.String("error", err.Error()),
			)
			keys = nil
		}
		entry.pool = NewPool(provider, keys,
			WithCheckoutTimeout(r.timeout),
			WithPoolLogger(r.logger),
		)
		r.logger.Info("credential pool initialized",
			slog.String("provider", provider),
			slog.Int("keys", entry.pool.LiveCount()),
		)
	})
	return entry.pool
}

// HasCredentials reports whether the provider has at least one live key,
// initializing its pool if needed. The router uses this to skip candidates
// without paying a checkout timeout.
func (r *Registry) HasCredentials(provider string) bool {
	return r.Pool(provider).LiveCount() > 0
}

// ProvidersWithCredentials returns the names of initialized providers that
// still have at least one live key, in sorted order.
func (r *Registry) ProvidersWithCredentials() []string {
	entries := r.providerEntries()
	providers := make([]string, 0, len(entries))
	for name, entry := range entries {
		if r.initPool(name, entry).LiveCount() > 0 {
			providers = append(providers, name)
		}
	}
	sort.Strings(providers)
	return providers
}

// Snapshots returns pool statistics for every initialized provider, sorted
// by provider name. Used by the health endpoint.
func (r *Registry) Snapshots() []Stats {
	entries := r.providerEntries()
	stats := make([]Stats, 0, len(entries))
	for name, entry := range entries {
		stats = append(stats, r.initPool(name, entry).Snapshot())
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Provider < stats[j].Provider })
	return stats
}

// providerEntries copies the entry map so iteration happens outside the
// registry lock.
func (r *Registry) providerEntries() map[string]*poolEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make(map[string]*poolEntry, len(r.pools))
	for name, entry := range r.pools {
		entries[name] = entry
	}
	return entries
}
