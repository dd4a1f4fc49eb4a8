// Package gateway routes text-generation requests across providers with
// fallback: for each candidate model in a group it borrows an API key from
// the provider's pool, dispatches the call, and applies failure policy.
// Auth failures retire the key, anything else puts it back, and either way
// the walk moves on to the next candidate until one succeeds or the chain
// runs out.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/keyfleet/keyfleet/internal/adapter"
	"github.com/keyfleet/keyfleet/internal/catalog"
	"github.com/keyfleet/keyfleet/internal/credential"
	"github.com/keyfleet/keyfleet/internal/ui"
)

// Gateway is the fallback router. Construct it once at startup and share it
// by reference; it holds no per-request state.
type Gateway struct {
	registry *credential.Registry
	catalog  *catalog.Catalog
	clients  map[string]adapter.Client
	logger   *slog.Logger
}

// GatewayOption is a functional option for configuring a Gateway.
type GatewayOption func(*Gateway)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) GatewayOption {
	return func(g *Gateway) {
		g.logger = logger
	}
}

// New creates a Gateway over the given pools, catalog and provider dispatch
// table.
func New(registry *credential.Registry, cat *catalog.Catalog, clients map[string]adapter.Client, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		registry: registry,
		catalog:  cat,
		clients:  clients,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute runs one logical request against the first workable candidate in
// the named fallback group. Candidates are attempted strictly in group
// order; every failure short of total exhaustion is recovered locally by
// advancing to the next candidate. Returns the generated text, an
// UnknownGroupError when the group name is not in the catalog (no checkout
// is attempted), or an ExhaustedError carrying the last underlying failure.
func (g *Gateway) Execute(ctx context.Context, group, prompt string, opts adapter.Options) (string, error) {
	chain, err := g.catalog.ResolveGroup(group)
	if err != nil {
		return "", err
	}

	var lastErr error

	for i, modelName := range chain {
		model, ok := g.catalog.Lookup(modelName)
		if !ok {
			g.logger.Warn("model not in catalog, skipping",
				slog.String("group", group),
				slog.String("model", modelName),
			)
			continue
		}

		client, ok := g.clients[model.Provider]
		if !ok {
			g.logger.Warn("no client for provider, skipping",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
			)
			continue
		}

		// Skip providers with no usable keys before paying a checkout wait.
		if !g.registry.HasCredentials(model.Provider) {
			g.logger.Warn("no API keys for provider, skipping",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
			)
			// A real call failure is more informative than an availability
			// skip; keep it. The skip error only surfaces when every
			// candidate was keyless.
			if lastErr == nil {
				lastErr = &credential.PoolEmptyError{Provider: model.Provider}
			}
			continue
		}

		pool := g.registry.Pool(model.Provider)
		apiKey, err := pool.Checkout(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			g.logger.Warn("key checkout failed, skipping",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
				slog.String("error", err.Error()),
			)
			lastErr = err
			continue
		}

		g.logger.Debug("attempting call",
			slog.String("model", modelName),
			slog.String("provider", model.Provider),
			slog.String("key", credential.MaskKey(apiKey)),
		)

		start := time.Now()
		text, err := client.Complete(ctx, apiKey, modelName, prompt, mergeOptions(model, opts))
		if err == nil {
			pool.Release(apiKey)
			ui.PrintSuccess(modelName, time.Since(start))
			g.logger.Info("call succeeded",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
			)
			return text, nil
		}

		lastErr = err

		if adapter.IsAuthFailure(err) {
			// The key itself is bad; it never goes back into circulation.
			pool.Retire(apiKey)
			ui.PrintRetiredKey(model.Provider, apiKey, "auth failure")
			g.logger.Error("auth failure, key retired",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
				slog.String("key", credential.MaskKey(apiKey)),
				slog.String("error", err.Error()),
			)
		} else {
			pool.Release(apiKey)
			g.logger.Warn("call failed, trying next candidate",
				slog.String("model", modelName),
				slog.String("provider", model.Provider),
				slog.String("error", err.Error()),
			)
		}

		if i+1 < len(chain) {
			ui.PrintFallback(modelName, chain[i+1])
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}

	return "", &ExhaustedError{Group: group, LastErr: lastErr}
}

// mergeOptions layers the caller's options over the candidate's metadata.
// Caller-supplied keys always win and none are dropped.
func mergeOptions(model catalog.Model, opts adapter.Options) adapter.Options {
	merged := make(adapter.Options, len(opts)+1)
	if model.Mode != "" {
		merged["mode"] = model.Mode
	}
	for key, value := range opts {
		merged[key] = value
	}
	return merged
}
