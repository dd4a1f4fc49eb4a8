package adapter

import "github.com/keyfleet/keyfleet/internal/catalog"

// DefaultClients builds the provider dispatch table: one client per known
// provider, constructed once at startup. Adding a provider means adding a
// new Client implementation and registering it here; the table is never
// extended at runtime.
func DefaultClients(opts ...Option) map[string]Client {
	return map[string]Client{
		catalog.ProviderGoogle:   NewGoogleClient(opts...),
		catalog.ProviderMistral:  NewMistralClient(opts...),
		catalog.ProviderGroq:     NewGroqClient(opts...),
		catalog.ProviderCohere:   NewCohereClient(opts...),
		catalog.ProviderCerebras: NewCerebrasClient(opts...),
	}
}
