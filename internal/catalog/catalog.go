// Package catalog holds the static model registry and the named fallback
// groups the gateway routes against. These structs are framework-agnostic
// and represent the heart of the application.
package catalog

import (
	"fmt"
	"sort"
)

// Provider name constants. Each maps to one client in the adapter package.
const (
	ProviderGoogle   = "google"
	ProviderMistral  = "mistral"
	ProviderGroq     = "groq"
	ProviderCohere   = "cohere"
	ProviderCerebras = "cerebras"
)

// ModeReasoning is the execution mode hint that activates reasoning-oriented
// request shaping in provider clients that support it.
const ModeReasoning = "reasoning"

// Model describes one entry in the registry: its name, the provider that
// serves it, and an optional execution mode hint. Models are immutable after
// catalog construction; the gateway treats them as read-only input.
type Model struct {
	// Name is the provider-side model identifier.
	Name string `json:"name"`

	// Provider is the name of the provider that owns this model.
	Provider string `json:"provider"`

	// Mode is an optional execution mode hint (e.g. "reasoning").
	Mode string `json:"mode,omitempty"`

	// Description is a human-readable summary for listings.
	Description string `json:"description,omitempty"`
}

// UnknownGroupError is returned when a fallback group name is not present in
// the catalog. The gateway fails fast on it without attempting any checkout.
type UnknownGroupError struct {
	Group string
}

func (e *UnknownGroupError) Error() string {
	return fmt.Sprintf("model group %q not found in the catalog", e.Group)
}

// Catalog maps model names to their descriptors and group names to ordered
// fallback chains. It is built once at startup and never mutated afterwards,
// so it is safe for concurrent readers.
type Catalog struct {
	models map[string]Model
	groups map[string][]string
}

// New builds a catalog from a model list and a set of named groups.
func New(models []Model, groups map[string][]string) *Catalog {
	c := &Catalog{
		models: make(map[string]Model, len(models)),
		groups: make(map[string][]string, len(groups)),
	}
	for _, m := range models {
		c.models[m.Name] = m
	}
	for name, chain := range groups {
		c.groups[name] = append([]string(nil), chain...)
	}
	return c
}

// Lookup returns the descriptor for a model name. The second return value is
// false when the model is not in the registry; the gateway skips such
// candidates instead of failing the whole request.
func (c *Catalog) Lookup(model string) (Model, bool) {
	m, ok := c.models[model]
	return m, ok
}

// ResolveGroup returns the ordered fallback chain for a group name.
// Returns an UnknownGroupError if the group does not exist.
func (c *Catalog) ResolveGroup(group string) ([]string, error) {
	chain, ok := c.groups[group]
	if !ok {
		return nil, &UnknownGroupError{Group: group}
	}
	return append([]string(nil), chain...), nil
}

// OverrideGroups replaces or adds fallback groups, e.g. from configuration.
// Built-in groups not named in the override are kept as-is. Must be called
// during startup, before the catalog is shared between goroutines.
func (c *Catalog) OverrideGroups(groups map[string][]string) {
	for name, chain := range groups {
		c.groups[name] = append([]string(nil), chain...)
	}
}

// Groups returns all group names in sorted order.
func (c *Catalog) Groups() []string {
	names := make([]string, 0, len(c.groups))
	for name := range c.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Providers returns the distinct provider names referenced by the registry,
// in sorted order.
func (c *Catalog) Providers() []string {
	seen := make(map[string]struct{})
	for _, m := range c.models {
		seen[m.Provider] = struct{}{}
	}
	providers := make([]string, 0, len(seen))
	for p := range seen {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// Models returns all model descriptors sorted by name.
func (c *Catalog) Models() []Model {
	models := make([]Model, 0, len(c.models))
	for _, m := range c.models {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	return models
}
