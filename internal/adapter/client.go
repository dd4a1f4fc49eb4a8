// Package adapter provides implementations for external AI provider
// integrations. It uses the Adapter pattern to abstract provider-specific
// APIs behind a common interface.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Options carries free-form call parameters. The gateway merges candidate
// metadata (such as the model's mode hint) under the caller's options before
// dispatch; caller-supplied keys always win and are never dropped during the
// merge. Clients interpret the keys they understand and, where the wire
// format allows, pass unrecognized keys through to the provider.
type Options map[string]any

// Float reads a numeric option. Values arrive as float64 when the options
// were decoded from a JSON request body and as int or float64 when built in
// Go; both spellings are accepted.
func (o Options) Float(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Int reads a numeric option as an int, truncating a float64 value.
func (o Options) Int(key string) (int, bool) {
	switch v := o[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	}
	return 0, false
}

// Client is the contract every provider implementation must satisfy.
// Implementations are stateless with respect to credentials: the API key is
// supplied per call by the gateway, which owns its lifecycle.
type Client interface {
	// Complete sends the prompt to the named model and returns the
	// generated text. Failures are returned as *APIError where the
	// provider produced an HTTP status, so the gateway can classify them.
	Complete(ctx context.Context, apiKey, model, prompt string, opts Options) (string, error)

	// Name returns the provider's identifier string.
	Name() string
}

// APIError is a classified failure from a provider's API. StatusCode is the
// provider's HTTP status when one was received, zero for transport-level
// failures.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
}

// IsAuthFailure reports whether err indicates the API key itself is bad, as
// opposed to a transient provider or network failure. A structured 401/403
// status is the primary signal; a textual match on the error message is kept
// as a fallback for providers that only surface a string.
func IsAuthFailure(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode != 0 {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") ||
		strings.Contains(msg, "api key")
}
