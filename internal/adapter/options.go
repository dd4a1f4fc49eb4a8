package adapter

import (
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout is the default HTTP client timeout for provider calls.
// This bounds the network call itself; the credential checkout wait has its
// own independent timeout owned by the pool.
const DefaultTimeout = 60 * time.Second

// clientConfig holds the transport settings shared by all provider clients.
type clientConfig struct {
	baseURL    string
	httpClient *http.Client
}

// Option is a functional option for configuring a provider client.
type Option func(*clientConfig)

// WithBaseURL sets a custom base URL for the provider's API.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.httpClient.Timeout = timeout
	}
}

func newClientConfig(baseURL string) clientConfig {
	return clientConfig{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}
