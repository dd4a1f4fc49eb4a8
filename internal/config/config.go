// Package config provides configuration management backed by Viper. It
// loads settings from config.yaml and KEYFLEET_-prefixed environment
// variables; API keys themselves come from the credential source, never
// from the config file.
package config

import (
	"fmt"
	"time"
)

// Configuration holds all application configuration values.
type Configuration struct {
	// Server configuration.
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Gateway configuration.
	Gateway GatewayConfig `json:"gateway" mapstructure:"gateway"`

	// Cache configuration.
	Cache CacheConfig `json:"cache" mapstructure:"cache"`

	// Logging configuration.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Groups optionally overrides or extends the built-in fallback groups.
	Groups map[string][]string `json:"groups" mapstructure:"groups"`
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	// Host is the server bind address.
	Host string `json:"host" mapstructure:"host"`

	// Port is the server port number.
	Port int `json:"port" mapstructure:"port"`

	// ReadTimeoutSeconds is the maximum duration for reading the entire request.
	ReadTimeoutSeconds int `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`

	// WriteTimeoutSeconds is the maximum duration before timing out writes of the response.
	WriteTimeoutSeconds int `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds is the maximum duration to wait for active connections to finish.
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

// ReadTimeout returns the read timeout as a duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the shutdown timeout as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// GatewayConfig holds fallback router configuration.
type GatewayConfig struct {
	// CheckoutTimeoutSeconds bounds how long a request waits for an API key.
	CheckoutTimeoutSeconds int `json:"checkout_timeout_seconds" mapstructure:"checkout_timeout_seconds"`

	// CredentialsDir is the directory scanned for .env.<provider> files.
	CredentialsDir string `json:"credentials_dir" mapstructure:"credentials_dir"`

	// RequestTimeoutSeconds bounds each provider network call.
	RequestTimeoutSeconds int `json:"request_timeout_seconds" mapstructure:"request_timeout_seconds"`
}

// CheckoutTimeout returns the checkout timeout as a duration.
func (c GatewayConfig) CheckoutTimeout() time.Duration {
	return time.Duration(c.CheckoutTimeoutSeconds) * time.Second
}

// RequestTimeout returns the provider call timeout as a duration.
func (c GatewayConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// CacheConfig holds response cache configuration.
type CacheConfig struct {
	// Enabled toggles the in-memory response cache.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// TTLSeconds is the time-to-live for cache entries.
	TTLSeconds int `json:"ttl_seconds" mapstructure:"ttl_seconds"`
}

// TTL returns the cache entry time-to-live as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `json:"level" mapstructure:"level"`

	// Format is the log format (json, text).
	Format string `json:"format" mapstructure:"format"`
}

// Validate validates the configuration and returns an error if required
// fields are missing or out of range.
func (c *Configuration) Validate() error {
	var validationErrors []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		validationErrors = append(validationErrors, "server.port must be between 1 and 65535")
	}

	if c.Gateway.CheckoutTimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "gateway.checkout_timeout_seconds must be positive")
	}

	if c.Gateway.RequestTimeoutSeconds <= 0 {
		validationErrors = append(validationErrors, "gateway.request_timeout_seconds must be positive")
	}

	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		validationErrors = append(validationErrors, "cache.ttl_seconds must be positive when the cache is enabled")
	}

	if c.Logging.Level != "" && !isValidLogLevel(c.Logging.Level) {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.level '%s' is invalid, must be one of: debug, info, warn, error",
			c.Logging.Level,
		))
	}

	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		validationErrors = append(validationErrors, fmt.Sprintf(
			"logging.format '%s' is invalid, must be one of: json, text",
			c.Logging.Format,
		))
	}

	for name, chain := range c.Groups {
		if len(chain) == 0 {
			validationErrors = append(validationErrors, fmt.Sprintf("groups.%s must list at least one model", name))
		}
	}

	if len(validationErrors) > 0 {
		return &ValidationError{Errors: validationErrors}
	}

	return nil
}

// isValidLogLevel checks if the log level is valid.
func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}
