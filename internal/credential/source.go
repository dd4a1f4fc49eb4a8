package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Source supplies the keys a provider's pool is built from. Load returns an
// ordered, deduplicated list of secrets; an empty list is valid and means
// the provider is registered with an empty pool.
type Source interface {
	Load(provider string) ([]string, error)
}

// EnvFileSource loads keys from the process environment and per-provider env
// files. Priority order (highest to lowest):
//  1. <PROVIDER>_API_KEYS environment variable (comma-separated)
//  2. <PROVIDER>_API_KEYS entry in <dir>/.env.<provider>
//
// Example: .env.google containing GOOGLE_API_KEYS="key1,key2".
type EnvFileSource struct {
	dir string
}

// NewEnvFileSource creates a source reading .env.<provider> files from dir.
func NewEnvFileSource(dir string) *EnvFileSource {
	if dir == "" {
		dir = "."
	}
	return &EnvFileSource{dir: dir}
}

// Load returns the keys configured for the given provider name.
func (s *EnvFileSource) Load(provider string) ([]string, error) {
	varName := strings.ToUpper(provider) + "_API_KEYS"

	if raw := os.Getenv(varName); raw != "" {
		return splitKeys(raw), nil
	}

	path := filepath.Join(s.dir, ".env."+strings.ToLower(provider))
	values, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return splitKeys(values[varName]), nil
}

// splitKeys parses a comma-separated key list, trimming whitespace and
// dropping empties and duplicates while preserving order.
func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keys := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		key := strings.TrimSpace(part)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys
}

// StaticSource serves a fixed provider→keys map. Intended for tests and for
// wiring keys straight from configuration.
type StaticSource map[string][]string

// Load returns the configured keys for the provider, or nil if none.
func (s StaticSource) Load(provider string) ([]string, error) {
	return s[provider], nil
}
