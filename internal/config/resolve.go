package config

import (
	"fmt"
	"os"
	"strings"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	BaseURL string
	APIKey  string
}

// ResolveClientConfig resolves client settings with flag overrides applied on
// top of environment variables and the stored account.
func ResolveClientConfig(baseURLOverride, apiKeyOverride string) (ClientConfig, error) {
	var cfg ClientConfig

	if account, err := LoadAccount(); err == nil {
		cfg.BaseURL = account.BaseURL
		cfg.APIKey = account.APIKey
	}

	if envURL := strings.TrimSpace(os.Getenv("SM8_BASE_URL")); envURL != "" {
		cfg.BaseURL = strings.TrimSuffix(envURL, "/")
	}
	if baseURLOverride != "" {
		cfg.BaseURL = strings.TrimSuffix(baseURLOverride, "/")
	}
	if apiKeyOverride != "" {
		cfg.APIKey = apiKeyOverride
	}

	if cfg.APIKey == "" {
		return ClientConfig{}, fmt.Errorf("API key not configured (set SM8_API_KEY, run 'sm8 auth login', or pass --api-key)")
	}

	return cfg, nil
}
