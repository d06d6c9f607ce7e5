package cmd

import (
	"time"

	"github.com/servicem8/sm8-cli/internal/api"
	"github.com/servicem8/sm8-cli/internal/config"
)

// clientFactory builds API clients from resolved credentials and the
// global flag state.
type clientFactory struct {
	timeout   time.Duration
	userAgent string
}

func newClientFactory() *clientFactory {
	timeout := api.DefaultTimeout
	if flags.Timeout > 0 {
		timeout = flags.Timeout
	}
	return &clientFactory{
		timeout:   timeout,
		userAgent: "sm8-cli/" + version,
	}
}

func (f *clientFactory) client() (*api.Client, error) {
	cfg, err := config.ResolveClientConfig(flags.BaseURL, flags.APIKey)
	if err != nil {
		return nil, err
	}
	c := api.New(cfg.BaseURL, cfg.APIKey)
	c.HTTP.Timeout = f.timeout
	c.UserAgent = f.userAgent
	return c, nil
}
