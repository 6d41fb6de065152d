package wolframalphaquery

import (
	"fmt"
	"net/url"
	"time"

	"wolfram-alpha-mcp/internal/common/config"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	JobTimeout    time.Duration `mapstructure:"timeout"`
	Endpoint      string        `mapstructure:"endpoint"`
	Timeout       time.Duration `mapstructure:"request_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		JobTimeout:    35 * time.Second,
		Endpoint:      config.DefaultWolframEndpoint,
		Timeout:       config.GetDuration(config.DefaultWolframTimeout),
	}
}

// FromAppConfig merges the wolfram_alpha section and the worker entry over
// the defaults.
func FromAppConfig(appCfg *config.Config) *Config {
	c := DefaultConfig()
	if appCfg == nil {
		return c
	}

	if appCfg.WolframAlpha.Endpoint != "" {
		c.Endpoint = appCfg.WolframAlpha.Endpoint
	}
	if appCfg.WolframAlpha.Timeout > 0 {
		c.Timeout = config.GetDuration(appCfg.WolframAlpha.Timeout)
	}

	wcfg := config.GetWorkerConfig(appCfg, TaskType)
	c.Enabled = wcfg.Enabled
	if wcfg.MaxJobsActive > 0 {
		c.MaxJobsActive = wcfg.MaxJobsActive
	}
	if wcfg.Timeout > 0 {
		c.JobTimeout = config.GetDuration(wcfg.Timeout)
	}
	return c
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.JobTimeout <= 0 {
		return fmt.Errorf("job timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	u, err := url.Parse(c.Endpoint)
	if err != nil || u.Host == "" {
		return fmt.Errorf("endpoint must be an absolute URL")
	}
	return nil
}
