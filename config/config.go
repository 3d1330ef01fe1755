// Package config loads process configuration from defaults, an optional
// config file, and VENTURESCOPE_-prefixed environment variables, in rising
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full process configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `mapstructure:"addr"`

	// Provider selects the reasoning backend: "openai" or "anthropic".
	Provider string `mapstructure:"provider"`
	// Model overrides the provider's default model id.
	Model string `mapstructure:"model"`

	// APIKeys lists the client keys accepted by the server. Empty disables
	// client auth.
	APIKeys []string `mapstructure:"api_keys"`
	// SerperAPIKey enables the web search backend.
	SerperAPIKey string `mapstructure:"serper_api_key"`

	// ToolTimeout bounds each tool call.
	ToolTimeout time.Duration `mapstructure:"tool_timeout"`
	// MaxConcurrentTools limits in-flight tool calls process-wide.
	MaxConcurrentTools int64 `mapstructure:"max_concurrent_tools"`
	// StepBudget bounds reasoning turns per task at standard depth.
	StepBudget int `mapstructure:"step_budget"`
	// DetailedStepBudget applies at detailed depth.
	DetailedStepBudget int `mapstructure:"detailed_step_budget"`

	// LogLevel is one of debug/info/warn/error.
	LogLevel string `mapstructure:"log_level"`
	// LogFormat is "json" or "text".
	LogFormat string `mapstructure:"log_format"`
}

// Load reads configuration. path optionally names a config file; an empty
// path skips file loading without error, a named file that is missing or
// malformed is an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8000")
	v.SetDefault("provider", "openai")
	v.SetDefault("model", "")
	v.SetDefault("api_keys", []string{})
	v.SetDefault("serper_api_key", "")
	v.SetDefault("tool_timeout", 30*time.Second)
	v.SetDefault("max_concurrent_tools", 8)
	v.SetDefault("step_budget", 6)
	v.SetDefault("detailed_step_budget", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetEnvPrefix("VENTURESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown provider %q (want openai or anthropic)", c.Provider)
	}
	if c.StepBudget <= 0 {
		return fmt.Errorf("step_budget must be positive, got %d", c.StepBudget)
	}
	if c.DetailedStepBudget < c.StepBudget {
		return fmt.Errorf("detailed_step_budget (%d) must be at least step_budget (%d)",
			c.DetailedStepBudget, c.StepBudget)
	}
	if c.ToolTimeout <= 0 {
		return fmt.Errorf("tool_timeout must be positive, got %s", c.ToolTimeout)
	}
	return nil
}
