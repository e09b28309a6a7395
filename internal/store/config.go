package store

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigError reports a configuration problem found at startup, such as a
// missing provider credential. It is fatal for the process, never per-request.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "config error: " + e.Reason }

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Fetch struct {
		CallTimeoutSeconds   int `yaml:"call_timeout_seconds"`
		GatherTimeoutSeconds int `yaml:"gather_timeout_seconds"`
	} `yaml:"fetch"`
	Providers struct {
		AlphaVantage struct {
			BaseURL   string `yaml:"base_url"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"alpha_vantage"`
		Finnhub struct {
			BaseURL   string `yaml:"base_url"`
			APIKeyEnv string `yaml:"api_key_env"`
		} `yaml:"finnhub"`
		NewsAPI struct {
			BaseURL        string `yaml:"base_url"`
			APIKeyEnv      string `yaml:"api_key_env"`
			PageSize       int    `yaml:"page_size"`
			FallbackScrape bool   `yaml:"fallback_scrape"`
		} `yaml:"newsapi"`
	} `yaml:"providers"`
	LLM struct {
		Provider       string  `yaml:"provider"` // OPENAI, CLAUDE or NOOP
		Model          string  `yaml:"model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float32 `yaml:"temperature"`
		TimeoutSeconds int     `yaml:"timeout_seconds"`
		System         string  `yaml:"system"`
	} `yaml:"llm"`
}

// Credentials holds the resolved API keys for the external collaborators.
// Constructed once at startup and passed to the adapters, never read from the
// environment inside business logic.
type Credentials struct {
	AlphaVantage string
	Finnhub      string
	NewsAPI      string
	LLM          string
}

func (c *Config) Validate() error {
	if c.Fetch.GatherTimeoutSeconds < c.Fetch.CallTimeoutSeconds {
		return &ConfigError{Reason: fmt.Sprintf(
			"fetch.gather_timeout_seconds (%d) must be >= fetch.call_timeout_seconds (%d)",
			c.Fetch.GatherTimeoutSeconds, c.Fetch.CallTimeoutSeconds)}
	}
	switch c.LLM.Provider {
	case "OPENAI", "CLAUDE", "NOOP":
	default:
		return &ConfigError{Reason: fmt.Sprintf(
			"llm.provider must be 'OPENAI', 'CLAUDE' or 'NOOP', got '%s'", c.LLM.Provider)}
	}
	return nil
}

// CallTimeout returns the per-adapter call budget.
func (c *Config) CallTimeout() time.Duration {
	return time.Duration(c.Fetch.CallTimeoutSeconds) * time.Second
}

// GatherTimeout returns the overall deadline for one gather.
func (c *Config) GatherTimeout() time.Duration {
	return time.Duration(c.Fetch.GatherTimeoutSeconds) * time.Second
}

// LLMTimeout returns the reasoning call timeout.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// ResolveCredentials reads the provider API keys from the environment. Every
// missing key is a startup-time ConfigError. The LLM key is not required when
// the NOOP provider is configured.
func (c *Config) ResolveCredentials() (Credentials, error) {
	creds := Credentials{
		AlphaVantage: os.Getenv(c.Providers.AlphaVantage.APIKeyEnv),
		Finnhub:      os.Getenv(c.Providers.Finnhub.APIKeyEnv),
		NewsAPI:      os.Getenv(c.Providers.NewsAPI.APIKeyEnv),
	}
	if creds.AlphaVantage == "" {
		return creds, &ConfigError{Reason: c.Providers.AlphaVantage.APIKeyEnv + " not set"}
	}
	if creds.Finnhub == "" {
		return creds, &ConfigError{Reason: c.Providers.Finnhub.APIKeyEnv + " not set"}
	}
	if creds.NewsAPI == "" {
		return creds, &ConfigError{Reason: c.Providers.NewsAPI.APIKeyEnv + " not set"}
	}

	switch c.LLM.Provider {
	case "OPENAI":
		creds.LLM = os.Getenv("OPENAI_API_KEY")
		if creds.LLM == "" {
			return creds, &ConfigError{Reason: "OPENAI_API_KEY not set"}
		}
	case "CLAUDE":
		creds.LLM = os.Getenv("CLAUDE_API_KEY")
		if creds.LLM == "" {
			return creds, &ConfigError{Reason: "CLAUDE_API_KEY not set"}
		}
	}
	return creds, nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	applyDefaults(&c)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}

func applyDefaults(c *Config) {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Fetch.CallTimeoutSeconds == 0 {
		c.Fetch.CallTimeoutSeconds = 10
	}
	if c.Fetch.GatherTimeoutSeconds == 0 {
		c.Fetch.GatherTimeoutSeconds = 15
	}
	if c.Providers.AlphaVantage.BaseURL == "" {
		c.Providers.AlphaVantage.BaseURL = "https://www.alphavantage.co"
	}
	if c.Providers.AlphaVantage.APIKeyEnv == "" {
		c.Providers.AlphaVantage.APIKeyEnv = "ALPHA_VANTAGE_API_KEY"
	}
	if c.Providers.Finnhub.BaseURL == "" {
		c.Providers.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Providers.Finnhub.APIKeyEnv == "" {
		c.Providers.Finnhub.APIKeyEnv = "FINNHUB_API_KEY"
	}
	if c.Providers.NewsAPI.BaseURL == "" {
		c.Providers.NewsAPI.BaseURL = "https://newsapi.org"
	}
	if c.Providers.NewsAPI.APIKeyEnv == "" {
		c.Providers.NewsAPI.APIKeyEnv = "NEWS_API_KEY"
	}
	if c.Providers.NewsAPI.PageSize == 0 {
		c.Providers.NewsAPI.PageSize = 50
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "NOOP"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4o"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 512
	}
	if c.LLM.TimeoutSeconds == 0 {
		c.LLM.TimeoutSeconds = 30
	}
}
