package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %s", cfg.Server.Addr)
	}
	if cfg.CallTimeout() != 10*time.Second {
		t.Errorf("expected 10s call timeout, got %v", cfg.CallTimeout())
	}
	if cfg.GatherTimeout() != 15*time.Second {
		t.Errorf("expected 15s gather timeout, got %v", cfg.GatherTimeout())
	}
	if cfg.LLMTimeout() != 30*time.Second {
		t.Errorf("expected 30s llm timeout, got %v", cfg.LLMTimeout())
	}
	if cfg.Providers.NewsAPI.PageSize != 50 {
		t.Errorf("expected page size 50, got %d", cfg.Providers.NewsAPI.PageSize)
	}
	if cfg.LLM.Provider != "NOOP" {
		t.Errorf("expected NOOP provider default, got %s", cfg.LLM.Provider)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `
server:
  addr: ":9090"
fetch:
  call_timeout_seconds: 5
  gather_timeout_seconds: 8
llm:
  provider: CLAUDE
  model: claude-3-5-sonnet-20241022
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("expected :9090, got %s", cfg.Server.Addr)
	}
	if cfg.CallTimeout() != 5*time.Second || cfg.GatherTimeout() != 8*time.Second {
		t.Errorf("timeouts not applied: %v / %v", cfg.CallTimeout(), cfg.GatherTimeout())
	}
	if cfg.LLM.Provider != "CLAUDE" {
		t.Errorf("expected CLAUDE, got %s", cfg.LLM.Provider)
	}
}

func TestLoadConfigRejectsGatherShorterThanCall(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
fetch:
  call_timeout_seconds: 10
  gather_timeout_seconds: 5
`))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestLoadConfigRejectsUnknownProvider(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
llm:
  provider: GEMINI
`))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestResolveCredentials(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("NEWS_API_KEY", "na-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	cfg, err := LoadConfig(writeConfig(t, "llm:\n  provider: OPENAI\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	creds, err := cfg.ResolveCredentials()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.AlphaVantage != "av-key" || creds.Finnhub != "fh-key" ||
		creds.NewsAPI != "na-key" || creds.LLM != "oa-key" {
		t.Errorf("unexpected credentials: %+v", creds)
	}
}

func TestResolveCredentialsMissingProviderKey(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("FINNHUB_API_KEY", "")
	t.Setenv("NEWS_API_KEY", "na-key")

	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = cfg.ResolveCredentials()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
}

func TestResolveCredentialsNoopSkipsLLMKey(t *testing.T) {
	t.Setenv("ALPHA_VANTAGE_API_KEY", "av-key")
	t.Setenv("FINNHUB_API_KEY", "fh-key")
	t.Setenv("NEWS_API_KEY", "na-key")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("CLAUDE_API_KEY", "")

	cfg, err := LoadConfig(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	creds, err := cfg.ResolveCredentials()
	if err != nil {
		t.Fatalf("NOOP must not require a reasoning key, got %v", err)
	}
	if creds.LLM != "" {
		t.Errorf("expected empty llm key, got %q", creds.LLM)
	}
}
