package main

import (
	"context"
	"fmt"
	"os"

	"stock-analyst/internal/analyst"
	"stock-analyst/internal/coordinator"
	"stock-analyst/internal/fetch/alphavantage"
	"stock-analyst/internal/fetch/fetchobs"
	"stock-analyst/internal/fetch/finnhub"
	"stock-analyst/internal/fetch/newsapi"
	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/reason/claude"
	"stock-analyst/internal/reason/noop"
	"stock-analyst/internal/reason/openai"
	"stock-analyst/internal/reason/reasonobs"
	"stock-analyst/internal/store"
	"stock-analyst/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads the configuration and resolves provider credentials.
// A missing credential is fatal here, at startup, never per-request.
func loadConfig(ctx context.Context) (*store.Config, store.Credentials, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, store.Credentials{}, err
	}

	creds, err := cfg.ResolveCredentials()
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to resolve credentials", err)
		return nil, store.Credentials{}, err
	}

	return cfg, creds, nil
}

// initializeCoordinator builds the three provider adapters with observability
// and wires them into the coordinator.
func initializeCoordinator(cfg *store.Config, creds store.Credentials) *coordinator.Coordinator {
	budget := cfg.CallTimeout()

	price := fetchobs.WrapPrice(
		alphavantage.New(creds.AlphaVantage, cfg.Providers.AlphaVantage.BaseURL, budget))
	fundamentals := fetchobs.WrapFundamentals(
		finnhub.New(creds.Finnhub, cfg.Providers.Finnhub.BaseURL, budget))

	var newsOpts []newsapi.Option
	if cfg.Providers.NewsAPI.FallbackScrape {
		newsOpts = append(newsOpts, newsapi.WithScrapeFallback())
	}
	sentiment := fetchobs.WrapSentiment(
		newsapi.New(creds.NewsAPI, cfg.Providers.NewsAPI.BaseURL,
			cfg.Providers.NewsAPI.PageSize, budget, newsOpts...))

	return coordinator.New(price, fundamentals, sentiment, cfg.GatherTimeout())
}

// initializeReasoner builds the configured LLM reasoner with observability
func initializeReasoner(ctx context.Context, cfg *store.Config, creds store.Credentials) interfaces.Reasoner {
	var reasoner interfaces.Reasoner

	switch cfg.LLM.Provider {
	case "OPENAI":
		reasoner = openai.New(cfg, creds.LLM)
	case "CLAUDE":
		reasoner = claude.New(cfg, creds.LLM)
	default:
		reasoner = noop.New()
		logger.Warn(ctx, "No LLM provider configured - using Noop reasoner (always HOLD)")
	}

	return reasonobs.Wrap(reasoner)
}

// initializeAnalyst composes the facade
func initializeAnalyst(coord *coordinator.Coordinator, reasoner interfaces.Reasoner) interfaces.Analyzer {
	return analyst.New(coord, reasoner)
}
