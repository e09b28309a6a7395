package interfaces

import (
	"context"

	"stock-analyst/internal/types"
)

// The three fetcher contracts share one shape: issue a single provider call,
// normalize the response, classify any failure. Adapters are stateless and
// safe to invoke concurrently for different symbols.

type PriceFetcher interface {
	Fetch(ctx context.Context, symbol string) (types.Quote, *types.FetchError)
}

type FundamentalsFetcher interface {
	Fetch(ctx context.Context, symbol string) (types.FundamentalsSummary, *types.FetchError)
}

type SentimentFetcher interface {
	Fetch(ctx context.Context, symbol string) (types.SentimentSummary, *types.FetchError)
}
