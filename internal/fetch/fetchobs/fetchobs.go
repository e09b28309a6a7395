// Package fetchobs wraps the provider adapters with observability middleware.
package fetchobs

import (
	"context"

	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

type observablePrice struct {
	fetcher interfaces.PriceFetcher
}

var _ interfaces.PriceFetcher = (*observablePrice)(nil)

// WrapPrice wraps a price fetcher with logging and tracing.
func WrapPrice(f interfaces.PriceFetcher) interfaces.PriceFetcher {
	return &observablePrice{fetcher: f}
}

func (o *observablePrice) Fetch(ctx context.Context, symbol string) (types.Quote, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "fetch.price")
	defer span.End()

	q, ferr := o.fetcher.Fetch(ctx, symbol)
	logOutcome(ctx, "price", symbol, ferr, "price", q.Price, "trend", string(q.Trend))
	return q, ferr
}

type observableFundamentals struct {
	fetcher interfaces.FundamentalsFetcher
}

var _ interfaces.FundamentalsFetcher = (*observableFundamentals)(nil)

// WrapFundamentals wraps a fundamentals fetcher with logging and tracing.
func WrapFundamentals(f interfaces.FundamentalsFetcher) interfaces.FundamentalsFetcher {
	return &observableFundamentals{fetcher: f}
}

func (o *observableFundamentals) Fetch(ctx context.Context, symbol string) (types.FundamentalsSummary, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "fetch.fundamentals")
	defer span.End()

	fs, ferr := o.fetcher.Fetch(ctx, symbol)
	logOutcome(ctx, "fundamentals", symbol, ferr, "pe", fs.PERatio, "assessment", fs.Assessment)
	return fs, ferr
}

type observableSentiment struct {
	fetcher interfaces.SentimentFetcher
}

var _ interfaces.SentimentFetcher = (*observableSentiment)(nil)

// WrapSentiment wraps a sentiment fetcher with logging and tracing.
func WrapSentiment(f interfaces.SentimentFetcher) interfaces.SentimentFetcher {
	return &observableSentiment{fetcher: f}
}

func (o *observableSentiment) Fetch(ctx context.Context, symbol string) (types.SentimentSummary, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "fetch.sentiment")
	defer span.End()

	ss, ferr := o.fetcher.Fetch(ctx, symbol)
	logOutcome(ctx, "sentiment", symbol, ferr, "overall", ss.Overall, "sample_size", ss.SampleSize)
	return ss, ferr
}

func logOutcome(ctx context.Context, source, symbol string, ferr *types.FetchError, fields ...any) {
	if ferr != nil {
		logger.InfoSkip(ctx, 1, "Fetch failed",
			"source", source, "symbol", symbol, "kind", string(ferr.Kind), "error", ferr.Error())
		return
	}
	logger.InfoSkip(ctx, 1, "Fetch completed",
		append([]any{"source", source, "symbol", symbol}, fields...)...)
}
