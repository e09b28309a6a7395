// Package coordinator fans out to the three provider adapters concurrently
// and assembles their results into one FactSheet under an overall deadline.
package coordinator

import (
	"context"
	"time"

	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

type Coordinator struct {
	price        interfaces.PriceFetcher
	fundamentals interfaces.FundamentalsFetcher
	sentiment    interfaces.SentimentFetcher
	deadline     time.Duration
}

var _ interfaces.Gatherer = (*Coordinator)(nil)

// New creates a coordinator. deadline bounds the whole gather and must be at
// least the per-adapter call budget; config validation enforces that.
func New(price interfaces.PriceFetcher, fundamentals interfaces.FundamentalsFetcher,
	sentiment interfaces.SentimentFetcher, deadline time.Duration) *Coordinator {
	return &Coordinator{
		price:        price,
		fundamentals: fundamentals,
		sentiment:    sentiment,
		deadline:     deadline,
	}
}

type result struct {
	field        types.Field
	quote        *types.Quote
	fundamentals *types.FundamentalsSummary
	sentiment    *types.SentimentSummary
	ferr         *types.FetchError
}

// Gather launches the three fetches concurrently and joins them bounded by
// the overall deadline. Fetches still pending when the deadline elapses are
// cancelled and recorded as timed out. If two or more sources fail, Gather
// returns InsufficientDataError instead of a degraded FactSheet.
func (c *Coordinator) Gather(ctx context.Context, symbol string) (types.FactSheet, error) {
	ctx, span := trace.StartSpan(ctx, "coordinator.gather")
	defer span.End()

	gctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	// Buffered so stragglers can complete after the join without leaking.
	results := make(chan result, 3)

	go func() {
		q, ferr := c.price.Fetch(gctx, symbol)
		r := result{field: types.FieldQuote, ferr: ferr}
		if ferr == nil {
			r.quote = &q
		}
		results <- r
	}()
	go func() {
		f, ferr := c.fundamentals.Fetch(gctx, symbol)
		r := result{field: types.FieldFundamentals, ferr: ferr}
		if ferr == nil {
			r.fundamentals = &f
		}
		results <- r
	}()
	go func() {
		s, ferr := c.sentiment.Fetch(gctx, symbol)
		r := result{field: types.FieldSentiment, ferr: ferr}
		if ferr == nil {
			r.sentiment = &s
		}
		results <- r
	}()

	sheet := types.FactSheet{
		Symbol:    symbol,
		FetchedAt: time.Now().UTC(),
		Status:    make(map[types.Field]types.FieldStatus, 3),
	}

	settled := 0
join:
	for settled < 3 {
		select {
		case r := <-results:
			c.record(&sheet, r)
			settled++
		case <-gctx.Done():
			// Drain anything that finished in the same instant, then mark
			// the rest as timed out.
			for settled < 3 {
				select {
				case r := <-results:
					c.record(&sheet, r)
					settled++
				default:
					break join
				}
			}
		}
	}
	for _, field := range types.Fields() {
		if _, ok := sheet.Status[field]; !ok {
			sheet.Status[field] = types.FailedStatus(types.FetchTimeout)
		}
	}

	failures := make(map[types.Field]types.FieldStatus)
	for field, st := range sheet.Status {
		if !st.OK() {
			failures[field] = st
		}
	}
	if len(failures) >= 2 {
		err := &types.InsufficientDataError{Symbol: symbol, Failures: failures}
		logger.Warn(ctx, "Gather failed with insufficient data",
			"symbol", symbol, "failed_sources", len(failures))
		return types.FactSheet{}, err
	}

	logger.Info(ctx, "Fact sheet assembled",
		"symbol", symbol, "fields_present", sheet.PresentCount())
	return sheet, nil
}

func (c *Coordinator) record(sheet *types.FactSheet, r result) {
	if r.ferr != nil {
		sheet.Status[r.field] = types.FailedStatus(r.ferr.Kind)
		return
	}
	sheet.Status[r.field] = types.StatusOK
	switch r.field {
	case types.FieldQuote:
		sheet.Quote = r.quote
	case types.FieldFundamentals:
		sheet.Fundamentals = r.fundamentals
	case types.FieldSentiment:
		sheet.Sentiment = r.sentiment
	}
}
