package analyst

import (
	"context"
	"errors"
	"testing"
	"time"

	"stock-analyst/internal/types"
)

type fakeGatherer struct {
	sheet types.FactSheet
	err   error
	calls int
}

func (f *fakeGatherer) Gather(ctx context.Context, symbol string) (types.FactSheet, error) {
	f.calls++
	return f.sheet, f.err
}

type fakeReasoner struct {
	rec   types.Recommendation
	err   error
	calls int
}

func (f *fakeReasoner) Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error) {
	f.calls++
	if f.err != nil {
		return types.Recommendation{}, f.err
	}
	rec := f.rec
	rec.Symbol = facts.Symbol
	rec.Facts = facts
	return rec, nil
}

func completeSheet(symbol string) types.FactSheet {
	return types.FactSheet{
		Symbol:    symbol,
		FetchedAt: time.Now(),
		Quote:     &types.Quote{Symbol: symbol, Price: 152.50, Trend: types.TrendBullish},
		Fundamentals: &types.FundamentalsSummary{
			Symbol: symbol, PERatio: 25.5, ROE: 15.5, Assessment: "strong",
		},
		Sentiment: &types.SentimentSummary{Symbol: symbol, Overall: "Positive", PositivePct: 65},
		Status: map[types.Field]types.FieldStatus{
			types.FieldQuote:        types.StatusOK,
			types.FieldFundamentals: types.StatusOK,
			types.FieldSentiment:    types.StatusOK,
		},
	}
}

func TestAnalyzeHappyPath(t *testing.T) {
	gatherer := &fakeGatherer{sheet: completeSheet("AAPL")}
	reasoner := &fakeReasoner{rec: types.Recommendation{
		Action:     types.ActionBuy,
		Confidence: types.ConfidenceHigh,
		Rationale:  "Bullish price trend, strong fundamentals and majority-positive sentiment.",
	}}

	svc := New(gatherer, reasoner)

	rec, err := svc.Analyze(context.Background(), "aapl")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Symbol != "AAPL" {
		t.Errorf("expected uppercased symbol AAPL, got %s", rec.Symbol)
	}
	if rec.Action != types.ActionBuy || rec.Confidence != types.ConfidenceHigh {
		t.Errorf("expected BUY/High, got %s/%s", rec.Action, rec.Confidence)
	}
	if rec.Facts.PresentCount() != 3 {
		t.Error("expected full fact sheet on recommendation")
	}
}

func TestAnalyzePartialSheetStillRecommends(t *testing.T) {
	sheet := completeSheet("AAPL")
	sheet.Sentiment = nil
	sheet.Status[types.FieldSentiment] = types.FailedStatus(types.FetchRateLimited)

	gatherer := &fakeGatherer{sheet: sheet}
	reasoner := &fakeReasoner{rec: types.Recommendation{
		Action:     types.ActionBuy,
		Confidence: types.ConfidenceMedium,
		Rationale:  "Sentiment data was unavailable; verdict rests on price and fundamentals.",
	}}

	svc := New(gatherer, reasoner)

	rec, err := svc.Analyze(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Facts.Status[types.FieldSentiment]; got != "failed:rate_limited" {
		t.Errorf("expected sentiment marked failed:rate_limited, got %s", got)
	}
}

func TestAnalyzeInsufficientDataNeverReasons(t *testing.T) {
	gatherer := &fakeGatherer{err: &types.InsufficientDataError{
		Symbol: "AAPL",
		Failures: map[types.Field]types.FieldStatus{
			types.FieldQuote:        types.FailedStatus(types.FetchTimeout),
			types.FieldFundamentals: types.FailedStatus(types.FetchTimeout),
		},
	}}
	reasoner := &fakeReasoner{}

	svc := New(gatherer, reasoner)

	_, err := svc.Analyze(context.Background(), "AAPL")
	var insufficient *types.InsufficientDataError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientDataError, got %v", err)
	}
	if reasoner.calls != 0 {
		t.Errorf("reasoning service must not be invoked, got %d calls", reasoner.calls)
	}
}

func TestAnalyzeReasoningUnavailable(t *testing.T) {
	gatherer := &fakeGatherer{sheet: completeSheet("AAPL")}
	reasoner := &fakeReasoner{err: &types.ReasoningUnavailableError{
		Provider: "openai",
		Err:      context.DeadlineExceeded,
	}}

	svc := New(gatherer, reasoner)

	_, err := svc.Analyze(context.Background(), "AAPL")
	var unavailable *types.ReasoningUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ReasoningUnavailableError, got %v", err)
	}
}

func TestAnalyzeEmptySymbol(t *testing.T) {
	gatherer := &fakeGatherer{}
	svc := New(gatherer, &fakeReasoner{})

	_, err := svc.Analyze(context.Background(), "   ")
	if !errors.Is(err, ErrEmptySymbol) {
		t.Fatalf("expected ErrEmptySymbol, got %v", err)
	}
	if gatherer.calls != 0 {
		t.Error("gather must not run for an empty symbol")
	}
}
