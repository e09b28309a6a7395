// Package newsapi adapts NewsAPI headlines into the normalized
// SentimentSummary record using keyword-based headline classification.
package newsapi

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"stock-analyst/internal/api"
	"stock-analyst/internal/fetch"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

const providerName = "newsapi"

type Client struct {
	http     *api.Client
	apiKey   string
	pageSize int
	budget   time.Duration
	scraper  *headlineScraper // optional Google News fallback when the feed is empty
}

type Option func(*Client)

// WithScrapeFallback enables the Google News headline fallback that kicks in
// when NewsAPI responds successfully but yields no usable headlines.
func WithScrapeFallback() Option {
	return func(c *Client) {
		c.scraper = newHeadlineScraper(c.budget)
	}
}

func New(apiKey, baseURL string, pageSize int, budget time.Duration, opts ...Option) *Client {
	c := &Client{
		http:     api.NewClient(api.WithBaseURL(baseURL), api.WithLogging(true)),
		apiKey:   apiKey,
		pageSize: pageSize,
		budget:   budget,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type everythingResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title string `json:"title"`
	} `json:"articles"`
}

// Fetch retrieves recent headlines for symbol and classifies their sentiment.
func (c *Client) Fetch(ctx context.Context, symbol string) (types.SentimentSummary, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "newsapi-fetch")
	defer span.End()

	query := url.Values{}
	query.Set("q", fmt.Sprintf("%s stock OR %s company", symbol, symbol))
	query.Set("sortBy", "relevancy")
	query.Set("language", "en")
	query.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	query.Set("apiKey", c.apiKey)

	resp, err := fetch.CallWithRetry(ctx, c.budget, func(actx context.Context) (*api.Response, error) {
		return c.http.GET(actx, "/v2/everything?"+query.Encode())
	})
	if err != nil {
		return types.SentimentSummary{}, fetch.ClassifyTransport(providerName, err)
	}
	if ferr := fetch.ClassifyStatus(providerName, resp.StatusCode); ferr != nil {
		return types.SentimentSummary{}, ferr
	}

	var payload everythingResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return types.SentimentSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchMalformed, Err: err}
	}
	if payload.Status != "ok" {
		return types.SentimentSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchUnavailable, Msg: payload.Message}
	}

	headlines := make([]string, 0, len(payload.Articles))
	for _, a := range payload.Articles {
		if a.Title != "" && a.Title != "[Removed]" {
			headlines = append(headlines, a.Title)
		}
	}

	if len(headlines) == 0 && c.scraper != nil {
		logger.Info(ctx, "No headlines from NewsAPI, trying Google News fallback", "symbol", symbol)
		headlines = c.scraper.scrape(ctx, symbol, c.pageSize)
	}
	if len(headlines) == 0 {
		return types.SentimentSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchUnavailable, Msg: "no recent headlines for symbol"}
	}

	return summarize(symbol, headlines), nil
}

// summarize classifies every headline and aggregates the counts into the
// overall label and percentages.
func summarize(symbol string, headlines []string) types.SentimentSummary {
	var positive, negative, neutral int
	for _, h := range headlines {
		switch classify(h) {
		case sentimentPositive:
			positive++
		case sentimentNegative:
			negative++
		default:
			neutral++
		}
	}

	total := len(headlines)
	overall := "Neutral"
	if positive > negative {
		overall = "Positive"
	} else if negative > positive {
		overall = "Negative"
	}

	pct := func(n int) float64 { return float64(n) / float64(total) * 100 }

	return types.SentimentSummary{
		Symbol:      symbol,
		Overall:     overall,
		PositivePct: pct(positive),
		NegativePct: pct(negative),
		NeutralPct:  pct(neutral),
		SampleSize:  total,
	}
}
