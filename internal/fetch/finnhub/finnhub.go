// Package finnhub adapts the Finnhub basic financials endpoint into the
// normalized FundamentalsSummary record.
package finnhub

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"stock-analyst/internal/api"
	"stock-analyst/internal/fetch"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

const providerName = "finnhub"

type Client struct {
	http   *api.Client
	apiKey string
	budget time.Duration
}

func New(apiKey, baseURL string, budget time.Duration) *Client {
	return &Client{
		http:   api.NewClient(api.WithBaseURL(baseURL), api.WithLogging(true)),
		apiKey: apiKey,
		budget: budget,
	}
}

type metricResponse struct {
	Metric map[string]any `json:"metric"`
	Error  string         `json:"error"`
}

// Fetch retrieves the key financial metrics for symbol and derives the
// qualitative assessments.
func (c *Client) Fetch(ctx context.Context, symbol string) (types.FundamentalsSummary, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "finnhub-fetch")
	defer span.End()

	path := fmt.Sprintf("/stock/metric?symbol=%s&metric=all&token=%s",
		url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	resp, err := fetch.CallWithRetry(ctx, c.budget, func(actx context.Context) (*api.Response, error) {
		return c.http.GET(actx, path)
	})
	if err != nil {
		return types.FundamentalsSummary{}, fetch.ClassifyTransport(providerName, err)
	}
	if ferr := fetch.ClassifyStatus(providerName, resp.StatusCode); ferr != nil {
		return types.FundamentalsSummary{}, ferr
	}

	var payload metricResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return types.FundamentalsSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchMalformed, Err: err}
	}
	if payload.Error != "" {
		return types.FundamentalsSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchUnavailable, Msg: payload.Error}
	}

	pe, okPE := metricFloat(payload.Metric, "peBasicExclExtraTTM")
	roe, okROE := metricFloat(payload.Metric, "roeTTM")
	netMargin, _ := metricFloat(payload.Metric, "netProfitMarginTTM")
	if !okPE && !okROE {
		return types.FundamentalsSummary{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchMalformed, Msg: "no usable metrics for symbol"}
	}

	return types.FundamentalsSummary{
		Symbol:        symbol,
		PERatio:       pe,
		ROE:           roe,
		NetMargin:     netMargin,
		Assessment:    assess(pe, roe),
		Valuation:     valuation(pe),
		Profitability: profitability(netMargin),
	}, nil
}

func metricFloat(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

// assess derives the overall financial health label from valuation and
// returns. Thresholds follow the usual rules of thumb: double-digit ROE with
// a sane earnings multiple is strong, negative earnings or single-digit ROE
// is weak.
func assess(pe, roe float64) string {
	switch {
	case roe >= 15 && pe > 0 && pe <= 30:
		return "strong"
	case roe < 5 || pe <= 0 || pe > 40:
		return "weak"
	default:
		return "moderate"
	}
}

func valuation(pe float64) string {
	switch {
	case pe <= 0:
		return "N/A"
	case pe > 25:
		return "Expensive"
	case pe > 15:
		return "Fair"
	default:
		return "Cheap"
	}
}

func profitability(netMargin float64) string {
	switch {
	case netMargin > 15:
		return "Excellent"
	case netMargin > 5:
		return "Good"
	default:
		return "Weak"
	}
}
