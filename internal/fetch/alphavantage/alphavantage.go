// Package alphavantage adapts the Alpha Vantage daily time series into the
// normalized Quote record: latest price, daily change, 20/50-day moving
// averages and a simple trend classification.
package alphavantage

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"stock-analyst/internal/api"
	"stock-analyst/internal/fetch"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

const providerName = "alphavantage"

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

type dailyResponse struct {
	ErrorMessage string                       `json:"Error Message"`
	Note         string                       `json:"Note"`
	Series       map[string]map[string]string `json:"Time Series (Daily)"`
}

// Fetch retrieves the daily series for symbol and normalizes it into a Quote.
func (c *Client) Fetch(ctx context.Context, symbol string) (types.Quote, *types.FetchError) {
	ctx, span := trace.StartSpan(ctx, "alphavantage-fetch")
	defer span.End()

	path := fmt.Sprintf("/query?function=TIME_SERIES_DAILY&symbol=%s&outputsize=compact&apikey=%s",
		url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	resp, err := fetch.CallWithRetry(ctx, c.budget, func(actx context.Context) (*api.Response, error) {
		return c.http.GET(actx, path)
	})
	if err != nil {
		return types.Quote{}, fetch.ClassifyTransport(providerName, err)
	}
	if ferr := fetch.ClassifyStatus(providerName, resp.StatusCode); ferr != nil {
		return types.Quote{}, ferr
	}

	var payload dailyResponse
	if err := resp.ParseJSON(&payload); err != nil {
		return types.Quote{}, &types.FetchError{Provider: providerName, Kind: types.FetchMalformed, Err: err}
	}

	// Alpha Vantage signals free-tier throttling with a 200 and a "Note".
	if payload.Note != "" {
		return types.Quote{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchRateLimited, Msg: "quota note in response"}
	}
	if payload.ErrorMessage != "" {
		return types.Quote{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchUnavailable, Msg: payload.ErrorMessage}
	}

	return normalize(symbol, payload.Series)
}

func normalize(symbol string, series map[string]map[string]string) (types.Quote, *types.FetchError) {
	malformed := func(msg string) (types.Quote, *types.FetchError) {
		return types.Quote{}, &types.FetchError{Provider: providerName,
			Kind: types.FetchMalformed, Msg: msg}
	}

	if len(series) < 2 {
		return malformed(fmt.Sprintf("need at least 2 trading days, got %d", len(series)))
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	latest := series[dates[0]]
	previous := series[dates[1]]

	price, err1 := barField(latest, "4. close")
	prevClose, err2 := barField(previous, "4. close")
	dayHigh, err3 := barField(latest, "2. high")
	dayLow, err4 := barField(latest, "3. low")
	for _, err := range []error{err1, err2, err3, err4} {
		if err != nil {
			return malformed(err.Error())
		}
	}
	if prevClose == 0 {
		return malformed("previous close is zero")
	}

	volume := int64(0)
	if v, ok := latest["5. volume"]; ok {
		volume, _ = strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}

	closes := make([]float64, 0, 50)
	for _, d := range dates {
		if len(closes) == 50 {
			break
		}
		cl, err := barField(series[d], "4. close")
		if err != nil {
			return malformed(err.Error())
		}
		closes = append(closes, cl)
	}

	q := types.Quote{
		Symbol:    symbol,
		Price:     price,
		ChangePct: (price - prevClose) / prevClose * 100,
		DayHigh:   dayHigh,
		DayLow:    dayLow,
		Volume:    volume,
		Trend:     types.TrendNeutral,
		AsOf:      dates[0],
	}

	if len(closes) >= 20 {
		q.SMA20 = mean(closes[:20])
	}
	if len(closes) >= 50 {
		q.SMA50 = mean(closes[:50])
	}

	// Trend calls need both averages: above both and rising means bullish,
	// below both and falling means bearish, anything else stays neutral.
	if q.SMA20 > 0 && q.SMA50 > 0 {
		switch {
		case price > q.SMA20 && q.SMA20 > q.SMA50:
			q.Trend = types.TrendBullish
		case price < q.SMA20 && q.SMA20 < q.SMA50:
			q.Trend = types.TrendBearish
		}
	}

	return q, nil
}

func barField(bar map[string]string, key string) (float64, error) {
	raw, ok := bar[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable field %q: %v", key, err)
	}
	return v, nil
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
