// Package fetch holds the plumbing shared by the three provider adapters:
// the per-call budget with its single timeout retry, and the common HTTP
// status classification.
package fetch

import (
	"context"
	"net/http"
	"time"

	"stock-analyst/internal/api"
	"stock-analyst/internal/types"
)

// CallWithRetry runs call under a per-attempt budget and retries exactly once
// if the first attempt times out. A second timeout is surfaced to the caller;
// it is not retried further. The retry is skipped when the parent context is
// already done, so a cancelled gather never spawns a second attempt.
func CallWithRetry(ctx context.Context, budget time.Duration, call func(context.Context) (*api.Response, error)) (*api.Response, error) {
	attempt := func() (*api.Response, error) {
		actx, cancel := context.WithTimeout(ctx, budget)
		defer cancel()
		return call(actx)
	}

	resp, err := attempt()
	if err == nil || !api.IsTimeout(err) || ctx.Err() != nil {
		return resp, err
	}
	return attempt()
}

// ClassifyTransport maps a transport-level error to a FetchError.
func ClassifyTransport(provider string, err error) *types.FetchError {
	if api.IsTimeout(err) {
		return &types.FetchError{Provider: provider, Kind: types.FetchTimeout, Err: err}
	}
	return &types.FetchError{Provider: provider, Kind: types.FetchUnavailable, Err: err}
}

// ClassifyStatus maps a non-2xx HTTP status to a FetchError, or nil for
// success statuses.
func ClassifyStatus(provider string, status int) *types.FetchError {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &types.FetchError{Provider: provider, Kind: types.FetchAuth,
			Msg: "provider rejected credential"}
	case status == http.StatusTooManyRequests:
		return &types.FetchError{Provider: provider, Kind: types.FetchRateLimited,
			Msg: "provider quota exceeded"}
	default:
		return &types.FetchError{Provider: provider, Kind: types.FetchUnavailable,
			Msg: http.StatusText(status)}
	}
}
