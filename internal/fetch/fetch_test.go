package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stock-analyst/internal/api"
	"stock-analyst/internal/types"
)

func TestCallWithRetryRetriesOnceOnTimeout(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := api.NewClient(api.WithBaseURL(srv.URL))

	_, err := CallWithRetry(context.Background(), 20*time.Millisecond, func(ctx context.Context) (*api.Response, error) {
		return client.GET(ctx, "/")
	})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !api.IsTimeout(err) {
		t.Fatalf("expected timeout classification, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", n)
	}
}

func TestCallWithRetryNoRetryOnSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := api.NewClient(api.WithBaseURL(srv.URL))

	resp, err := CallWithRetry(context.Background(), time.Second, func(ctx context.Context) (*api.Response, error) {
		return client.GET(ctx, "/")
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected 1 attempt, got %d", n)
	}
}

func TestCallWithRetrySkipsRetryWhenParentDone(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := api.NewClient(api.WithBaseURL(srv.URL))

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := CallWithRetry(parent, time.Second, func(ctx context.Context) (*api.Response, error) {
		return client.GET(ctx, "/")
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected no retry after parent cancellation, got %d attempts", n)
	}
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		kind   types.FetchKind
	}{
		{http.StatusUnauthorized, types.FetchAuth},
		{http.StatusForbidden, types.FetchAuth},
		{http.StatusTooManyRequests, types.FetchRateLimited},
		{http.StatusInternalServerError, types.FetchUnavailable},
		{http.StatusBadGateway, types.FetchUnavailable},
	}
	for _, tt := range tests {
		ferr := ClassifyStatus("test", tt.status)
		if ferr == nil {
			t.Fatalf("status %d: expected error", tt.status)
		}
		if ferr.Kind != tt.kind {
			t.Errorf("status %d: expected kind %s, got %s", tt.status, tt.kind, ferr.Kind)
		}
	}

	if ferr := ClassifyStatus("test", http.StatusOK); ferr != nil {
		t.Errorf("expected nil for 200, got %v", ferr)
	}
}
