package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"stock-analyst/internal/store"
	"stock-analyst/internal/types"
)

func testConfig(t *testing.T, endpoint string, timeout time.Duration) *store.Config {
	t.Helper()
	t.Setenv("OPENAI_API_ENDPOINT", endpoint)
	var cfg store.Config
	cfg.LLM.Provider = "OPENAI"
	cfg.LLM.Model = "gpt-4o"
	cfg.LLM.MaxTokens = 512
	cfg.LLM.TimeoutSeconds = int(timeout / time.Second)
	if cfg.LLM.TimeoutSeconds == 0 {
		cfg.LLM.TimeoutSeconds = 30
	}
	return &cfg
}

func factSheet() types.FactSheet {
	return types.FactSheet{
		Symbol:    "AAPL",
		FetchedAt: time.Now(),
		Quote:     &types.Quote{Symbol: "AAPL", Price: 152.50, Trend: types.TrendBullish},
		Status: map[types.Field]types.FieldStatus{
			types.FieldQuote:        types.StatusOK,
			types.FieldFundamentals: types.FailedStatus(types.FetchTimeout),
			types.FieldSentiment:    types.StatusOK,
		},
		Sentiment: &types.SentimentSummary{Symbol: "AAPL", Overall: "Positive", PositivePct: 65, SampleSize: 40},
	}
}

func chatCompletion(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
}

func TestSynthesizeParsesVerdict(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "gpt-4o" {
			t.Errorf("expected model gpt-4o, got %s", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system+user messages, got %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "AAPL") {
			t.Error("user prompt should mention the symbol")
		}

		_ = json.NewEncoder(w).Encode(chatCompletion(
			`{"action": "BUY", "confidence": "Medium", "rationale": "Bullish trend and positive sentiment; fundamentals were unavailable."}`))
	}))
	defer ts.Close()

	r := New(testConfig(t, ts.URL, 30*time.Second), "test-key")

	rec, err := r.Synthesize(context.Background(), factSheet())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth, got %q", gotAuth)
	}
	if rec.Action != types.ActionBuy || rec.Confidence != types.ConfidenceMedium {
		t.Errorf("expected BUY/Medium, got %s/%s", rec.Action, rec.Confidence)
	}
	if rec.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", rec.Symbol)
	}
}

func TestSynthesizeMalformedOutputFallsBackToHold(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatCompletion("I cannot offer investment advice."))
	}))
	defer ts.Close()

	r := New(testConfig(t, ts.URL, 30*time.Second), "test-key")

	rec, err := r.Synthesize(context.Background(), factSheet())
	if err != nil {
		t.Fatalf("a parse failure must not be an error, got %v", err)
	}
	if rec.Action != types.ActionHold || rec.Confidence != types.ConfidenceLow {
		t.Errorf("expected HOLD/Low fallback, got %s/%s", rec.Action, rec.Confidence)
	}
}

func TestSynthesizeTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer ts.Close()

	r := New(testConfig(t, ts.URL, 30*time.Second), "test-key")
	r.timeout = 50 * time.Millisecond

	_, err := r.Synthesize(context.Background(), factSheet())
	var unavailable *types.ReasoningUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ReasoningUnavailableError, got %v", err)
	}
	if unavailable.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", unavailable.Provider)
	}
}

func TestSynthesizeServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	r := New(testConfig(t, ts.URL, 30*time.Second), "test-key")

	_, err := r.Synthesize(context.Background(), factSheet())
	var unavailable *types.ReasoningUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ReasoningUnavailableError, got %v", err)
	}
}
