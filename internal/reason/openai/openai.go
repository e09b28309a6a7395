package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"stock-analyst/internal/reason"
	"stock-analyst/internal/store"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

const providerName = "openai"

type Reasoner struct {
	cfg      *store.Config
	apiKey   string
	endpoint string
	timeout  time.Duration
}

func New(cfg *store.Config, apiKey string) *Reasoner {
	endpoint := "https://api.openai.com/v1/chat/completions"
	// Set OPENAI_API_ENDPOINT to route through a proxy or compatible gateway
	if ep := os.Getenv("OPENAI_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Reasoner{
		cfg:      cfg,
		apiKey:   apiKey,
		endpoint: endpoint,
		timeout:  cfg.LLMTimeout(),
	}
}

// Synthesize asks the chat completions API for a verdict on the fact sheet.
func (r *Reasoner) Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	if r.apiKey == "" {
		return types.Recommendation{}, errors.New("openai api key missing")
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	system := r.cfg.LLM.System
	if system == "" {
		system = reason.DefaultSystemPrompt
	}

	body := map[string]any{
		"model": r.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": reason.BuildPrompt(facts)},
		},
		"temperature": r.cfg.LLM.Temperature,
		"max_tokens":  r.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(tctx, "POST", r.endpoint, bytes.NewReader(bb))
	if err != nil {
		return types.Recommendation{}, err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return types.Recommendation{}, &types.ReasoningUnavailableError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return types.Recommendation{}, &types.ReasoningUnavailableError{
			Provider: providerName,
			Err:      fmt.Errorf("http %d", resp.StatusCode),
		}
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Recommendation{}, &types.ReasoningUnavailableError{Provider: providerName, Err: err}
	}
	if len(out.Choices) == 0 {
		return types.Recommendation{}, &types.ReasoningUnavailableError{
			Provider: providerName,
			Err:      errors.New("no choices in response"),
		}
	}

	text := strings.TrimSpace(out.Choices[0].Message.Content)
	return reason.ParseRecommendation(ctx, facts, text), nil
}
