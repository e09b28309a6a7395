package claude

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

const providerName = "claude"

type Reasoner struct {
	cfg      *store.Config
	apiKey   string
	endpoint string
	timeout  time.Duration
}

func New(cfg *store.Config, apiKey string) *Reasoner {
	// default messages endpoint (public Anthropic)
	endpoint := "https://api.anthropic.com/v1/messages"
	// If you use a proxy/bedrock/vertex, set endpoint via CLAUDE_API_ENDPOINT env var
	if ep := os.Getenv("CLAUDE_API_ENDPOINT"); ep != "" {
		endpoint = ep
	}
	return &Reasoner{
		cfg:      cfg,
		apiKey:   apiKey,
		endpoint: endpoint,
		timeout:  cfg.LLMTimeout(),
	}
}

// Synthesize asks the messages API for a verdict on the fact sheet.
func (r *Reasoner) Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	if r.apiKey == "" {
		return types.Recommendation{}, errors.New("claude api key missing")
	}

	tctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	system := r.cfg.LLM.System
	if system == "" {
		system = reason.DefaultSystemPrompt
	}

	body := map[string]any{
		"model":  r.cfg.LLM.Model,
		"system": system,
		"messages": []map[string]string{
			{"role": "user", "content": reason.BuildPrompt(facts)},
		},
		"max_tokens":  r.cfg.LLM.MaxTokens,
		"temperature": r.cfg.LLM.Temperature,
	}
	bb, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(tctx, "POST", r.endpoint, bytes.NewReader(bb))
	if err != nil {
		return types.Recommendation{}, err
	}
	req.Header.Set("x-api-key", r.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
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
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Recommendation{}, &types.ReasoningUnavailableError{Provider: providerName, Err: err}
	}

	var text strings.Builder
	for _, block := range out.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return types.Recommendation{}, &types.ReasoningUnavailableError{
			Provider: providerName,
			Err:      errors.New("no text content in response"),
		}
	}

	return reason.ParseRecommendation(ctx, facts, text.String()), nil
}
