package reason

import (
	"context"
	"encoding/json"
	"strings"

	"stock-analyst/internal/logger"
	"stock-analyst/internal/types"
)

type rawVerdict struct {
	Action     string `json:"action"`
	Confidence string `json:"confidence"`
	Rationale  string `json:"rationale"`
}

// ParseRecommendation validates the reasoning service's textual output
// against the expected shape. Output that cannot be parsed does not fail the
// request: the anomaly is logged and a conservative HOLD with Low confidence
// is returned instead, so a valid fact sheet always yields a recommendation.
func ParseRecommendation(ctx context.Context, facts types.FactSheet, text string) types.Recommendation {
	rec := types.Recommendation{Symbol: facts.Symbol, Facts: facts}

	raw, detail := extractVerdict(text)
	if detail == "" {
		action, okA := normalizeAction(raw.Action)
		confidence, okC := normalizeConfidence(raw.Confidence)
		rationale := strings.TrimSpace(raw.Rationale)
		switch {
		case !okA:
			detail = "action not one of BUY/HOLD/SELL: " + raw.Action
		case !okC:
			detail = "confidence not one of High/Medium/Low: " + raw.Confidence
		case rationale == "":
			detail = "missing rationale"
		default:
			rec.Action = action
			rec.Confidence = confidence
			rec.Rationale = rationale
			return rec
		}
	}

	logger.ParseAnomaly(ctx, facts.Symbol, detail)
	rec.Action = types.ActionHold
	rec.Confidence = types.ConfidenceLow
	rec.Rationale = "Holding by default: the reasoning service returned output that could not be " +
		"validated (" + detail + "). Treat this verdict with caution."
	return rec
}

// extractVerdict pulls the first {...} span out of the response text and
// unmarshals it. Models often wrap the JSON in prose or code fences.
func extractVerdict(text string) (rawVerdict, string) {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start < 0 || end <= start {
		return rawVerdict{}, "no JSON object in response"
	}

	var raw rawVerdict
	if err := json.Unmarshal([]byte(t[start:end+1]), &raw); err != nil {
		return rawVerdict{}, "invalid JSON: " + err.Error()
	}
	return raw, ""
}

func normalizeAction(s string) (types.Action, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY":
		return types.ActionBuy, true
	case "HOLD":
		return types.ActionHold, true
	case "SELL":
		return types.ActionSell, true
	default:
		return "", false
	}
}

func normalizeConfidence(s string) (types.Confidence, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return types.ConfidenceHigh, true
	case "medium":
		return types.ConfidenceMedium, true
	case "low":
		return types.ConfidenceLow, true
	default:
		return "", false
	}
}
