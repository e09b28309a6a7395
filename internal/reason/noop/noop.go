package noop

import (
	"context"

	"stock-analyst/internal/logger"
	"stock-analyst/internal/types"
)

// Reasoner is the fallback used when no LLM provider is configured. It always
// answers HOLD with Low confidence so the pipeline stays exercisable without
// credentials.
type Reasoner struct{}

func New() *Reasoner {
	return &Reasoner{}
}

func (r *Reasoner) Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error) {
	logger.Debug(ctx, "Noop reasoner called - always returns HOLD", "symbol", facts.Symbol)
	return types.Recommendation{
		Symbol:     facts.Symbol,
		Action:     types.ActionHold,
		Confidence: types.ConfidenceLow,
		Rationale:  "No reasoning provider configured; defaulting to HOLD.",
		Facts:      facts,
	}, nil
}
