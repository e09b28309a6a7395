package interfaces

import (
	"context"

	"stock-analyst/internal/types"
)

// Reasoner turns a finalized fact sheet into a typed recommendation by calling
// an external reasoning service and validating its output.
type Reasoner interface {
	Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error)
}

// Gatherer assembles the fact sheet for a symbol under the overall deadline.
type Gatherer interface {
	Gather(ctx context.Context, symbol string) (types.FactSheet, error)
}

// Analyzer is the single caller-facing operation.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string) (types.Recommendation, error)
}
