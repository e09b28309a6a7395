// Package reasonobs wraps a Reasoner with observability middleware.
package reasonobs

import (
	"context"

	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

type observableReasoner struct {
	reasoner interfaces.Reasoner
}

var _ interfaces.Reasoner = (*observableReasoner)(nil)

// Wrap wraps a reasoner with logging and tracing.
func Wrap(reasoner interfaces.Reasoner) interfaces.Reasoner {
	return &observableReasoner{reasoner: reasoner}
}

func (o *observableReasoner) Synthesize(ctx context.Context, facts types.FactSheet) (types.Recommendation, error) {
	ctx, span := trace.StartSpan(ctx, "reason.Synthesize")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Requesting recommendation",
		"symbol", facts.Symbol,
		"fields_present", facts.PresentCount(),
	)

	rec, err := o.reasoner.Synthesize(ctx, facts)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to get recommendation", err,
			"symbol", facts.Symbol,
		)
		return types.Recommendation{}, err
	}

	logger.InfoSkip(ctx, 1, "Recommendation received",
		"symbol", facts.Symbol,
		"action", string(rec.Action),
		"confidence", string(rec.Confidence),
	)

	return rec, nil
}
