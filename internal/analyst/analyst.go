// Package analyst is the single entry point composing the coordinator and the
// reasoning engine.
package analyst

import (
	"context"
	"errors"
	"strings"

	"stock-analyst/internal/interfaces"
	"stock-analyst/internal/logger"
	"stock-analyst/internal/trace"
	"stock-analyst/internal/types"
)

// ErrEmptySymbol is returned when the symbol is blank after trimming.
var ErrEmptySymbol = errors.New("symbol must not be empty")

type Service struct {
	gatherer interfaces.Gatherer
	reasoner interfaces.Reasoner
}

var _ interfaces.Analyzer = (*Service)(nil)

func New(gatherer interfaces.Gatherer, reasoner interfaces.Reasoner) *Service {
	return &Service{gatherer: gatherer, reasoner: reasoner}
}

// Analyze produces a recommendation for symbol. Adapter-level partial
// failures are absorbed into the fact sheet; the only errors that reach the
// caller are InsufficientDataError and ReasoningUnavailableError, both
// terminal for the request.
func (s *Service) Analyze(ctx context.Context, symbol string) (types.Recommendation, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return types.Recommendation{}, ErrEmptySymbol
	}

	ctx, span := trace.StartSpan(ctx, "analyst.analyze")
	defer span.End()

	facts, err := s.gatherer.Gather(ctx, symbol)
	if err != nil {
		return types.Recommendation{}, err
	}

	rec, err := s.reasoner.Synthesize(ctx, facts)
	if err != nil {
		return types.Recommendation{}, err
	}

	logger.Recommendation(ctx, rec.Symbol, string(rec.Action), string(rec.Confidence),
		facts.PresentCount())
	return rec, nil
}
