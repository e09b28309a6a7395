package types

import (
	"fmt"
	"sort"
	"strings"
)

// FetchKind classifies why an adapter fetch failed.
type FetchKind string

const (
	FetchAuth        FetchKind = "auth"
	FetchRateLimited FetchKind = "rate_limited"
	FetchTimeout     FetchKind = "timeout"
	FetchMalformed   FetchKind = "malformed"
	FetchUnavailable FetchKind = "unavailable"
)

// FetchError is a classified adapter failure. It is absorbed into the
// FactSheet field status by the coordinator and never raised past it.
type FetchError struct {
	Provider string
	Kind     FetchKind
	Msg      string
	Err      error
}

func (e *FetchError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *FetchError) Unwrap() error { return e.Err }

// InsufficientDataError is returned by the coordinator when two or more of the
// three sources failed. A recommendation is never attempted from a single
// data point.
type InsufficientDataError struct {
	Symbol   string
	Failures map[Field]FieldStatus
}

func (e *InsufficientDataError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for field, st := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s=%s", field, st))
	}
	sort.Strings(parts)
	return fmt.Sprintf("insufficient data for %s: %d of 3 sources failed (%s)",
		e.Symbol, len(e.Failures), strings.Join(parts, ", "))
}

// ReasoningUnavailableError is returned when the reasoning service is
// unreachable or its call exceeds its timeout. No response content exists, so
// the parse fallback does not apply.
type ReasoningUnavailableError struct {
	Provider string
	Err      error
}

func (e *ReasoningUnavailableError) Error() string {
	return fmt.Sprintf("reasoning service %s unavailable: %v", e.Provider, e.Err)
}

func (e *ReasoningUnavailableError) Unwrap() error { return e.Err }
