package types

import "time"

// Trend classifies the price action of a symbol relative to its moving averages.
type Trend string

const (
	TrendBullish Trend = "Bullish"
	TrendBearish Trend = "Bearish"
	TrendNeutral Trend = "Neutral"
)

// Quote is the normalized market data record for one symbol. Immutable once fetched.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	DayHigh   float64 `json:"day_high"`
	DayLow    float64 `json:"day_low"`
	Volume    int64   `json:"volume"`
	SMA20     float64 `json:"sma_20,omitempty"`
	SMA50     float64 `json:"sma_50,omitempty"`
	Trend     Trend   `json:"trend"`
	AsOf      string  `json:"as_of"` // latest trading date, YYYY-MM-DD
}

// FundamentalsSummary is the normalized fundamentals record for one symbol.
type FundamentalsSummary struct {
	Symbol        string  `json:"symbol"`
	PERatio       float64 `json:"pe_ratio"`
	ROE           float64 `json:"roe"`
	NetMargin     float64 `json:"net_margin"`
	Assessment    string  `json:"assessment"`    // strong / moderate / weak
	Valuation     string  `json:"valuation"`     // Cheap / Fair / Expensive
	Profitability string  `json:"profitability"` // Excellent / Good / Weak
}

// SentimentSummary is the normalized news sentiment record for one symbol.
type SentimentSummary struct {
	Symbol      string  `json:"symbol"`
	Overall     string  `json:"overall"` // Positive / Negative / Neutral
	PositivePct float64 `json:"positive_pct"`
	NegativePct float64 `json:"negative_pct"`
	NeutralPct  float64 `json:"neutral_pct"`
	SampleSize  int     `json:"sample_size"`
}

// Field identifies one of the three data sources in a FactSheet.
type Field string

const (
	FieldQuote        Field = "quote"
	FieldFundamentals Field = "fundamentals"
	FieldSentiment    Field = "sentiment"
)

// Fields lists all FactSheet fields in canonical order.
func Fields() []Field {
	return []Field{FieldQuote, FieldFundamentals, FieldSentiment}
}

// FieldStatus records the outcome of one fetch: "ok" or "failed:<reason>".
type FieldStatus string

const StatusOK FieldStatus = "ok"

// FailedStatus builds the status string for a classified fetch failure.
func FailedStatus(kind FetchKind) FieldStatus {
	return FieldStatus("failed:" + string(kind))
}

// OK reports whether the field was fetched successfully.
func (s FieldStatus) OK() bool { return s == StatusOK }

// FactSheet is the unified snapshot of the three data sources for one analysis
// request. It is assembled exactly once by the coordinator and treated as a
// value by everything downstream.
type FactSheet struct {
	Symbol       string                `json:"symbol"`
	FetchedAt    time.Time             `json:"fetched_at"`
	Quote        *Quote                `json:"quote,omitempty"`
	Fundamentals *FundamentalsSummary  `json:"fundamentals,omitempty"`
	Sentiment    *SentimentSummary     `json:"sentiment,omitempty"`
	Status       map[Field]FieldStatus `json:"status"`
}

// PresentCount returns how many of the three fields were fetched successfully.
func (f FactSheet) PresentCount() int {
	n := 0
	for _, st := range f.Status {
		if st.OK() {
			n++
		}
	}
	return n
}

// Action is the final verdict of an analysis.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionHold Action = "HOLD"
	ActionSell Action = "SELL"
)

// Confidence qualifies how much weight the verdict carries.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Recommendation is the typed verdict returned to the caller, carrying the
// FactSheet it was derived from for traceability.
type Recommendation struct {
	Symbol     string     `json:"symbol"`
	Action     Action     `json:"action"`
	Confidence Confidence `json:"confidence"`
	Rationale  string     `json:"rationale"`
	Facts      FactSheet  `json:"facts"`
}
