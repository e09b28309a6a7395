// Package reason turns a fact sheet into a reasoning prompt and parses the
// service's textual output into a typed recommendation. Providers live in the
// subpackages; this package owns the two-step contract they share:
// build-prompt, then call-and-parse.
package reason

import (
	"fmt"
	"strings"

	"stock-analyst/internal/types"
)

// DefaultSystemPrompt is used when the config does not override the system
// message.
const DefaultSystemPrompt = "You are an expert financial analyst. " +
	"You produce a single investment verdict from the data you are given. " +
	"Respond ONLY with compact JSON."

// BuildPrompt renders the fact sheet into the analysis prompt. Every present
// field is enumerated by name and value; absent fields are explicitly marked
// unavailable so the model accounts for missing data in its confidence.
func BuildPrompt(facts types.FactSheet) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze the stock %s using the data below and give an investment recommendation.\n\n", facts.Symbol)

	b.WriteString("MARKET DATA:\n")
	if q := facts.Quote; q != nil {
		fmt.Fprintf(&b, "- Current price: $%.2f\n", q.Price)
		fmt.Fprintf(&b, "- Daily change: %+.2f%%\n", q.ChangePct)
		fmt.Fprintf(&b, "- Day range: $%.2f - $%.2f\n", q.DayLow, q.DayHigh)
		if q.SMA20 > 0 {
			fmt.Fprintf(&b, "- 20-day average: $%.2f\n", q.SMA20)
		}
		if q.SMA50 > 0 {
			fmt.Fprintf(&b, "- 50-day average: $%.2f\n", q.SMA50)
		}
		fmt.Fprintf(&b, "- Trend: %s\n", q.Trend)
	} else {
		fmt.Fprintf(&b, "- unavailable (%s)\n", facts.Status[types.FieldQuote])
	}

	b.WriteString("\nFUNDAMENTALS:\n")
	if f := facts.Fundamentals; f != nil {
		fmt.Fprintf(&b, "- P/E ratio: %.2f\n", f.PERatio)
		fmt.Fprintf(&b, "- Return on equity: %.1f%%\n", f.ROE)
		if f.NetMargin != 0 {
			fmt.Fprintf(&b, "- Net margin: %.1f%%\n", f.NetMargin)
		}
		fmt.Fprintf(&b, "- Overall assessment: %s\n", f.Assessment)
		fmt.Fprintf(&b, "- Valuation: %s, profitability: %s\n", f.Valuation, f.Profitability)
	} else {
		fmt.Fprintf(&b, "- unavailable (%s)\n", facts.Status[types.FieldFundamentals])
	}

	b.WriteString("\nNEWS SENTIMENT:\n")
	if s := facts.Sentiment; s != nil {
		fmt.Fprintf(&b, "- Overall: %s\n", s.Overall)
		fmt.Fprintf(&b, "- Positive headlines: %.0f%% of %d analyzed\n", s.PositivePct, s.SampleSize)
		fmt.Fprintf(&b, "- Negative headlines: %.0f%%\n", s.NegativePct)
	} else {
		fmt.Fprintf(&b, "- unavailable (%s)\n", facts.Status[types.FieldSentiment])
	}

	b.WriteString("\nRespond ONLY with compact JSON matching this schema:\n")
	b.WriteString(`{"action":"BUY|HOLD|SELL","confidence":"High|Medium|Low","rationale":"<2-4 sentences citing the data>"}` + "\n")
	b.WriteString("If any section above is unavailable, say so in the rationale and lower your confidence accordingly.\n")

	return b.String()
}
