package newsapi

import "strings"

type sentiment int

const (
	sentimentNeutral sentiment = iota
	sentimentPositive
	sentimentNegative
)

var positiveKeywords = []string{
	"gain", "up", "rise", "surge", "soar", "rally", "beat", "strong", "growth",
	"profit", "bullish", "optimistic", "upgrade", "buy", "positive", "boost",
	"momentum", "recovery", "record", "high", "expand", "success", "innovation",
	"lead", "acquire", "launch",
}

var negativeKeywords = []string{
	"fall", "drop", "plunge", "decline", "slide", "loss", "miss", "disappoint",
	"weak", "risk", "bearish", "pessimistic", "downgrade", "sell", "negative",
	"slow", "warning", "cut", "lawsuit", "volatile", "uncertainty", "struggle",
	"debt", "investigation", "reduction", "recall",
}

// classify scores one headline by keyword matches. Ties are neutral.
func classify(headline string) sentiment {
	text := strings.ToLower(headline)

	var pos, neg int
	for _, w := range positiveKeywords {
		if strings.Contains(text, w) {
			pos++
		}
	}
	for _, w := range negativeKeywords {
		if strings.Contains(text, w) {
			neg++
		}
	}

	switch {
	case pos > neg:
		return sentimentPositive
	case neg > pos:
		return sentimentNegative
	default:
		return sentimentNeutral
	}
}
