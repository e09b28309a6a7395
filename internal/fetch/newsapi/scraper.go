package newsapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"stock-analyst/internal/logger"
)

// headlineScraper is the best-effort fallback headline source: a Google News
// search scrape used only when the primary feed returns nothing usable.
type headlineScraper struct {
	timeout time.Duration
}

func newHeadlineScraper(timeout time.Duration) *headlineScraper {
	return &headlineScraper{timeout: timeout}
}

// scrape returns up to max headlines for symbol. Failures are logged and
// yield an empty slice; the caller decides how to classify an empty result.
func (s *headlineScraper) scrape(ctx context.Context, symbol string, max int) []string {
	headlines := []string{}

	c := colly.NewCollector(
		colly.AllowedDomains("news.google.com", "www.google.com"),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	c.OnHTML("article", func(e *colly.HTMLElement) {
		if len(headlines) >= max {
			return
		}
		e.DOM.Find("h3, h4").Each(func(_ int, sel *goquery.Selection) {
			if len(headlines) >= max {
				return
			}
			title := strings.TrimSpace(sel.Text())
			if title != "" {
				headlines = append(headlines, title)
			}
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Headline scrape error", err, "url", r.Request.URL.String())
	})

	searchQuery := url.QueryEscape(symbol + " stock news")
	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en", searchQuery)

	if err := c.Visit(searchURL); err != nil {
		logger.ErrorWithErr(ctx, "Failed to scrape Google News", err, "symbol", symbol)
		return nil
	}
	c.Wait()

	logger.Info(ctx, "Google News scrape completed", "symbol", symbol, "headlines", len(headlines))
	return headlines
}
