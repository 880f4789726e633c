// Package extract turns raw page content into normalized distribution
// records. Every extractor is a pure function: content in, records out,
// no I/O.
package extract

import (
	"fmt"
	"regexp"
	"time"

	"dividendwatch/services/dividends/model"

	"github.com/shopspring/decimal"
)

// maxRows caps how much history is taken from a single page.
const maxRows = 15

// ParseError indicates the page no longer matches the expected layout,
// or a value on it failed to convert. Retrying the fetch will not help.
type ParseError struct {
	Source string
	Symbol string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s page for %s: %s", e.Source, e.Symbol, e.Reason)
}

var amountPattern = regexp.MustCompile(`\$?\s*([\d.]+)`)

// parseAmount pulls a dollar amount out of cell text like "$0.25" or
// "0.25 per share".
func parseAmount(text string) (decimal.Decimal, bool) {
	groups := amountPattern.FindStringSubmatch(text)
	if len(groups) < 2 {
		return decimal.Decimal{}, false
	}
	amount, err := decimal.NewFromString(groups[1])
	if err != nil || amount.IsNegative() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

// the layouts seen across the scraped sources
var dateLayouts = []string{
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"01/02/2006",
	"1/2/2006",
}

func parseDate(text string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, text)
		if err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// dedupe drops records repeating an already-seen ex-date. Pages list the
// newest payment first, so the first occurrence wins.
func dedupe(records []model.Distribution) []model.Distribution {
	seen := make(map[string]bool, len(records))
	out := records[:0]
	for _, r := range records {
		key := r.ExDate.Format(model.DateFormat)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
