package dividends

import (
	"fmt"

	"dividendwatch/services/dividends/extract"
	"dividendwatch/services/dividends/model"
)

// source is one site a fund's dividend history can be scraped from.
// Sources are tried in order of reliability; the first one yielding
// records wins.
type source struct {
	name    string
	url     func(f model.Fund) string
	extract func(symbol, content string) ([]model.Distribution, error)
	// jsonOnly sources are API endpoints, they never need the browser
	// even for browser-mode funds
	jsonOnly bool
}

func defaultSources() []source {
	return []source{
		{
			name: "stockanalysis",
			url: func(f model.Fund) string {
				return fmt.Sprintf("https://stockanalysis.com/etf/%s/dividend/", f.Slug)
			},
			extract: extract.StockAnalysis,
		},
		{
			name: "nasdaq",
			url: func(f model.Fund) string {
				return fmt.Sprintf("https://api.nasdaq.com/api/quote/%s/dividends?assetclass=etf", f.Symbol)
			},
			extract:  extract.NasdaqAPI,
			jsonOnly: true,
		},
		{
			name: "dividend.com",
			url: func(f model.Fund) string {
				return fmt.Sprintf("https://www.dividend.com/etfs/%s/", f.Slug)
			},
			extract: extract.DividendCom,
		},
	}
}
