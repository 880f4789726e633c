package model

import "strings"

// FetchMode selects how a fund's source pages are retrieved.
type FetchMode string

const (
	// plain HTTP with scraping-friendly transport
	FetchModeHTTP FetchMode = "http"
	// headless browser, for pages that only render data after script execution
	FetchModeBrowser FetchMode = "browser"
)

// Fund is one tracked covered-call ETF. Slug is the lowercase identifier
// used in source page urls.
type Fund struct {
	Symbol     string    `json:"symbol"`
	Name       string    `json:"name"`
	Frequency  string    `json:"frequency"`
	DeclareDay string    `json:"declare_day"`
	Slug       string    `json:"-"`
	Mode       FetchMode `json:"-"`
}

// Catalog is the fixed set of tracked funds. It is configured statically
// and never mutated at runtime.
type Catalog struct {
	funds    []Fund
	bySymbol map[string]Fund
}

func NewCatalog(funds []Fund) Catalog {
	bySymbol := make(map[string]Fund, len(funds))
	for i, f := range funds {
		if f.Slug == "" {
			f.Slug = strings.ToLower(f.Symbol)
			funds[i] = f
		}
		if f.Mode == "" {
			f.Mode = FetchModeHTTP
			funds[i] = f
		}
		bySymbol[strings.ToUpper(f.Symbol)] = funds[i]
	}
	return Catalog{funds: funds, bySymbol: bySymbol}
}

// DefaultCatalog returns the tracked fund set.
func DefaultCatalog() Catalog {
	return NewCatalog([]Fund{
		{Symbol: "YBTC", Name: "Roundhill Bitcoin Covered Call Strategy ETF", Frequency: "Weekly", DeclareDay: "Tuesday"},
		{Symbol: "BTCI", Name: "Neos Bitcoin Covered Call ETF", Frequency: "Monthly", DeclareDay: "3rd Tuesday"},
		{Symbol: "QQQI", Name: "Neos Nasdaq 100 High Income ETF", Frequency: "Monthly", DeclareDay: "3rd Tuesday"},
		{Symbol: "IWMI", Name: "Neos Russell 2000 High Income ETF", Frequency: "Monthly", DeclareDay: "3rd Tuesday"},
		{Symbol: "IAUI", Name: "Innovator Gold-U.S. Equity Income ETF", Frequency: "Monthly", DeclareDay: "Monthly"},
		{Symbol: "KQQQ", Name: "Kurv Yield Premium Strategy Nasdaq 100 ETF", Frequency: "Monthly", DeclareDay: "Monthly"},
		// client-side rendered dividend pages, need a scripted browser
		{Symbol: "MSTW", Name: "Roundhill MicroStrategy Covered Call ETF", Frequency: "Weekly", DeclareDay: "Weekly", Mode: FetchModeBrowser},
		{Symbol: "WPAY", Name: "YieldMax Tickers PayPal Option Income ETF", Frequency: "Monthly", DeclareDay: "Monthly", Mode: FetchModeBrowser},
	})
}

func (c Catalog) Funds() []Fund {
	return c.funds
}

// Lookup resolves a fund by symbol, case-insensitively.
func (c Catalog) Lookup(symbol string) (Fund, bool) {
	f, ok := c.bySymbol[strings.ToUpper(symbol)]
	return f, ok
}

func (c Catalog) Symbols() []string {
	symbols := make([]string, len(c.funds))
	for i, f := range c.funds {
		symbols[i] = f.Symbol
	}
	return symbols
}
