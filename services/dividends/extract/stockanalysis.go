package extract

import (
	"strings"

	"dividendwatch/lib/htmlutil"
	"dividendwatch/services/dividends/model"

	"github.com/PuerkitoBio/goquery"
)

// StockAnalysis parses the dividend-history table on a
// stockanalysis.com ETF dividend page. Columns: ex-date, amount and,
// when present, pay date.
func StockAnalysis(symbol string, content string) ([]model.Distribution, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Source: "stockanalysis", Symbol: symbol, Reason: err.Error()}
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, &ParseError{Source: "stockanalysis", Symbol: symbol, Reason: "no dividend table found"}
	}

	var records []model.Distribution
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		// first row is the header
		if i == 0 || len(records) >= maxRows {
			return
		}
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		exDate, ok := parseDate(htmlutil.CleanText(cells.Eq(0).Text()))
		if !ok {
			return
		}
		amount, ok := parseAmount(htmlutil.CleanText(cells.Eq(1).Text()))
		if !ok {
			return
		}

		record := model.Distribution{
			Symbol: symbol,
			ExDate: exDate,
			Amount: amount,
		}
		if cells.Length() >= 3 {
			if payDate, ok := parseDate(htmlutil.CleanText(cells.Eq(2).Text())); ok {
				record.PayDate = &payDate
			}
		}
		records = append(records, record)
	})

	return dedupe(records), nil
}
