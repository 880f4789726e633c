package extract

import (
	"regexp"
	"strings"

	"dividendwatch/services/dividends/model"

	"github.com/PuerkitoBio/goquery"
)

var (
	recentAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?is)Most Recent Dividend.*?\$\s*([\d.]+)`),
		regexp.MustCompile(`(?is)Dividend.*?\$\s*([\d.]+)\s*per share`),
		regexp.MustCompile(`(?is)Last Dividend.*?\$\s*([\d.]+)`),
	}
	exDatePattern  = regexp.MustCompile(`(?i)Ex-Dividend Date[:\s]+([\d/-]+)`)
	payDatePattern = regexp.MustCompile(`(?i)Payment Date[:\s]+([\d/-]+)`)
)

// DividendCom scans the visible text of a dividend.com fund page for the
// most recent payment. It is a fallback source: the page has no stable
// table layout, so only a single record can be recovered.
func DividendCom(symbol string, content string) ([]model.Distribution, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &ParseError{Source: "dividend.com", Symbol: symbol, Reason: err.Error()}
	}
	text := doc.Find("body").Text()

	var amountText string
	for _, pattern := range recentAmountPatterns {
		groups := pattern.FindStringSubmatch(text)
		if len(groups) >= 2 {
			amountText = groups[1]
			break
		}
	}
	if amountText == "" {
		return nil, &ParseError{Source: "dividend.com", Symbol: symbol, Reason: "no dividend amount found"}
	}
	amount, ok := parseAmount(amountText)
	if !ok {
		return nil, &ParseError{Source: "dividend.com", Symbol: symbol, Reason: "unparseable dividend amount"}
	}

	exGroups := exDatePattern.FindStringSubmatch(text)
	if len(exGroups) < 2 {
		return nil, &ParseError{Source: "dividend.com", Symbol: symbol, Reason: "no ex-dividend date found"}
	}
	exDate, ok := parseDate(exGroups[1])
	if !ok {
		return nil, &ParseError{Source: "dividend.com", Symbol: symbol, Reason: "unparseable ex-dividend date"}
	}

	record := model.Distribution{
		Symbol: symbol,
		ExDate: exDate,
		Amount: amount,
	}
	if payGroups := payDatePattern.FindStringSubmatch(text); len(payGroups) >= 2 {
		if payDate, ok := parseDate(payGroups[1]); ok {
			record.PayDate = &payDate
		}
	}

	return []model.Distribution{record}, nil
}
