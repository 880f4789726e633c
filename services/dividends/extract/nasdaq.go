package extract

import (
	"encoding/json"

	"dividendwatch/services/dividends/model"
)

// the interesting subset of the api.nasdaq.com dividends payload
type nasdaqPayload struct {
	Data *struct {
		Dividends *struct {
			Rows []nasdaqRow `json:"rows"`
		} `json:"dividends"`
	} `json:"data"`
}

type nasdaqRow struct {
	ExOrEffDate string `json:"exOrEffDate"`
	Amount      string `json:"amount"`
	PaymentDate string `json:"paymentDate"`
}

// NasdaqAPI parses the JSON dividend feed served by api.nasdaq.com.
// Fields holding "N/A" are treated as absent.
func NasdaqAPI(symbol string, content string) ([]model.Distribution, error) {
	var payload nasdaqPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, &ParseError{Source: "nasdaq", Symbol: symbol, Reason: err.Error()}
	}
	if payload.Data == nil || payload.Data.Dividends == nil {
		return nil, &ParseError{Source: "nasdaq", Symbol: symbol, Reason: "payload has no dividend rows"}
	}

	var records []model.Distribution
	for _, row := range payload.Data.Dividends.Rows {
		if len(records) >= maxRows {
			break
		}

		exDate, ok := parseDate(row.ExOrEffDate)
		if !ok {
			continue
		}
		amount, ok := parseAmount(row.Amount)
		if !ok {
			continue
		}

		record := model.Distribution{
			Symbol: symbol,
			ExDate: exDate,
			Amount: amount,
		}
		if payDate, ok := parseDate(row.PaymentDate); ok {
			record.PayDate = &payDate
		}
		records = append(records, record)
	}

	return dedupe(records), nil
}
