package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the wire and storage format for ex/pay dates.
const DateFormat = "2006-01-02"

// Distribution is a single dividend payment observed for a fund.
// PayDate is nil when the source page did not list one.
type Distribution struct {
	Symbol  string
	ExDate  time.Time
	PayDate *time.Time
	Amount  decimal.Decimal
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	var payDate *string
	if d.PayDate != nil {
		formatted := d.PayDate.Format(DateFormat)
		payDate = &formatted
	}
	return json.Marshal(struct {
		FundSymbol string          `json:"fund_symbol"`
		ExDate     string          `json:"ex_date"`
		PayDate    *string         `json:"pay_date"`
		Amount     decimal.Decimal `json:"amount"`
	}{
		FundSymbol: d.Symbol,
		ExDate:     d.ExDate.Format(DateFormat),
		PayDate:    payDate,
		Amount:     d.Amount,
	})
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	var raw struct {
		FundSymbol string          `json:"fund_symbol"`
		ExDate     string          `json:"ex_date"`
		PayDate    *string         `json:"pay_date"`
		Amount     decimal.Decimal `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	exDate, err := time.Parse(DateFormat, raw.ExDate)
	if err != nil {
		return fmt.Errorf("ex_date: %w", err)
	}
	var payDate *time.Time
	if raw.PayDate != nil {
		parsed, err := time.Parse(DateFormat, *raw.PayDate)
		if err != nil {
			return fmt.Errorf("pay_date: %w", err)
		}
		payDate = &parsed
	}

	d.Symbol = raw.FundSymbol
	d.ExDate = exDate
	d.PayDate = payDate
	d.Amount = raw.Amount
	return nil
}

// Validate enforces the record invariants before anything is persisted.
func (d Distribution) Validate() error {
	if d.Symbol == "" {
		return fmt.Errorf("distribution is missing a fund symbol")
	}
	if d.ExDate.IsZero() {
		return fmt.Errorf("%s: distribution is missing an ex-dividend date", d.Symbol)
	}
	if d.Amount.IsNegative() {
		return fmt.Errorf(
			"%s: distribution amount %s is negative",
			d.Symbol, d.Amount.String(),
		)
	}
	if d.PayDate != nil && d.PayDate.Before(d.ExDate) {
		return fmt.Errorf(
			"%s: pay date %s precedes ex-dividend date %s",
			d.Symbol,
			d.PayDate.Format(DateFormat),
			d.ExDate.Format(DateFormat),
		)
	}
	return nil
}

// Trend labels for Stats, thresholded at ±5% on recent payment averages.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Stats summarizes a fund's payment history.
type Stats struct {
	Count    int             `json:"count"`
	Latest   decimal.Decimal `json:"latest"`
	Average  decimal.Decimal `json:"average"`
	Min      decimal.Decimal `json:"min"`
	Max      decimal.Decimal `json:"max"`
	Total12M decimal.Decimal `json:"total_12m"`
	Trend    string          `json:"trend"`
}
