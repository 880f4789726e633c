package dividends

import (
	"context"

	"dividendwatch/services/dividends/model"

	"github.com/shopspring/decimal"
)

// trendThreshold is the percent change below which payment history is
// considered stable.
var trendThreshold = decimal.NewFromInt(5)

// Stats summarizes a fund's payment history. Returns nil when the fund
// has no recorded distributions.
func (s Store) Stats(ctx context.Context, symbol string) (*model.Stats, error) {
	ctx, span := tracer.Start(ctx, "Stats")
	defer span.End()

	raw, err := s.qry.ListAmounts(ctx, symbol)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	// most recent first, matching the query's ordering
	amounts := make([]decimal.Decimal, 0, len(raw))
	for _, a := range raw {
		amount, err := decimal.NewFromString(a)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		amounts = append(amounts, amount)
	}

	stats := &model.Stats{
		Count:  len(amounts),
		Latest: amounts[0],
		Min:    amounts[0],
		Max:    amounts[0],
		Trend:  trend(amounts),
	}

	total := decimal.Zero
	for i, amount := range amounts {
		total = total.Add(amount)
		if amount.LessThan(stats.Min) {
			stats.Min = amount
		}
		if amount.GreaterThan(stats.Max) {
			stats.Max = amount
		}
		if i < 12 {
			stats.Total12M = stats.Total12M.Add(amount)
		}
	}
	stats.Average = total.Div(decimal.NewFromInt(int64(len(amounts)))).Round(6)

	return stats, nil
}

func average(amounts []decimal.Decimal) decimal.Decimal {
	if len(amounts) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total.Div(decimal.NewFromInt(int64(len(amounts))))
}

// trend compares the three most recent payments to the three before
// them; a swing over ±5% is reported as increasing/decreasing.
func trend(amounts []decimal.Decimal) string {
	if len(amounts) < 2 {
		return model.TrendStable
	}

	recent := average(amounts[:min(3, len(amounts))])
	older := recent
	if len(amounts) > 3 {
		older = average(amounts[3:min(6, len(amounts))])
	}
	if !older.IsPositive() {
		return model.TrendStable
	}

	diffPercent := recent.Sub(older).Div(older).Mul(decimal.NewFromInt(100))
	switch {
	case diffPercent.GreaterThan(trendThreshold):
		return model.TrendIncreasing
	case diffPercent.LessThan(trendThreshold.Neg()):
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}
