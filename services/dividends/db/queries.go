package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Distribution is the storage representation of one dividend payment.
// Dates are YYYY-MM-DD strings, Amount is a decimal string and ScrapedAt
// is a unix timestamp.
type Distribution struct {
	Symbol    string
	ExDate    string
	PayDate   sql.NullString
	Amount    string
	ScrapedAt int64
}

// On conflict the latest scrape wins, except a missing pay date never
// clobbers a known one.
const upsertDistribution = `
INSERT INTO distributions (symbol, ex_date, pay_date, amount, scraped_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (symbol, ex_date) DO UPDATE SET
    amount = excluded.amount,
    pay_date = COALESCE(excluded.pay_date, distributions.pay_date),
    scraped_at = excluded.scraped_at
`

type UpsertDistributionParams struct {
	Symbol    string
	ExDate    string
	PayDate   sql.NullString
	Amount    string
	ScrapedAt int64
}

func (q *Queries) UpsertDistribution(ctx context.Context, arg UpsertDistributionParams) error {
	_, err := q.db.ExecContext(ctx, upsertDistribution,
		arg.Symbol,
		arg.ExDate,
		arg.PayDate,
		arg.Amount,
		arg.ScrapedAt,
	)
	return err
}

// Empty filter strings mean "no constraint".
const listDistributions = `
SELECT symbol, ex_date, pay_date, amount, scraped_at
FROM distributions
WHERE (?1 = '' OR symbol = ?1)
  AND (?2 = '' OR ex_date >= ?2)
  AND (?3 = '' OR ex_date <= ?3)
ORDER BY ex_date ASC, symbol ASC
`

type ListDistributionsParams struct {
	Symbol string
	After  string
	Before string
}

func (q *Queries) ListDistributions(ctx context.Context, arg ListDistributionsParams) ([]Distribution, error) {
	rows, err := q.db.QueryContext(ctx, listDistributions, arg.Symbol, arg.After, arg.Before)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Distribution
	for rows.Next() {
		var d Distribution
		err := rows.Scan(&d.Symbol, &d.ExDate, &d.PayDate, &d.Amount, &d.ScrapedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

const listAmounts = `
SELECT amount
FROM distributions
WHERE symbol = ?
ORDER BY ex_date DESC
`

// ListAmounts returns a fund's payment amounts, most recent first.
func (q *Queries) ListAmounts(ctx context.Context, symbol string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listAmounts, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var amount string
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		out = append(out, amount)
	}
	return out, rows.Err()
}

const countDistributions = `SELECT COUNT(*) FROM distributions`

func (q *Queries) CountDistributions(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countDistributions).Scan(&count)
	return count, err
}

const lastScrapedAt = `SELECT MAX(scraped_at) FROM distributions`

// LastScrapedAt returns the time of the most recent persisted scrape,
// invalid when the store is empty.
func (q *Queries) LastScrapedAt(ctx context.Context) (sql.NullInt64, error) {
	var last sql.NullInt64
	err := q.db.QueryRowContext(ctx, lastScrapedAt).Scan(&last)
	return last, err
}
