package dividends

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dividendwatch/services/dividends/db"
	"dividendwatch/services/dividends/model"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/dividends")

// Store is the distribution history: every payment ever observed, keyed
// by (symbol, ex_date). The batch scraper is the only writer, the query
// API only reads.
type Store struct {
	db  *sql.DB
	qry *db.Queries
	now func() time.Time
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
		now: time.Now,
	}
}

// Upsert records a distribution, idempotently by (symbol, ex_date).
// When a row already exists the newly scraped amount wins, but an absent
// pay date never overwrites a known one.
func (s Store) Upsert(ctx context.Context, d model.Distribution) error {
	ctx, span := tracer.Start(ctx, "Upsert")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", d.Symbol),
		attribute.String("ex_date", d.ExDate.Format(model.DateFormat)),
	)

	if err := d.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	var payDate sql.NullString
	if d.PayDate != nil {
		payDate = sql.NullString{String: d.PayDate.Format(model.DateFormat), Valid: true}
	}

	err := s.qry.UpsertDistribution(ctx, db.UpsertDistributionParams{
		Symbol:    d.Symbol,
		ExDate:    d.ExDate.Format(model.DateFormat),
		PayDate:   payDate,
		Amount:    d.Amount.String(),
		ScrapedAt: s.now().Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert %s/%s: %w", d.Symbol, d.ExDate.Format(model.DateFormat), err)
	}
	return nil
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Symbol string
	From   time.Time
	To     time.Time
}

// Query returns matching distributions ordered by ex-date ascending.
// No matches is an empty slice, not an error.
func (s Store) Query(ctx context.Context, f Filter) ([]model.Distribution, error) {
	ctx, span := tracer.Start(ctx, "Query")
	defer span.End()

	params := db.ListDistributionsParams{Symbol: f.Symbol}
	if !f.From.IsZero() {
		params.After = f.From.Format(model.DateFormat)
	}
	if !f.To.IsZero() {
		params.Before = f.To.Format(model.DateFormat)
	}

	rows, err := s.qry.ListDistributions(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	records := []model.Distribution{}
	for _, row := range rows {
		record, err := rowToDistribution(row)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func rowToDistribution(row db.Distribution) (model.Distribution, error) {
	exDate, err := time.Parse(model.DateFormat, row.ExDate)
	if err != nil {
		return model.Distribution{}, fmt.Errorf("stored ex_date %q: %w", row.ExDate, err)
	}
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return model.Distribution{}, fmt.Errorf("stored amount %q: %w", row.Amount, err)
	}

	record := model.Distribution{
		Symbol: row.Symbol,
		ExDate: exDate,
		Amount: amount,
	}
	if row.PayDate.Valid {
		payDate, err := time.Parse(model.DateFormat, row.PayDate.String)
		if err != nil {
			return model.Distribution{}, fmt.Errorf("stored pay_date %q: %w", row.PayDate.String, err)
		}
		record.PayDate = &payDate
	}
	return record, nil
}

// Status reports whether any data exists and how fresh it is.
type Status struct {
	Records     int64
	LastScraped *time.Time
}

func (s Store) Status(ctx context.Context) (Status, error) {
	count, err := s.qry.CountDistributions(ctx)
	if err != nil {
		return Status{}, err
	}
	last, err := s.qry.LastScrapedAt(ctx)
	if err != nil {
		return Status{}, err
	}

	status := Status{Records: count}
	if last.Valid {
		t := time.Unix(last.Int64, 0)
		status.LastScraped = &t
	}
	return status, nil
}

func (s Store) Close() error {
	return s.db.Close()
}
