package dividends

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"dividendwatch/services/dividends/fetch"
	"dividendwatch/services/dividends/model"

	"github.com/jedib0t/go-pretty/v6/table"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Orchestrator runs one scrape cycle: every catalog fund is fetched,
// extracted and merged into the store, strictly one fund at a time.
type Orchestrator struct {
	store   Store
	http    fetch.Fetcher
	browser fetch.Fetcher
	catalog model.Catalog
	sources []source
}

func NewOrchestrator(store Store, httpFetcher, browserFetcher fetch.Fetcher, catalog model.Catalog) Orchestrator {
	return Orchestrator{
		store:   store,
		http:    httpFetcher,
		browser: browserFetcher,
		catalog: catalog,
		sources: defaultSources(),
	}
}

// FundResult is the outcome of one fund's scrape step.
type FundResult struct {
	Symbol  string
	Source  string
	Records int
	Err     error
}

// Summary is the batch's observable result.
type Summary struct {
	Results []FundResult
}

func (s Summary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Err == nil {
			n++
		}
	}
	return n
}

func (s Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// RenderTable formats the summary for terminal output.
func (s Summary) RenderTable() string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Fund", "Source", "Records", "Status"})
	for _, r := range s.Results {
		status := "ok"
		if r.Err != nil {
			status = r.Err.Error()
		}
		t.AppendRow(table.Row{r.Symbol, r.Source, r.Records, status})
	}
	t.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d/%d succeeded", s.Succeeded(), len(s.Results))})
	return t.Render()
}

// Run scrapes every catalog fund. A fund's fetch or parse failure is
// logged and recorded in the summary without aborting the rest of the
// batch; a store write failure is fatal and returned.
func (o Orchestrator) Run(ctx context.Context) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var summary Summary
	for _, fund := range o.catalog.Funds() {
		slog.InfoContext(ctx, "scraping fund", "symbol", fund.Symbol, "mode", fund.Mode)

		records, sourceName, err := o.scrapeFund(ctx, fund)
		if err != nil {
			slog.ErrorContext(ctx, "fund scrape failed", "symbol", fund.Symbol, "err", err)
			span.RecordError(err)
			summary.Results = append(summary.Results, FundResult{
				Symbol: fund.Symbol,
				Err:    err,
			})
			continue
		}

		for _, record := range records {
			err := o.store.Upsert(ctx, record)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				summary.Results = append(summary.Results, FundResult{
					Symbol: fund.Symbol,
					Source: sourceName,
					Err:    err,
				})
				return summary, fmt.Errorf("store write for %s: %w", fund.Symbol, err)
			}
		}

		slog.InfoContext(ctx, "fund recorded",
			"symbol", fund.Symbol,
			"source", sourceName,
			"records", len(records),
		)
		summary.Results = append(summary.Results, FundResult{
			Symbol:  fund.Symbol,
			Source:  sourceName,
			Records: len(records),
		})
	}

	span.SetAttributes(
		attribute.Int("succeeded", summary.Succeeded()),
		attribute.Int("failed", summary.Failed()),
	)
	return summary, nil
}

// scrapeFund tries each source in order until one yields records.
// Nothing is persisted here, so an abandoned fetch leaves no partial
// state behind.
func (o Orchestrator) scrapeFund(ctx context.Context, fund model.Fund) ([]model.Distribution, string, error) {
	var errs []error
	for _, src := range o.sources {
		fetcher := o.http
		if fund.Mode == model.FetchModeBrowser && !src.jsonOnly {
			fetcher = o.browser
		}

		url := src.url(fund)
		content, err := fetcher.Fetch(ctx, url)
		if err != nil {
			slog.WarnContext(ctx, "source fetch failed",
				"symbol", fund.Symbol, "source", src.name, "err", err)
			errs = append(errs, err)
			continue
		}

		records, err := src.extract(fund.Symbol, content)
		if err != nil {
			slog.WarnContext(ctx, "source parse failed",
				"symbol", fund.Symbol, "source", src.name, "err", err)
			errs = append(errs, err)
			continue
		}
		if len(records) == 0 {
			errs = append(errs, fmt.Errorf("%s: no records on page", src.name))
			continue
		}

		return records, src.name, nil
	}

	return nil, "", fmt.Errorf("all sources failed: %w", errors.Join(errs...))
}
