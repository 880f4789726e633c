package dividends

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"dividendwatch/services/dividends/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fetcherFunc func(ctx context.Context, url string) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

func dividendPage(rows ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><tr><th>Ex-Date</th><th>Amount</th><th>Pay Date</th></tr>`)
	for _, row := range rows {
		b.WriteString(row)
	}
	b.WriteString(`</table></body></html>`)
	return b.String()
}

const qqqiRow = `<tr><td>2024-01-15</td><td>$0.25</td><td>2024-01-18</td></tr>`

func testCatalog(funds ...model.Fund) model.Catalog {
	return model.NewCatalog(funds)
}

func TestRunIsolatesFundFailures(t *testing.T) {
	store := setupStore(t)
	catalog := testCatalog(
		model.Fund{Symbol: "YBTC"},
		model.Fund{Symbol: "BTCI"},
		model.Fund{Symbol: "QQQI"},
		model.Fund{Symbol: "IWMI"},
	)

	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		if strings.Contains(url, "btci") || strings.Contains(url, "BTCI") {
			return "", fmt.Errorf("fetch %s: connection refused", url)
		}
		return dividendPage(qqqiRow), nil
	})

	orch := NewOrchestrator(store, fetcher, fetcher, catalog)
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, summary.Results, 4)
	require.Equal(t, 3, summary.Succeeded())
	require.Equal(t, 1, summary.Failed())

	for _, result := range summary.Results {
		if result.Symbol == "BTCI" {
			require.Error(t, result.Err)
		} else {
			require.NoError(t, result.Err)
			require.Equal(t, "stockanalysis", result.Source)
			require.Equal(t, 1, result.Records)
		}
	}

	// the failing fund left nothing behind, the others were persisted
	records, err := store.Query(context.Background(), Filter{Symbol: "BTCI"})
	require.NoError(t, err)
	require.Empty(t, records)

	records, err = store.Query(context.Background(), Filter{Symbol: "QQQI"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, records[0].Amount.Equal(decimal.RequireFromString("0.25")))
	require.NotNil(t, records[0].PayDate)
	require.Equal(t, "2024-01-18", records[0].PayDate.Format(model.DateFormat))
}

func TestRunFallsBackAcrossSources(t *testing.T) {
	store := setupStore(t)
	catalog := testCatalog(model.Fund{Symbol: "QQQI"})

	// stockanalysis serves a layout-changed page, nasdaq still works
	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		if strings.Contains(url, "stockanalysis.com") {
			return `<html><body><p>page redesigned</p></body></html>`, nil
		}
		if strings.Contains(url, "api.nasdaq.com") {
			return `{"data":{"dividends":{"rows":[{"exOrEffDate":"01/15/2024","amount":"$0.25","paymentDate":"01/18/2024"}]}}}`, nil
		}
		return "", fmt.Errorf("unexpected url %s", url)
	})

	orch := NewOrchestrator(store, fetcher, fetcher, catalog)
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded())
	require.Equal(t, "nasdaq", summary.Results[0].Source)
}

func TestRunRecordsExhaustedSources(t *testing.T) {
	store := setupStore(t)
	catalog := testCatalog(model.Fund{Symbol: "KQQQ"})

	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		return "", context.DeadlineExceeded
	})

	orch := NewOrchestrator(store, fetcher, fetcher, catalog)
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Failed())
	require.ErrorIs(t, summary.Results[0].Err, context.DeadlineExceeded)
	require.Contains(t, summary.Results[0].Err.Error(), "all sources failed")
}

func TestRunBrowserModeFundUsesBrowserFetcher(t *testing.T) {
	store := setupStore(t)
	catalog := testCatalog(model.Fund{Symbol: "MSTW", Mode: model.FetchModeBrowser})

	var httpURLs, browserURLs []string
	httpFetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		httpURLs = append(httpURLs, url)
		return "", fmt.Errorf("fetch %s: status 403", url)
	})
	browserFetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		browserURLs = append(browserURLs, url)
		return dividendPage(qqqiRow), nil
	})

	orch := NewOrchestrator(store, httpFetcher, browserFetcher, catalog)
	summary, err := orch.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Succeeded())

	// the page scrape went through the browser; an API source would have
	// stayed on plain HTTP
	require.Len(t, browserURLs, 1)
	require.Contains(t, browserURLs[0], "stockanalysis.com")
	require.Empty(t, httpURLs)
}

func TestRunStoreFailureIsFatal(t *testing.T) {
	store := setupStore(t)
	catalog := testCatalog(
		model.Fund{Symbol: "YBTC"},
		model.Fund{Symbol: "QQQI"},
	)

	fetcher := fetcherFunc(func(ctx context.Context, url string) (string, error) {
		return dividendPage(qqqiRow), nil
	})

	// a closed database makes every write fail
	require.NoError(t, store.Close())

	orch := NewOrchestrator(store, fetcher, fetcher, catalog)
	_, err := orch.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "store write")
}

func TestSummaryRenderTable(t *testing.T) {
	summary := Summary{Results: []FundResult{
		{Symbol: "QQQI", Source: "stockanalysis", Records: 2},
		{Symbol: "BTCI", Err: fmt.Errorf("all sources failed")},
	}}

	rendered := summary.RenderTable()
	require.Contains(t, rendered, "QQQI")
	require.Contains(t, rendered, "all sources failed")
	require.Contains(t, rendered, "1/2 succeeded")
}
