package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dividendwatch/lib/testutil"
	"dividendwatch/services/dividends"
	"dividendwatch/services/dividends/db"
	"dividendwatch/services/dividends/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func setupServer(t *testing.T) (*Server, dividends.Store) {
	result, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "dividends-server",
		DbSchema: db.Schema,
	})
	t.Cleanup(cleanup)

	store := dividends.NewStore(result.DB)
	return New(store, model.DefaultCatalog(), Config{}), store
}

func seed(t *testing.T, store dividends.Store, symbol, exDate, payDate, amount string) {
	record := model.Distribution{
		Symbol: symbol,
		Amount: decimal.RequireFromString(amount),
	}
	var err error
	record.ExDate, err = time.Parse(model.DateFormat, exDate)
	require.NoError(t, err)
	if payDate != "" {
		pay, err := time.Parse(model.DateFormat, payDate)
		require.NoError(t, err)
		record.PayDate = &pay
	}
	require.NoError(t, store.Upsert(context.Background(), record))
}

func get(t *testing.T, s *Server, path string) (int, []byte) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	res, err := s.App.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, body
}

func TestListDistributions(t *testing.T) {
	s, store := setupServer(t)
	seed(t, store, "QQQI", "2024-01-15", "2024-01-18", "0.25")
	seed(t, store, "YBTC", "2024-01-10", "", "0.31")

	status, body := get(t, s, "/distributions")
	require.Equal(t, http.StatusOK, status)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 2)

	// ordered by ex-date ascending, pay_date null when unknown
	require.Equal(t, "YBTC", records[0]["fund_symbol"])
	require.Nil(t, records[0]["pay_date"])
	require.Equal(t, "QQQI", records[1]["fund_symbol"])
	require.Equal(t, "2024-01-18", records[1]["pay_date"])
	require.Equal(t, "0.25", records[1]["amount"])
}

func TestListDistributionsEmpty(t *testing.T) {
	s, _ := setupServer(t)

	status, body := get(t, s, "/distributions")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))
}

func TestListDistributionsDateFilter(t *testing.T) {
	s, store := setupServer(t)
	seed(t, store, "QQQI", "2023-12-14", "", "0.24")
	seed(t, store, "QQQI", "2024-01-15", "", "0.25")

	status, body := get(t, s, "/distributions?from=2024-01-01")
	require.Equal(t, http.StatusOK, status)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(body, &records))
	require.Len(t, records, 1)
	require.Equal(t, "2024-01-15", records[0]["ex_date"])

	status, _ = get(t, s, "/distributions?from=yesterday")
	require.Equal(t, http.StatusBadRequest, status)
}

func TestListFundDistributions(t *testing.T) {
	s, store := setupServer(t)
	seed(t, store, "QQQI", "2024-01-15", "2024-01-18", "0.25")
	seed(t, store, "YBTC", "2024-01-10", "", "0.31")

	status, body := get(t, s, "/distributions/qqqi")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[{"fund_symbol":"QQQI","ex_date":"2024-01-15","pay_date":"2024-01-18","amount":"0.25"}]`, string(body))
}

func TestListFundDistributionsNoHistory(t *testing.T) {
	s, _ := setupServer(t)

	// a cataloged fund with nothing recorded yet is an empty array, not an error
	status, body := get(t, s, "/distributions/IWMI")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `[]`, string(body))
}

func TestListFundDistributionsUnknownSymbol(t *testing.T) {
	s, _ := setupServer(t)

	status, body := get(t, s, "/distributions/UNKNOWN")
	require.Equal(t, http.StatusNotFound, status)
	require.JSONEq(t, `{"error":"unknown fund symbol"}`, string(body))
}

func TestFundStats(t *testing.T) {
	s, store := setupServer(t)
	seed(t, store, "QQQI", "2023-12-14", "", "0.24")
	seed(t, store, "QQQI", "2024-01-15", "", "0.25")

	status, body := get(t, s, "/distributions/QQQI/stats")
	require.Equal(t, http.StatusOK, status)

	var stats map[string]any
	require.NoError(t, json.Unmarshal(body, &stats))
	require.EqualValues(t, 2, stats["count"])
	require.Equal(t, "0.25", stats["latest"])
	require.Equal(t, "stable", stats["trend"])
}

func TestFundStatsNoHistory(t *testing.T) {
	s, _ := setupServer(t)

	status, body := get(t, s, "/distributions/QQQI/stats")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `null`, string(body))
}

func TestListFunds(t *testing.T) {
	s, _ := setupServer(t)

	status, body := get(t, s, "/funds")
	require.Equal(t, http.StatusOK, status)

	var funds []map[string]any
	require.NoError(t, json.Unmarshal(body, &funds))
	require.Len(t, funds, 8)
	require.Equal(t, "YBTC", funds[0]["symbol"])
	// scraping internals stay out of the payload
	require.NotContains(t, funds[0], "Slug")
	require.NotContains(t, funds[0], "Mode")
}

func TestStatus(t *testing.T) {
	s, store := setupServer(t)

	status, body := get(t, s, "/status")
	require.Equal(t, http.StatusOK, status)
	var payload map[string]any
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "no_data", payload["status"])

	seed(t, store, "QQQI", "2024-01-15", "", "0.25")

	status, body = get(t, s, "/status")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &payload))
	require.Equal(t, "ok", payload["status"])
	require.EqualValues(t, 1, payload["records"])
	require.NotEmpty(t, payload["last_scraped"])
}

func TestStoreFailureIsServerError(t *testing.T) {
	s, store := setupServer(t)
	require.NoError(t, store.Close())

	status, body := get(t, s, "/distributions/QQQI")
	require.Equal(t, http.StatusInternalServerError, status)
	require.JSONEq(t, `{"error":"failed to read distribution history"}`, string(body))
}
