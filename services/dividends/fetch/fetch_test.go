package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testOptions() HTTPOptions {
	// no politeness delay against the local test server
	return HTTPOptions{Timeout: time.Second * 5, RequestInterval: time.Millisecond}
}

func TestHTTPFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html><body>dividend table</body></html>")
	}))
	defer srv.Close()

	fetcher := NewHTTP(testOptions())
	content, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, content, "dividend table")
}

func TestHTTPFetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	fetcher := NewHTTP(testOptions())
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusForbidden, fetchErr.Status)
	require.Equal(t, srv.URL, fetchErr.URL)
}

func TestHTTPFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	fetcher := NewHTTP(testOptions())
	_, err := fetcher.Fetch(context.Background(), url)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	require.Zero(t, fetchErr.Status)
}

func TestWithRetryEventualSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "recovered")
	}))
	defer srv.Close()

	fetcher := WithRetry(NewHTTP(testOptions()), 3, time.Millisecond)
	content, err := fetcher.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "recovered", content)
	require.EqualValues(t, 3, calls.Load())
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	fetcher := WithRetry(NewHTTP(testOptions()), 3, time.Millisecond)
	_, err := fetcher.Fetch(context.Background(), srv.URL)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusServiceUnavailable, fetchErr.Status)
	require.EqualValues(t, 3, calls.Load())
}

func TestWithRetryHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	fetcher := WithRetry(NewHTTP(testOptions()), 5, time.Minute)

	done := make(chan error, 1)
	go func() {
		_, err := fetcher.Fetch(ctx, srv.URL)
		done <- err
	}()
	// let the first attempt fail, then cancel during the retry delay
	time.Sleep(time.Millisecond * 100)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second * 5):
		t.Fatal("fetch did not return after cancellation")
	}
}
