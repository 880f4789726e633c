package fetch

import (
	"context"
	"net/http/cookiejar"
	"time"

	"dividendwatch/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type HTTPOptions struct {
	// per-request timeout, defaults to 15s
	Timeout time.Duration
	// minimum spacing between requests, defaults to 2s.
	// dividend pages are scraped politely, one fund at a time.
	RequestInterval time.Duration
}

type httpFetcher struct {
	client *resty.Client
}

// NewHTTP returns the plain-HTTP fetcher variant.
func NewHTTP(opts HTTPOptions) Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 15
	}
	if opts.RequestInterval == 0 {
		opts.RequestInterval = time.Second * 2
	}

	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err == nil {
		client.SetCookieJar(jar)
	}
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", userAgent)
	client.SetHeader("accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	client.SetHeader("accept-language", "en-US,en;q=0.5")
	client.SetTimeout(opts.Timeout)

	limiter := rate.NewLimiter(rate.Every(opts.RequestInterval), 1)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "dividends/fetch")

	return httpFetcher{client: client}
}

func (f httpFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	if res.IsError() {
		return "", &Error{URL: url, Status: res.StatusCode()}
	}
	return string(res.Body()), nil
}
