package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

type BrowserOptions struct {
	// per-page timeout, defaults to 30s
	Timeout time.Duration
	// path to the chromium binary, empty means chromedp's lookup order
	ExecPath string
}

type browserFetcher struct {
	opts BrowserOptions
}

// NewBrowser returns the scripted-browser fetcher variant. Pages are
// loaded in headless chromium and the rendered DOM is returned, so data
// injected by page scripts is visible to the extractor.
func NewBrowser(opts BrowserOptions) Fetcher {
	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	return browserFetcher{opts: opts}
}

func (f browserFetcher) Fetch(ctx context.Context, url string) (string, error) {
	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(userAgent),
	)
	if f.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(f.opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, f.opts.Timeout)
	defer cancelTimeout()

	var content string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &content, chromedp.ByQuery),
	)
	if err != nil {
		return "", &Error{URL: url, Err: err}
	}
	return content, nil
}
