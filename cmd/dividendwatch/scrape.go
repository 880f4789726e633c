package main

import (
	"context"
	"fmt"

	"dividendwatch/lib/serviceutil"
	"dividendwatch/lib/telemetry"
	"dividendwatch/services/dividends"
	divdb "dividendwatch/services/dividends/db"
	"dividendwatch/services/dividends/fetch"
	"dividendwatch/services/dividends/model"

	"github.com/spf13/cobra"
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run one full scrape cycle over the fund catalog and exit.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		config, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		t, err := telemetry.SetupFromEnv(ctx, "dividendwatch-scrape")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		database, err := config.Database.OpenDB(divdb.Schema)
		if err != nil {
			serviceutil.Fatal("failed to open database", err)
		}
		store := dividends.NewStore(database)
		defer store.Close()

		httpFetcher := fetch.WithRetry(
			fetch.NewHTTP(fetch.HTTPOptions{Timeout: config.Fetch.Timeout()}),
			config.Fetch.RetryAttempts(),
			config.Fetch.RetryDelay(),
		)
		browserFetcher := fetch.WithRetry(
			fetch.NewBrowser(fetch.BrowserOptions{
				Timeout:  config.Fetch.Timeout(),
				ExecPath: config.Fetch.ChromiumPath,
			}),
			config.Fetch.RetryAttempts(),
			config.Fetch.RetryDelay(),
		)

		orchestrator := dividends.NewOrchestrator(
			store, httpFetcher, browserFetcher, model.DefaultCatalog(),
		)
		summary, err := orchestrator.Run(ctx)
		fmt.Println(summary.RenderTable())
		if err != nil {
			serviceutil.Fatal("scrape batch aborted", err)
		}
	},
}
