package main

import (
	"context"
	"log/slog"

	"dividendwatch/lib/serviceutil"
	"dividendwatch/lib/telemetry"
	"dividendwatch/services/dividends"
	divdb "dividendwatch/services/dividends/db"
	"dividendwatch/services/dividends/model"
	"dividendwatch/services/dividends/server"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the read-only query API and run until terminated.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := serviceutil.SignalContext()

		config, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if config.Server.StaticDir == "" {
			config.Server.StaticDir = "./static"
		}

		t, err := telemetry.SetupFromEnv(ctx, "dividendwatch-serve")
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

		srv := server.New(store, model.DefaultCatalog(), config.Server)
		go func() {
			err := srv.Listen()
			if err != nil {
				serviceutil.Fatal("failed to listen", err)
			}
		}()

		<-ctx.Done()
		slog.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			slog.Error("shutdown failed", "err", err)
		}
	},
}
