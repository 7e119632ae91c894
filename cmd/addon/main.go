package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ogero/stremio-tmdb/internal"
	"github.com/ogero/stremio-tmdb/internal/cache"
	"github.com/ogero/stremio-tmdb/internal/common"
	"github.com/ogero/stremio-tmdb/internal/config"
	"github.com/ogero/stremio-tmdb/internal/loki"
	"github.com/ogero/stremio-tmdb/internal/manifest"
	"github.com/ogero/stremio-tmdb/pkg/tmdb"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const serviceName = "stremio-tmdb"

func main() {

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load()
	if err != nil {
		common.Log.Error("Failed to config.Load", "err", err)
		os.Exit(1)
	}

	info := manifest.DefaultInfo()

	shutdownLogger, err := common.InitLogger(serviceName, info.Version, cfg.ServiceEnvironment, cfg.OTELExporterEndpoint)
	if err != nil {
		common.Log.Error("Failed to common.InitLogger", "err", err)
		os.Exit(1)
	}

	shutdownInstrumentation, err := common.InitInstrumentation(serviceName, info.Version, cfg.ServiceEnvironment, cfg.OTELExporterEndpoint)
	if err != nil {
		common.Log.Error("Failed to common.InitInstrumentation", "err", err)
		os.Exit(1)
	}

	c, err := cache.Open(cfg.CachePath, common.Log)
	if err != nil {
		common.Log.Error("Failed to cache.Open", "err", err)
		os.Exit(1)
	}

	translations, err := manifest.LoadTranslations()
	if err != nil {
		common.Log.Error("Failed to manifest.LoadTranslations", "err", err)
		os.Exit(1)
	}

	providers := internal.NewCachedProviders(tmdb.NewTMDB(cfg.TMDBAPIKey, cfg.TMDBAccessToken), c)
	builder := manifest.NewBuilder(providers, providers, manifest.DefaultTaxonomy(), translations, info)

	var lokiClient loki.Loki
	if cfg.LokiHost != "" {
		lokiClient = loki.NewLoki(cfg.LokiHost, serviceName)
	}

	stremioService, err := internal.NewStremioService(cfg.StatsWebsocketChannel, builder, lokiClient)
	if err != nil {
		common.Log.Error("Failed to internal.NewStremioService", "err", err)
		os.Exit(1)
	}

	pollingCtx, stopPolling := context.WithCancel(context.Background())
	if lokiClient != nil {
		go stremioService.StartPollingStats(pollingCtx, cfg.StatsPollingInterval)
	}

	app, err := internal.NewApp(stremioService)
	if err != nil {
		common.Log.Error("Failed to internal.NewApp", "err", err)
		os.Exit(1)
	}

	// Listen
	srv := &http.Server{
		Addr:              cfg.ServerListenAddr,
		Handler:           otelhttp.NewHandler(app.Router(), serviceName),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		common.Log.Info("Listening", "addr", cfg.ServerListenAddr)
		common.Log.Info("Install", "url", fmt.Sprintf("%s/manifest.json", cfg.AddonHost))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.Log.Error("Failed to http.Server.ListenAndServe", "err", err)
			quit <- syscall.SIGTERM
		}
	}()

	<-quit

	stopPolling()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		common.Log.Error("Failed to http server shutdown", "err", err)
	}

	if err := stremioService.Shutdown(ctx); err != nil {
		common.Log.Error("Failed to StremioService.Shutdown", "err", err)
	}

	if err := c.Close(); err != nil {
		common.Log.Error("Failed to cache.Close", "err", err)
	}

	shutdownInstrumentation(ctx)
	if err := shutdownLogger(ctx); err != nil {
		common.Log.Error("Failed to shutdown logger", "err", err)
	}

	common.Log.Info("Bye!")
}
