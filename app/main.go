package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/adapters"
	"github.com/RichWangombe/bookmarkr-platform/app/aggregator"
	"github.com/RichWangombe/bookmarkr-platform/app/api"
	"github.com/RichWangombe/bookmarkr-platform/app/cfg"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
	"github.com/RichWangombe/bookmarkr-platform/app/recommend"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Bookmarkr platform", "version", appCfg.Version)

	if err := os.MkdirAll(filepath.Dir(appCfg.DBPath), 0o755); err != nil {
		slog.Error("Failed to create database directory", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	catalog := sources.NewCatalog(appCfg.SourcesDir)
	if err := catalog.Run(); err != nil {
		slog.Error("Failed to load source catalog", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source catalog loaded", "dir", appCfg.SourcesDir, "sources", catalog.GetSourceCount())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := catalog.Watch(ctx); err != nil {
			slog.Warn("Source catalog watcher stopped", "error", err)
		}
	}()

	client := &http.Client{
		Timeout: time.Duration(appCfg.FetchTimeout) * time.Second,
	}

	fetchers := map[sources.Type]adapters.Fetcher{
		sources.TypeFeed:   adapters.NewFeedAdapter(client, appCfg.UserAgent),
		sources.TypeCrawl:  adapters.NewCrawlAdapter(client, appCfg.UserAgent),
		sources.TypeSocial: adapters.NewSocialAdapter(client, appCfg.UserAgent),
		sources.TypeAPI: adapters.NewAPIAdapter(client, appCfg.UserAgent, map[string]string{
			"newsapi": appCfg.NewsAPIKey,
			"gnews":   appCfg.GNewsAPIKey,
		}),
	}

	registry := sources.NewRegistry()
	agg := aggregator.New(catalog, registry, fetchers, aggregator.Options{
		BaseTTL:    time.Duration(appCfg.CacheTTL) * time.Minute,
		BatchSize:  appCfg.BatchSize,
		MaxRetries: appCfg.MaxRetries,
		BatchDelay: time.Duration(appCfg.BatchDelay) * time.Millisecond,
		CrawlDelay: time.Duration(appCfg.CrawlDelay) * time.Millisecond,
	})

	bookmarkRepo := database.NewBookmarkRepository(db)
	engine := recommend.NewEngine(bookmarkRepo, agg)

	handler := api.NewHandler(agg, engine, bookmarkRepo, appCfg.TrendingLimit)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Warm the global cache so the first request is not the one paying
	// for a full fetch round.
	go agg.GetAllNews(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
