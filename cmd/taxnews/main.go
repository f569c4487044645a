package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	if err := InitLogger(cfg.LogPath, cfg.LogLevel); err != nil {
		log.Printf("Warning: file logging not available: %v", err)
	}
	defer Logger().Close()

	Logger().Info("%s v%s starting up", AppName, AppVersion)

	registry, err := LoadSourceRegistry(cfg.SourcesPath)
	if err != nil {
		Logger().Error("Failed to load sources: %v", err)
		os.Exit(1)
	}
	Logger().Info("Loaded %d sources from %s", registry.Len(), cfg.SourcesPath)

	keywords, err := LoadKeywords(cfg.KeywordsPath)
	if err != nil {
		Logger().Error("Failed to load keywords: %v", err)
		os.Exit(1)
	}

	classifier := NewClassifier(keywords)
	fetcher := NewFetcher(cfg.UserAgent)
	aggregator := NewAggregator(fetcher, classifier, cfg.FetchTimeout, cfg.MaxConcurrentFeeds)

	cache := NewCacheManager(cfg.CacheTTL, func(ctx context.Context) (*Snapshot, error) {
		started := time.Now()
		items := aggregator.Run(ctx, registry.List())
		snap := &Snapshot{Items: items, GeneratedAt: time.Now().UTC()}
		appState.RecordRefresh(snap)
		Logger().Info("Aggregation cycle done: %d items in %s", len(items), time.Since(started).Round(time.Millisecond))
		return snap, nil
	})

	server := NewServer(cache, registry)
	cache.SetUpdateHandler(server.BroadcastRefresh)

	scheduler, err := NewScheduler(cache, cfg.CacheTTL)
	if err != nil {
		Logger().Error("Failed to create scheduler: %v", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(cfg.Port)
	}()

	// Wait for signal or server failure
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sc:
		Logger().Info("Received %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil {
			Logger().Error("API server failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		Logger().Warning("Shutdown incomplete: %v", err)
	}
	Logger().Info("Shutdown complete")
}
