package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platformbuilds/mirador-console/internal/api"
	"github.com/platformbuilds/mirador-console/internal/api/handlers"
	"github.com/platformbuilds/mirador-console/internal/config"
	"github.com/platformbuilds/mirador-console/internal/i18n"
	"github.com/platformbuilds/mirador-console/internal/tracing"
	"github.com/platformbuilds/mirador-console/pkg/cache"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

func main() {
	cfg, v, err := config.LoadFile(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting MIRADOR-CONSOLE", "version", handlers.Version, "environment", cfg.Environment)

	tp, err := tracing.NewTracerProvider(cfg.Tracing, handlers.Version)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}
	if tp.Enabled() {
		logger.Info("Exporting spans", "endpoint", cfg.Tracing.Endpoint, "sample_ratio", cfg.Tracing.SampleRatio)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	store := newStore(cfg, logger)
	if s, ok := store.(interface{ Stop() }); ok {
		defer s.Stop()
	}

	bundle, err := i18n.New(cfg.I18n.DefaultLanguage, logger)
	if err != nil {
		logger.Fatal("Failed to load translations", "error", err)
	}
	for _, lang := range i18n.SupportedLanguages {
		logger.Info("Translations loaded", "language", lang, "count", bundle.TranslationCount(lang))
	}

	apiServer, err := api.NewServer(cfg, logger, store, bundle)
	if err != nil {
		logger.Fatal("Failed to initialize API server", "error", err)
	}

	watcher := config.NewConfigWatcher(v, cfg, logger)
	watcher.RegisterWatcher(func(next *config.Config) {
		logger.SetLevel(next.LogLevel)
		apiServer.ApplyConfig(next)
	})
	if err := watcher.Start(); err != nil {
		if !errors.Is(err, config.ErrNoConfigFile) {
			logger.Fatal("Failed to watch configuration", "error", err)
		}
		logger.Info("No configuration file found; runtime reload disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}

	logger.Info("MIRADOR-CONSOLE shutdown complete")
}

// newStore returns the in-process store, or a Valkey client that takes
// over from it once the configured server is reachable.
func newStore(cfg *config.Config, log logger.Logger) cache.Cache {
	ttl := cfg.CacheTTL()
	if !cfg.Cache.Enabled {
		log.Info("Valkey disabled; using in-memory store")
		return cache.NewMemory(ttl)
	}
	memory := cache.NewNoopValkeyCache(log, ttl)

	retry := time.Duration(cfg.Cache.RetryInterval) * time.Second
	if cfg.Cache.Mode == "cluster" {
		log.Info("Connecting to Valkey cluster", "nodes", len(cfg.Cache.Nodes))
		return cache.NewAutoSwapForCluster(cfg.Cache.Nodes, cfg.Cache.Password, ttl, retry, log, memory)
	}
	log.Info("Connecting to Valkey", "addr", cfg.Cache.Addr, "db", cfg.Cache.DB)
	return cache.NewAutoSwapForSingle(cfg.Cache.Addr, cfg.Cache.DB, cfg.Cache.Password, ttl, retry, log, memory)
}
