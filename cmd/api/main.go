package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"financial_analysis/pkg/api"
	"financial_analysis/pkg/api/middleware"
	"financial_analysis/pkg/core/analysis"
	"financial_analysis/pkg/core/benchmark"
	"financial_analysis/pkg/core/config"
	"financial_analysis/pkg/core/logger"
	"financial_analysis/pkg/core/metrics"
	"financial_analysis/pkg/core/narrative"
	"financial_analysis/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "config/service.yaml", "path to service config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load config")
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.File); err != nil {
		logger.Log.WithError(err).Fatal("failed to initialize logger")
	}
	log := logger.For("main")

	// Narrative rules and benchmark tables
	rules, err := narrative.LoadFromDirectory(cfg.Analysis.RulesDir)
	if err != nil {
		log.WithError(err).Fatal("failed to load narrative rules")
	}
	benchmarks, err := benchmark.LoadFile(cfg.Analysis.BenchmarksFile)
	if err != nil {
		log.WithError(err).Fatal("failed to load benchmarks")
	}

	reg := metrics.NewRegistry()
	engine := analysis.NewAnalysisEngine(
		analysis.WithRules(rules),
		analysis.WithBenchmarks(benchmarks),
		analysis.WithMetrics(reg),
	)

	// Report storage: Postgres when configured, files otherwise
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if cfg.Storage.DatabaseURL != "" {
		if err := store.InitDB(ctx, cfg.Storage.DatabaseURL); err != nil {
			log.WithError(err).Warn("database unavailable, falling back to file storage")
		} else if err := store.EnsureSchema(ctx, store.GetPool()); err != nil {
			log.WithError(err).Fatal("failed to prepare database schema")
		}
	}
	cancel()
	defer store.Close()

	vault, err := store.NewReportVault(store.GetPool(), cfg.Storage.CacheDir)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize report storage")
	}

	router := api.NewRouter(api.Deps{
		Engine:           engine,
		Store:            vault,
		Metrics:          reg,
		Limiter:          middleware.NewLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst),
		BatchConcurrency: cfg.Server.BatchConcurrency,
		BatchMaxItems:    cfg.Server.BatchMaxItems,
	})

	log.WithField("addr", cfg.Server.ListenAddr).Info("API server starting")
	log.Info("  - POST /api/analysis")
	log.Info("  - POST /api/analysis/batch")
	log.Info("  - POST /api/analysis/summary")
	log.Info("  - GET  /api/analysis/{id}")
	log.Info("  - GET  /api/metrics/roster")
	log.Info("  - GET  /api/benchmarks")
	log.WithField("backend", vault.Backend()).Info("report storage ready")

	if err := http.ListenAndServe(cfg.Server.ListenAddr, router); err != nil {
		log.WithError(err).Error("server failed")
		store.Close()
		os.Exit(1)
	}
}
