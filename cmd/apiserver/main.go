// API server entry point for RxLens.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/fda"
	"github.com/rxlens/rxlens/internal/infrastructure/database/postgres"
	"github.com/rxlens/rxlens/internal/infrastructure/database/postgres/repositories"
	"github.com/rxlens/rxlens/internal/infrastructure/database/redis"
	"github.com/rxlens/rxlens/internal/infrastructure/messaging/kafka"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/prometheus"
	"github.com/rxlens/rxlens/internal/infrastructure/storage/minio"
	httpserver "github.com/rxlens/rxlens/internal/interfaces/http"
	"github.com/rxlens/rxlens/internal/interfaces/http/handlers"
	"github.com/rxlens/rxlens/internal/ocr"
	"github.com/rxlens/rxlens/internal/parsing"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (default: environment only)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	logger.Info("starting rxlens api server", logging.Int("port", cfg.Server.Port))

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{Namespace: "rxlens"}, logger)
	if err != nil {
		logger.Error("metrics collector init failed", logging.Err(err))
		os.Exit(1)
	}
	metrics := prometheus.NewAppMetrics(collector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := analysis.Deps{Logger: logger, Metrics: metrics}
	readyChecks := map[string]handlers.ReadyCheck{}

	// Redis cache. Unavailability degrades to uncached operation.
	if rc, err := redis.NewClient(cfg.Redis, logger); err != nil {
		logger.Warn("redis unavailable, caching disabled", logging.Err(err))
	} else {
		defer rc.Close()
		deps.Cache = redis.NewCache(rc, logger)
		readyChecks["redis"] = rc.Ping
	}

	// PostgreSQL analysis history.
	if err := postgres.RunMigrations(cfg.Database, logger); err != nil {
		logger.Warn("database migrations failed", logging.Err(err))
	}
	if conn, err := postgres.NewConnection(ctx, cfg.Database, logger); err != nil {
		logger.Warn("postgres unavailable, analysis history disabled", logging.Err(err))
	} else {
		defer conn.Close()
		deps.Repo = repositories.NewAnalysisRepository(conn.Pool())
		readyChecks["postgres"] = conn.HealthCheck
	}

	// MinIO original-image archive.
	if mc, err := minio.NewClient(cfg.MinIO, logger); err != nil {
		logger.Warn("minio unavailable, image archiving disabled", logging.Err(err))
	} else {
		defer mc.Close()
		deps.Images = minio.NewImageStore(mc, cfg.MinIO.PresignExpiry, logger)
		readyChecks["minio"] = mc.HealthCheck
	}

	// Kafka analysis-completed events.
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewProducer(cfg.Kafka, logger)
		defer publisher.Close()
		deps.Publisher = publisher
	}

	// OCR providers, raced in registration order.
	var providers []ocr.Provider
	if cfg.OCR.TesseractEnabled {
		providers = append(providers, ocr.NewTesseractProvider(cfg.OCR, logger))
	}
	if cfg.OCR.RemoteEnabled && cfg.OCR.RemoteURL != "" {
		providers = append(providers, ocr.NewRemoteProvider(cfg.OCR, logger))
	}
	if len(providers) > 0 {
		deps.Race = ocr.NewRace(providers, cfg.OCR.EarlyExitConfidence, cfg.OCR.ConfidenceTolerance, logger, metrics)
	} else {
		logger.Warn("no OCR providers enabled, image analysis will be rejected")
	}

	deps.Parser = parsing.NewParser(parsing.NewRemoteClient(cfg.Parsing, logger), nil, logger, metrics)
	deps.FDA = fda.NewClient(cfg.FDA, logger, metrics)

	svc := analysis.NewService(cfg.Upload, deps)
	if cfg.Redis.WarmOnStart {
		go svc.WarmCache(ctx)
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		MedicalOCRHandler: handlers.NewMedicalOCRHandler(svc, logger),
		FDAHandler:        handlers.NewFDAHandler(svc),
		DrugHandler:       handlers.NewDrugHandler(svc),
		AnalysisHandler:   handlers.NewAnalysisHandler(svc),
		HealthHandler:     handlers.NewHealthHandler(readyChecks, logger),
		MetricsHandler:    collector.Handler(),
		Logger:            logger,
		Metrics:           metrics,
		Mode:              cfg.Server.Mode,
	})

	server := httpserver.NewServer(cfg.Server, router, logger)
	go func() {
		<-ctx.Done()
		if err := server.Stop(context.Background()); err != nil {
			logger.Error("shutdown failed", logging.Err(err))
		}
	}()

	if err := server.Start(); err != nil {
		logger.Error("http server failed", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("rxlens api server stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
