// Worker entry point for RxLens. It consumes analysis-completed events and
// pre-warms the medication-info cache for the medications they reference, so
// follow-up lookups from clients hit Redis instead of the upstream.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/rxlens/rxlens/internal/application/analysis"
	"github.com/rxlens/rxlens/internal/config"
	"github.com/rxlens/rxlens/internal/fda"
	"github.com/rxlens/rxlens/internal/infrastructure/database/redis"
	"github.com/rxlens/rxlens/internal/infrastructure/messaging/kafka"
	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
	"github.com/rxlens/rxlens/pkg/errors"
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

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Error("kafka brokers are required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps := analysis.Deps{
		FDA:    fda.NewClient(cfg.FDA, logger, nil),
		Logger: logger,
	}
	if rc, err := redis.NewClient(cfg.Redis, logger); err != nil {
		logger.Warn("redis unavailable, lookups will not be cached", logging.Err(err))
	} else {
		defer rc.Close()
		deps.Cache = redis.NewCache(rc, logger)
	}
	svc := analysis.NewService(cfg.Upload, deps)

	handler := func(ctx context.Context, event *kafka.AnalysisCompletedEvent) error {
		logger.Info("analysis completed",
			logging.String("analysis_id", event.AnalysisID),
			logging.String("provider", event.Provider),
			logging.Int("medications", event.MedicationCount),
		)
		if event.PrimaryMedication == "" {
			return nil
		}
		if _, err := svc.GetMedicationInfo(ctx, event.PrimaryMedication); err != nil {
			// Unknown medications are final; anything else is worth one log
			// line but never a redelivery loop.
			if !errors.IsNotFound(err) {
				logger.Warn("medication warm-up failed",
					logging.String("medication", event.PrimaryMedication),
					logging.Err(err),
				)
			}
		}
		return nil
	}

	concurrency := cfg.Worker.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	logger.Info("starting rxlens worker", logging.Int("consumers", concurrency))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < concurrency; i++ {
		consumer := kafka.NewConsumer(cfg.Kafka, logger)
		g.Go(func() error {
			defer consumer.Close()
			return consumer.Run(gctx, handler)
		})
	}

	if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
		logger.Error("worker failed", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("rxlens worker stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}
