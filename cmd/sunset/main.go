package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	httpadapter "github.com/matsuesunset/sunset-service/internal/adapter/http"
	kafkaadapter "github.com/matsuesunset/sunset-service/internal/adapter/kafka"
	"github.com/matsuesunset/sunset-service/internal/adapter/openmeteo"
	"github.com/matsuesunset/sunset-service/internal/config"
	"github.com/matsuesunset/sunset-service/internal/domain"
	"github.com/matsuesunset/sunset-service/internal/forecast"
	"github.com/matsuesunset/sunset-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := openmeteo.NewClient(cfg, metrics, logger)
	source := openmeteo.NewCachedSource(client, cfg.CacheSize, cfg.CacheTTL, clockwork.NewRealClock(), metrics)

	// Publishing is feature-flagged via KAFKA_BROKERS.
	var (
		publisher domain.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		metrics.PublisherEnabled.Set(1)
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publishing disabled")
	}

	svc := forecast.New(source, openmeteo.Source, publisher, cfg, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.CORSAllowOrigin, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Keep today's forecast warm.
	if cfg.RefreshInterval > 0 {
		go func() {
			if err := svc.Run(ctx, cfg.RefreshInterval); err != nil {
				logger.Error("forecast refresher error", "error", err)
			}
		}()
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
