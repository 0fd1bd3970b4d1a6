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

	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/config"
	dbRedis "github.com/kailas-cloud/fieldeval/internal/db/redis"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
	"github.com/kailas-cloud/fieldeval/internal/domain/template"
	logpkg "github.com/kailas-cloud/fieldeval/internal/logger"
	"github.com/kailas-cloud/fieldeval/internal/metrics"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	"github.com/kailas-cloud/fieldeval/internal/repository/report"
	chiTransport "github.com/kailas-cloud/fieldeval/internal/transport/chi"
	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/fieldeval/internal/usecase/health"
	"github.com/kailas-cloud/fieldeval/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()
	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, logpkg.WithLevel(cfg.Logging.Level), logpkg.WithName("server"))
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting fieldeval API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("reference_source", cfg.Reference.Source),
		zap.Strings("store_addrs", cfg.Store.Addrs),
		zap.Int("workers", cfg.Evaluation.Workers),
	)

	ctx := context.Background()

	// Redis is optional; it backs the redis reference source and report persistence.
	var store *dbRedis.Store
	if cfg.Store.Enabled() {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Store.Addrs,
			Username: cfg.Store.Username,
			Password: cfg.Store.Password,
			DB:       cfg.Store.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Store.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Store not ready", zap.Error(err))
		}
		logger.Info("Connected to store")
	}

	reference, buildInfo := buildReference(cfg.Reference, store, logger)

	metrics.RegisterEvaluationMetrics()

	evaluator := evaluation.NewEvaluator(evaluation.WithWorkers(cfg.Evaluation.Workers))
	evalSvc := evaluateuc.New(reference, evaluator, logger).
		WithRecorder(metrics.NewRecorder(), "http")
	if cfg.Report.Persist {
		reports := report.NewKV(store, cfg.Report.KeyPrefix, cfg.Report.TTL())
		evalSvc = evalSvc.WithReports(reports, reports)
	}

	// Pass nil interface (not typed nil pointer!) when no store is configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(evalSvc, pinger)

	// Fail fast on a broken reference instead of on the first request.
	if err := evalSvc.CheckReference(ctx); err != nil {
		logger.Fatal("Reference corpus unavailable", zap.Error(err))
	}

	server := chiTransport.NewServer(
		evalSvc, healthSvc, chiTransport.NewInfoResponse(buildInfo), template.Raw(), logger,
	).WithMaxBodyBytes(cfg.HTTP.MaxBodyBytes)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Routes(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildReference picks the reference source. Build metadata is only known for
// the embedded reference.
func buildReference(
	cfg config.ReferenceConfig, store *dbRedis.Store, logger *zap.Logger,
) (evaluateuc.Source, *version.BuildInfo) {
	switch cfg.Source {
	case config.ReferenceFile:
		return payload.NewReferenceFile(cfg.Path), nil
	case config.ReferenceRedis:
		return payload.NewKV(store, cfg.Key), nil
	}

	info, err := version.ParseBuildInfo(payload.EmbeddedBuildInfo())
	if err != nil {
		logger.Warn("Embedded build info unreadable", zap.Error(err))
		return payload.NewEmbedded(), nil
	}
	logger.Info("Using embedded reference",
		zap.String("ground_truth_sha256", info.GroundTruthSHA256),
		zap.Int("documents", info.DocumentCount),
	)
	return payload.NewEmbedded(), &info
}
