package fieldeval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	dbRedis "github.com/kailas-cloud/fieldeval/internal/db/redis"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	"github.com/kailas-cloud/fieldeval/internal/repository/report"
	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/fieldeval/internal/usecase/health"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces for substitution in tests.
type evaluationUseCase interface {
	Evaluate(ctx context.Context, predictions evaluateuc.Source) (evaluateuc.Result, error)
	EvaluatePayloads(ctx context.Context, reference, predictions evaluateuc.Source) (evaluateuc.Result, error)
	Report(ctx context.Context, runID string) ([]byte, error)
	Reports(ctx context.Context) ([]string, error)
}

// Client is the fieldeval SDK entry point.
type Client struct {
	store     *dbRedis.Store
	evalSvc   evaluationUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Redis is only contacted when configured; the provided
// context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{workers: evaluation.DefaultWorkers}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 && (cfg.groundTruthKey != "" || cfg.persist) {
		return nil, errors.New("fieldeval: redis address required (use WithRedis)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store *dbRedis.Store
	if len(cfg.addrs) > 0 {
		store, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("fieldeval: create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			store.Close()
			return nil, fmt.Errorf("fieldeval: redis not ready: %w", err)
		}
	}

	return wireClient(store, cfg, obs), nil
}

func wireClient(store *dbRedis.Store, cfg *clientConfig, obs *observer) *Client {
	evaluator := evaluation.NewEvaluator(evaluation.WithWorkers(cfg.workers))
	evalSvc := evaluateuc.New(referenceSource(store, cfg), evaluator, zap.NewNop())
	if cfg.persist && store != nil {
		reports := report.NewKV(store, cfg.reportPrefix, cfg.reportTTL)
		evalSvc = evalSvc.WithReports(reports, reports)
	}

	// Pass nil interface (not typed nil pointer!) when Redis is not configured.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}

	return &Client{
		store:     store,
		evalSvc:   evalSvc,
		healthSvc: healthuc.New(evalSvc, pinger),
		obs:       obs,
	}
}

// referenceSource picks the first configured reference: in-memory, file,
// Redis key, then the embedded corpus.
func referenceSource(store *dbRedis.Store, cfg *clientConfig) evaluateuc.Source {
	switch {
	case cfg.groundTruth != nil:
		return payload.Bytes(cfg.groundTruth)
	case cfg.groundTruthPath != "":
		return payload.NewReferenceFile(cfg.groundTruthPath)
	case cfg.groundTruthKey != "" && store != nil:
		return payload.NewKV(store, cfg.groundTruthKey)
	default:
		return payload.NewEmbedded()
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks Redis connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return errors.New("fieldeval: redis not configured")
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
