package evaluate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/domain"
	"github.com/kailas-cloud/fieldeval/internal/domain/document"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
	"github.com/kailas-cloud/fieldeval/internal/logger"
)

// Result is the outcome of one evaluation run.
type Result struct {
	RunID    string
	Metrics  evaluation.Metrics
	Duration time.Duration
}

// Service loads corpora, evaluates them and hands the report to the
// configured sinks.
type Service struct {
	reference Source
	evaluator *evaluation.Evaluator
	logger    *zap.Logger

	reports  ReportStore
	reader   ReportReader
	recorder Recorder
	label    string
	newID    func() string

	mu     sync.Mutex
	cached *document.Corpus
}

// New creates an evaluation service. reference is loaded and parsed on first
// use and cached for the lifetime of the service.
func New(reference Source, evaluator *evaluation.Evaluator, logger *zap.Logger) *Service {
	return &Service{
		reference: reference,
		evaluator: evaluator,
		logger:    logger,
		label:     "default",
		newID:     uuid.NewString,
	}
}

// WithReports sets where reports are saved and read back. Either may be nil.
func (s *Service) WithReports(store ReportStore, reader ReportReader) *Service {
	s.reports = store
	s.reader = reader
	return s
}

// WithRecorder sets the metrics recorder and the source label it reports under.
func (s *Service) WithRecorder(r Recorder, label string) *Service {
	s.recorder = r
	if label != "" {
		s.label = label
	}
	return s
}

// WithIDGenerator overrides run id generation.
func (s *Service) WithIDGenerator(f func() string) *Service {
	if f != nil {
		s.newID = f
	}
	return s
}

// Evaluate scores predictions against the configured reference corpus.
func (s *Service) Evaluate(ctx context.Context, predictions Source) (Result, error) {
	start := time.Now()
	runID := s.newID()
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("run_id", runID))

	ref, err := s.loadReference(ctx)
	if err != nil {
		return Result{}, s.fail(log, start, fmt.Errorf("load reference: %w", err))
	}
	return s.run(ctx, log, runID, start, ref, predictions)
}

// EvaluatePayloads scores predictions against an explicitly supplied
// reference, bypassing the configured one.
func (s *Service) EvaluatePayloads(ctx context.Context, reference, predictions Source) (Result, error) {
	start := time.Now()
	runID := s.newID()
	log := logger.FromContextOr(ctx, s.logger).With(zap.String("run_id", runID))

	ref, err := loadCorpus(ctx, reference)
	if err != nil {
		return Result{}, s.fail(log, start, fmt.Errorf("load reference: %w", err))
	}
	warnDuplicates(log, "reference", ref)
	return s.run(ctx, log, runID, start, ref, predictions)
}

// CheckReference verifies that the configured reference loads and parses.
func (s *Service) CheckReference(ctx context.Context) error {
	_, err := s.loadReference(ctx)
	return err
}

// Report returns a persisted report by run id.
func (s *Service) Report(ctx context.Context, runID string) ([]byte, error) {
	if s.reader == nil {
		return nil, domain.ErrReportStoreDisabled
	}
	data, err := s.reader.Get(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return data, nil
}

// Reports lists the run ids of persisted reports.
func (s *Service) Reports(ctx context.Context) ([]string, error) {
	if s.reader == nil {
		return nil, domain.ErrReportStoreDisabled
	}
	ids, err := s.reader.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return ids, nil
}

func (s *Service) run(
	ctx context.Context, log *zap.Logger, runID string, start time.Time,
	ref document.Corpus, predictions Source,
) (Result, error) {
	pred, err := loadCorpus(ctx, predictions)
	if err != nil {
		return Result{}, s.fail(log, start, fmt.Errorf("load predictions: %w", err))
	}
	warnDuplicates(log, "predictions", pred)

	m, err := s.evaluator.Evaluate(ctx, ref, pred)
	if err != nil {
		return Result{}, s.fail(log, start, fmt.Errorf("evaluate: %w", err))
	}

	if s.reports != nil {
		if err := s.reports.Save(ctx, runID, m); err != nil {
			return Result{}, s.fail(log, start, fmt.Errorf("save report: %w", err))
		}
	}

	d := time.Since(start)
	if s.recorder != nil {
		s.recorder.ObserveEvaluation(s.label, m, d)
	}
	log.Info("Evaluation completed",
		zap.String("predictions", predictions.Name()),
		zap.Int("documents", m.NumDocuments),
		zap.Int("fields", m.NumFields),
		zap.Int("missing_documents", len(m.MissingDocuments)),
		zap.Int("extra_documents", len(m.ExtraDocuments)),
		zap.Float64("overall_score", float64(m.OverallScore)),
		zap.Duration("duration", d),
	)
	return Result{RunID: runID, Metrics: m, Duration: d}, nil
}

func (s *Service) fail(log *zap.Logger, start time.Time, err error) error {
	d := time.Since(start)
	kind := domain.KindOf(err)
	if s.recorder != nil {
		s.recorder.ObserveFailure(s.label, kind, d)
	}
	log.Warn("Evaluation failed",
		zap.String("kind", string(kind)),
		zap.Duration("duration", d),
		zap.Error(err),
	)
	return err
}

// loadReference returns the cached reference corpus, loading it on first use.
// Failed loads are not cached.
func (s *Service) loadReference(ctx context.Context) (document.Corpus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		s.observeReference(true)
		return *s.cached, nil
	}
	s.observeReference(false)

	ref, err := loadCorpus(ctx, s.reference)
	if err != nil {
		return document.Corpus{}, err
	}
	warnDuplicates(s.logger, "reference", ref)
	s.cached = &ref
	s.logger.Info("Reference corpus loaded",
		zap.String("source", s.reference.Name()),
		zap.Int("documents", ref.Len()),
	)
	return ref, nil
}

func (s *Service) observeReference(cached bool) {
	if s.recorder != nil {
		s.recorder.ObserveReferenceLoad(cached)
	}
}

func loadCorpus(ctx context.Context, src Source) (document.Corpus, error) {
	data, err := src.Load(ctx)
	if err != nil {
		return document.Corpus{}, err //nolint:wrapcheck // sources return domain errors
	}
	c, err := document.ParseCorpus(data)
	if err != nil {
		return document.Corpus{}, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return c, nil
}

func warnDuplicates(log *zap.Logger, role string, c document.Corpus) {
	if dups := c.Duplicates(); len(dups) > 0 {
		log.Warn("Duplicate document ids, last occurrence wins",
			zap.String("corpus", role),
			zap.Strings("document_ids", dups),
		)
	}
}
