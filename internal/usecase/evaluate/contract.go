package evaluate

import (
	"context"
	"time"

	"github.com/kailas-cloud/fieldeval/internal/domain"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
)

// Source loads a raw corpus payload: a JSON array of documents.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]byte, error)
}

// ReportStore persists finished reports.
type ReportStore interface {
	Save(ctx context.Context, runID string, m evaluation.Metrics) error
}

// ReportReader reads persisted reports back.
type ReportReader interface {
	Get(ctx context.Context, runID string) ([]byte, error)
	List(ctx context.Context) ([]string, error)
}

// Recorder observes evaluation outcomes (metrics).
type Recorder interface {
	ObserveEvaluation(source string, m evaluation.Metrics, d time.Duration)
	ObserveFailure(source string, kind domain.ErrorKind, d time.Duration)
	ObserveReferenceLoad(cached bool)
}
