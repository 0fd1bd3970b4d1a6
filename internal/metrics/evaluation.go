package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/fieldeval/internal/domain"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
)

const namespace = "fieldeval"

// Evaluation Prometheus metrics.
var (
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of evaluation runs",
		},
		[]string{"source", "status"}, // status: "ok" or an error kind
	)

	EvaluationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Evaluation run duration in seconds, including payload loading",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
		[]string{"source"},
	)

	EvaluationScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "evaluation_score",
			Help:      "Scores of the most recent successful evaluation",
		},
		[]string{"source", "metric"},
	)

	EvaluationDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_documents_total",
			Help:      "Documents seen by evaluations, by outcome",
		},
		[]string{"outcome"}, // "scored" / "missing" / "extra"
	)

	ReferenceCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_cache_total",
			Help:      "Reference corpus cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var registerOnce sync.Once

// RegisterEvaluationMetrics registers the evaluation metrics with the default
// registry. Safe to call more than once.
func RegisterEvaluationMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(EvaluationsTotal)
		prometheus.MustRegister(EvaluationDuration)
		prometheus.MustRegister(EvaluationScore)
		prometheus.MustRegister(EvaluationDocumentsTotal)
		prometheus.MustRegister(ReferenceCacheTotal)
	})
}

// Recorder feeds evaluation outcomes into the package metrics.
type Recorder struct{}

// NewRecorder registers the evaluation metrics and returns a Recorder.
func NewRecorder() *Recorder {
	RegisterEvaluationMetrics()
	return &Recorder{}
}

// ObserveEvaluation records a successful run.
func (*Recorder) ObserveEvaluation(source string, m evaluation.Metrics, d time.Duration) {
	EvaluationsTotal.WithLabelValues(source, "ok").Inc()
	EvaluationDuration.WithLabelValues(source).Observe(d.Seconds())
	for name, v := range m.Scores() {
		EvaluationScore.WithLabelValues(source, name).Set(v)
	}

	missing := len(m.MissingDocuments)
	EvaluationDocumentsTotal.WithLabelValues("scored").Add(float64(m.NumDocuments - missing))
	EvaluationDocumentsTotal.WithLabelValues("missing").Add(float64(missing))
	EvaluationDocumentsTotal.WithLabelValues("extra").Add(float64(len(m.ExtraDocuments)))
}

// ObserveFailure records a failed run.
func (*Recorder) ObserveFailure(source string, kind domain.ErrorKind, d time.Duration) {
	EvaluationsTotal.WithLabelValues(source, string(kind)).Inc()
	EvaluationDuration.WithLabelValues(source).Observe(d.Seconds())
}

// ObserveReferenceLoad records whether the reference corpus came from cache.
func (*Recorder) ObserveReferenceLoad(cached bool) {
	if cached {
		ReferenceCacheTotal.WithLabelValues("hit").Inc()
		return
	}
	ReferenceCacheTotal.WithLabelValues("miss").Inc()
}
