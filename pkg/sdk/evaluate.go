package fieldeval

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/fieldeval/internal/domain/document"
	"github.com/kailas-cloud/fieldeval/internal/domain/evaluation"
	"github.com/kailas-cloud/fieldeval/internal/domain/template"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	"github.com/kailas-cloud/fieldeval/internal/version"
)

// Metrics is the evaluation report. Its JSON encoding is the report format.
type Metrics = evaluation.Metrics

// BuildInfo describes the reference corpus embedded in the library.
type BuildInfo = version.BuildInfo

// Report is the outcome of one client evaluation.
type Report struct {
	RunID    string
	Metrics  Metrics
	Duration time.Duration
}

// JSON renders the report the way the fieldeval CLI prints it: two-space
// indented with a trailing newline.
func (r Report) JSON() ([]byte, error) {
	b, err := r.Metrics.MarshalPretty()
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(b, '\n'), nil
}

// Evaluate scores predictions against reference without a client.
// Both are JSON arrays of {"document_id", "fields"} records.
func Evaluate(reference, predictions []byte) (Metrics, error) {
	ref, err := document.ParseCorpus(reference)
	if err != nil {
		return Metrics{}, fmt.Errorf("reference: %w", err)
	}
	pred, err := document.ParseCorpus(predictions)
	if err != nil {
		return Metrics{}, fmt.Errorf("predictions: %w", err)
	}
	m, err := evaluation.Evaluate(ref, pred)
	if err != nil {
		return Metrics{}, fmt.Errorf("evaluate: %w", err)
	}
	return m, nil
}

// Evaluate scores predictions against the configured reference corpus.
func (c *Client) Evaluate(ctx context.Context, predictions []byte) (Report, error) {
	return c.evaluate("evaluate", func() (evaluateuc.Result, error) {
		return c.evalSvc.Evaluate(ctx, payload.Bytes(predictions))
	})
}

// EvaluateFile scores a predictions file against the configured reference.
// A missing file is reported as ErrFileNotFound.
func (c *Client) EvaluateFile(ctx context.Context, path string) (Report, error) {
	return c.evaluate("evaluate_file", func() (evaluateuc.Result, error) {
		return c.evalSvc.Evaluate(ctx, payload.NewPredictionFile(path))
	})
}

// EvaluateAgainst scores predictions against an explicit reference, ignoring
// the configured one. Reports are still persisted when enabled.
func (c *Client) EvaluateAgainst(ctx context.Context, reference, predictions []byte) (Report, error) {
	return c.evaluate("evaluate_against", func() (evaluateuc.Result, error) {
		return c.evalSvc.EvaluatePayloads(ctx, payload.Bytes(reference), payload.Bytes(predictions))
	})
}

func (c *Client) evaluate(op string, run func() (evaluateuc.Result, error)) (rep Report, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, err) }()

	res, err := run()
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", op, err)
	}
	c.obs.observeScore(res.Metrics)
	return Report{RunID: res.RunID, Metrics: res.Metrics, Duration: res.Duration}, nil
}

// StoredReport returns a persisted report as written at evaluation time.
func (c *Client) StoredReport(ctx context.Context, runID string) (data []byte, err error) {
	start := time.Now()
	defer func() { c.obs.observe("report.get", start, err) }()

	data, err = c.evalSvc.Report(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("stored report: %w", err)
	}
	return data, nil
}

// StoredReports lists the run ids of persisted reports.
func (c *Client) StoredReports(ctx context.Context) (ids []string, err error) {
	start := time.Now()
	defer func() { c.obs.observe("report.list", start, err) }()

	ids, err = c.evalSvc.Reports(ctx)
	if err != nil {
		return nil, fmt.Errorf("stored reports: %w", err)
	}
	return ids, nil
}

// Template returns the page extraction template JSON.
func Template() []byte {
	return template.Raw()
}

// EmbeddedBuildInfo describes the reference corpus compiled into the library.
func EmbeddedBuildInfo() (BuildInfo, error) {
	info, err := version.ParseBuildInfo(payload.EmbeddedBuildInfo())
	if err != nil {
		return BuildInfo{}, fmt.Errorf("embedded build info: %w", err)
	}
	return info, nil
}
