package fieldeval

import (
	"context"

	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/fieldeval/internal/usecase/health"
)

// --- evaluationUseCase mock ---

type mockEvaluationUC struct {
	evaluateFn func(ctx context.Context, predictions evaluateuc.Source) (evaluateuc.Result, error)
	payloadsFn func(ctx context.Context, reference, predictions evaluateuc.Source) (evaluateuc.Result, error)
	reportFn   func(ctx context.Context, runID string) ([]byte, error)
	reportsFn  func(ctx context.Context) ([]string, error)
}

func (m *mockEvaluationUC) Evaluate(ctx context.Context, predictions evaluateuc.Source) (evaluateuc.Result, error) {
	return m.evaluateFn(ctx, predictions)
}

func (m *mockEvaluationUC) EvaluatePayloads(
	ctx context.Context, reference, predictions evaluateuc.Source,
) (evaluateuc.Result, error) {
	return m.payloadsFn(ctx, reference, predictions)
}

func (m *mockEvaluationUC) Report(ctx context.Context, runID string) ([]byte, error) {
	return m.reportFn(ctx, runID)
}

func (m *mockEvaluationUC) Reports(ctx context.Context) ([]string, error) {
	return m.reportsFn(ctx)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- helpers ---

func testClient(evalSvc evaluationUseCase, healthSvc healthUseCase, obs *observer) *Client {
	return &Client{
		evalSvc:   evalSvc,
		healthSvc: healthSvc,
		obs:       obs,
	}
}
