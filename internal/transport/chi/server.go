package chi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fieldeval/internal/metrics"
	"github.com/kailas-cloud/fieldeval/internal/repository/payload"
	"github.com/kailas-cloud/fieldeval/internal/version"
	evaluateuc "github.com/kailas-cloud/fieldeval/internal/usecase/evaluate"
	healthuc "github.com/kailas-cloud/fieldeval/internal/usecase/health"
)

const (
	evaluationIDHeader = "X-Evaluation-ID"

	// DefaultMaxBodyBytes caps POST /v1/evaluations bodies.
	DefaultMaxBodyBytes int64 = 32 << 20
)

// Server serves the evaluation HTTP API.
type Server struct {
	evaluations   *evaluateuc.Service
	health        *healthuc.Service
	info          InfoResponse
	template      []byte
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	evaluations *evaluateuc.Service,
	health *healthuc.Service,
	info InfoResponse,
	template []byte,
	logger *zap.Logger,
) *Server {
	return &Server{
		evaluations:   evaluations,
		health:        health,
		info:          info,
		template:      template,
		logger:        logger,
		maxBodyBytes:  DefaultMaxBodyBytes,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithMaxBodyBytes overrides the request body limit.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Routes builds the chi router with the full middleware chain.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/evaluations", s.CreateEvaluation)
		r.Get("/evaluations", s.ListEvaluations)
		r.Get("/evaluations/{id}", s.GetEvaluation)
		r.Get("/info", s.GetInfo)
		r.Get("/template", s.GetTemplate)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})
	return r
}

// CreateEvaluation handles POST /v1/evaluations.
func (s *Server) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		s.handleDomainError(w, fmt.Errorf("read body: %w", err))
		return
	}

	var req EvaluationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if isAbsent(req.Predictions) {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "predictions is required")
		return
	}

	predictions := payload.Bytes(req.Predictions)
	var res evaluateuc.Result
	if isAbsent(req.GroundTruth) {
		res, err = s.evaluations.Evaluate(r.Context(), predictions)
	} else {
		res, err = s.evaluations.EvaluatePayloads(r.Context(), payload.Bytes(req.GroundTruth), predictions)
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	report, err := res.Metrics.MarshalPretty()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set(evaluationIDHeader, res.RunID)
	w.Header().Set("Location", "/v1/evaluations/"+res.RunID)
	writeRawJSON(w, http.StatusOK, append(report, '\n'))
}

// ListEvaluations handles GET /v1/evaluations.
func (s *Server) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	ids, err := s.evaluations.Reports(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, EvaluationListResponse{Items: ids, Total: len(ids)})
}

// GetEvaluation handles GET /v1/evaluations/{id}.
func (s *Server) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.evaluations.Report(r.Context(), id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.Header().Set(evaluationIDHeader, id)
	if !bytes.HasSuffix(report, []byte("\n")) {
		report = append(report, '\n')
	}
	writeRawJSON(w, http.StatusOK, report)
}

// GetInfo handles GET /v1/info.
func (s *Server) GetInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

// GetTemplate handles GET /v1/template.
func (s *Server) GetTemplate(w http.ResponseWriter, _ *http.Request) {
	writeRawJSON(w, http.StatusOK, s.template)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// NewInfoResponse combines binary version metadata with the reference build record.
func NewInfoResponse(reference *version.BuildInfo) InfoResponse {
	return InfoResponse{
		Version:   version.Version,
		Commit:    version.Commit,
		Date:      version.Date,
		Reference: reference,
	}
}

// isAbsent reports whether an optional raw JSON member was omitted or null.
func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
