package chi

import (
	"encoding/json"

	"github.com/kailas-cloud/fieldeval/internal/version"
)

// EvaluationRequest is the body of POST /v1/evaluations. Both members hold a
// document array in the same shape as the CLI input files.
type EvaluationRequest struct {
	Predictions json.RawMessage `json:"predictions"`
	GroundTruth json.RawMessage `json:"ground_truth,omitempty"`
}

// EvaluationListResponse lists stored report ids.
type EvaluationListResponse struct {
	Items []string `json:"items"`
	Total int      `json:"total"`
}

// InfoResponse describes the running binary.
type InfoResponse struct {
	Version   string             `json:"version"`
	Commit    string             `json:"commit"`
	Date      string             `json:"date"`
	Reference *version.BuildInfo `json:"reference"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
