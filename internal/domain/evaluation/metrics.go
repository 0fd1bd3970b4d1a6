package evaluation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Score is a similarity in [0, 1]. It always serializes with a fractional
// part, so 1 is written as 1.0.
type Score float64

// MarshalJSON implements json.Marshaler.
func (s Score) MarshalJSON() ([]byte, error) {
	f := float64(s)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("unsupported score value %v", f)
	}
	if f == math.Trunc(f) {
		return []byte(strconv.FormatFloat(f, 'f', 1, 64)), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// Metrics is the evaluation report. Field order is the wire order.
type Metrics struct {
	NumDocuments           int                 `json:"num_documents"`
	NumFields              int                 `json:"num_fields"`
	DocumentCoverage       Score               `json:"document_coverage"`
	NumericFieldSimilarity Score               `json:"numeric_field_similarity"`
	TextFieldSimilarity    Score               `json:"text_field_similarity"`
	StructuralCompleteness Score               `json:"structural_completeness"`
	OverallScore           Score               `json:"overall_score"`
	MissingDocuments       []string            `json:"missing_documents"`
	ExtraDocuments         []string            `json:"extra_documents"`
	MissingFieldCount      int                 `json:"missing_field_count"`
	ExtraFieldCount        int                 `json:"extra_field_count"`
	MissingFields          map[string][]string `json:"missing_fields"`
	ExtraFields            map[string][]string `json:"extra_fields"`
}

// rawScores are the unrounded component scores.
type rawScores struct {
	coverage     float64
	numeric      float64
	text         float64
	completeness float64
}

// overall is the unweighted mean of the unrounded components.
func (r rawScores) overall() float64 {
	return (r.coverage + r.completeness + r.numeric + r.text) / 4.0
}

// MarshalPretty renders the report as two-space indented JSON without a
// trailing newline.
func (m Metrics) MarshalPretty() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode metrics: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Scores returns the five headline scores keyed by their report name.
func (m Metrics) Scores() map[string]float64 {
	return map[string]float64{
		"document_coverage":        float64(m.DocumentCoverage),
		"numeric_field_similarity": float64(m.NumericFieldSimilarity),
		"text_field_similarity":    float64(m.TextFieldSimilarity),
		"structural_completeness":  float64(m.StructuralCompleteness),
		"overall_score":            float64(m.OverallScore),
	}
}

// Round4 rounds half away from zero to four decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10_000.0) / 10_000.0
}

// ratio returns num/den, or whenEmpty if den is zero.
func ratio(num float64, den int, whenEmpty float64) float64 {
	if den == 0 {
		return whenEmpty
	}
	return num / float64(den)
}
