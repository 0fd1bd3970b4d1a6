package evaluation

import (
	"math"
	"testing"
)

func TestScore_MarshalJSON(t *testing.T) {
	tests := []struct {
		in   Score
		want string
	}{
		{1, "1.0"},
		{0, "0.0"},
		{0.9068, "0.9068"},
		{0.5, "0.5"},
		{0.0001, "0.0001"},
	}
	for _, tt := range tests {
		got, err := tt.in.MarshalJSON()
		if err != nil {
			t.Fatalf("MarshalJSON(%v): %v", float64(tt.in), err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalJSON(%v) = %s, want %s", float64(tt.in), got, tt.want)
		}
	}
}

func TestScore_MarshalJSON_NaN(t *testing.T) {
	if _, err := Score(math.NaN()).MarshalJSON(); err == nil {
		t.Error("expected error for NaN")
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{8.0 / 11.0, 0.7273},
		{0.90675, 0.9068},
		{0.5, 0.5},
		{1.0 / 3.0, 0.3333},
	}
	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMetrics_MarshalPretty(t *testing.T) {
	m := Metrics{
		NumDocuments:           1,
		NumFields:              2,
		DocumentCoverage:       1,
		NumericFieldSimilarity: 0.9,
		TextFieldSimilarity:    0.7273,
		StructuralCompleteness: 1,
		OverallScore:           0.9068,
		MissingDocuments:       []string{},
		ExtraDocuments:         []string{"x&y"},
		MissingFields:          map[string][]string{},
		ExtraFields:            map[string][]string{"x&y": {"a", "b.0"}},
		ExtraFieldCount:        2,
	}
	got, err := m.MarshalPretty()
	if err != nil {
		t.Fatalf("MarshalPretty: %v", err)
	}
	want := `{
  "num_documents": 1,
  "num_fields": 2,
  "document_coverage": 1.0,
  "numeric_field_similarity": 0.9,
  "text_field_similarity": 0.7273,
  "structural_completeness": 1.0,
  "overall_score": 0.9068,
  "missing_documents": [],
  "extra_documents": [
    "x&y"
  ],
  "missing_field_count": 0,
  "extra_field_count": 2,
  "missing_fields": {},
  "extra_fields": {
    "x&y": [
      "a",
      "b.0"
    ]
  }
}`
	if string(got) != want {
		t.Errorf("MarshalPretty =\n%s\nwant\n%s", got, want)
	}
}
