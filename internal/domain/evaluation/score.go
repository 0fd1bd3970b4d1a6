package evaluation

import (
	"encoding/json"
	"math"
	"strconv"
)

// Branch names the denominator a reference field is counted in.
type Branch uint8

// Scoring branches.
const (
	BranchText Branch = iota
	BranchNumeric
)

func (b Branch) String() string {
	if b == BranchNumeric {
		return "numeric"
	}
	return "text"
}

// FieldScore is the similarity of one reference field.
type FieldScore struct {
	Branch Branch
	Score  float64
}

// NumericSimilarity returns 1 - |e-p| / max(|e|, |p|, 1), clamped to [0, 1].
func NumericSimilarity(expected, predicted float64) float64 {
	scale := math.Max(math.Max(math.Abs(expected), math.Abs(predicted)), 1.0)
	diff := math.Abs(expected-predicted) / scale
	return math.Max(1.0-math.Min(diff, 1.0), 0.0)
}

// ScoreField scores a reference leaf against the predicted leaf at the same
// path. present is false when the prediction has no such path. Numbers are
// compared numerically; everything else is compared as text, and only a
// string prediction earns text credit.
func ScoreField(expected, predicted any, present bool) FieldScore {
	if e, ok := asFloat(expected); ok {
		fs := FieldScore{Branch: BranchNumeric}
		if !present {
			return fs
		}
		if p, ok := asFloat(predicted); ok {
			fs.Score = NumericSimilarity(e, p)
		}
		return fs
	}

	fs := FieldScore{Branch: BranchText}
	if !present {
		return fs
	}
	if p, ok := predicted.(string); ok {
		fs.Score = Similarity(CanonicalText(expected), p)
	}
	return fs
}

// CanonicalText renders a reference leaf as text. Strings are returned
// verbatim; other scalars use their JSON literal.
func CanonicalText(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	}
	if f, ok := asFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}
