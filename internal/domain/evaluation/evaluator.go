package evaluation

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/fieldeval/internal/domain"
	"github.com/kailas-cloud/fieldeval/internal/domain/document"
)

// DefaultWorkers is the per-document parallelism of a zero-config Evaluator.
const DefaultWorkers = 1

// Evaluator scores a predicted corpus against a reference corpus.
// Documents are flattened and scored independently, optionally in parallel;
// the reduction always runs in sorted id and path order, so the report does
// not depend on the worker count.
type Evaluator struct {
	workers int
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkers sets how many documents are scored concurrently.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEvaluator creates an Evaluator.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{workers: DefaultWorkers}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the configured parallelism.
func (e *Evaluator) Workers() int { return e.workers }

// Evaluate scores predictions against reference with a sequential Evaluator.
func Evaluate(reference, predictions document.Corpus) (Metrics, error) {
	return NewEvaluator().Evaluate(context.Background(), reference, predictions)
}

// documentResult is the outcome of one reference document.
type documentResult struct {
	fields    int
	predicted bool
	matched   int
	missing   []string
	extra     []string
	scores    []FieldScore
}

// Evaluate scores predictions against reference.
func (e *Evaluator) Evaluate(ctx context.Context, reference, predictions document.Corpus) (Metrics, error) {
	if reference.Len() == 0 {
		return Metrics{}, domain.ErrEmptyInput
	}

	refIDs := reference.IDs()
	var extraIDs []string
	for _, id := range predictions.IDs() {
		if !reference.Contains(id) {
			extraIDs = append(extraIDs, id)
		}
	}

	refResults := make([]documentResult, len(refIDs))
	extraPaths := make([][]string, len(extraIDs))
	errs := make([]error, len(refIDs)+len(extraIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, id := range refIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			ref, _ := reference.Get(id)
			pred, ok := predictions.Get(id)
			res, err := scoreDocument(ref, pred, ok)
			if err != nil {
				errs[i] = err
				return err
			}
			refResults[i] = res
			return nil
		})
	}
	for i, id := range extraIDs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pred, _ := predictions.Get(id)
			flat, err := Flatten(pred.Fields())
			if err != nil {
				errs[len(refIDs)+i] = err
				return err
			}
			extraPaths[i] = flat.Paths()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Report the failure of the first document in id order, not the
		// first one a worker happened to hit.
		for _, docErr := range errs {
			if docErr != nil {
				return Metrics{}, docErr
			}
		}
		return Metrics{}, err
	}

	return reduce(refIDs, refResults, extraIDs, extraPaths), nil
}

// scoreDocument flattens and scores one reference document against its
// prediction, if there is one.
func scoreDocument(ref, pred document.Document, hasPrediction bool) (documentResult, error) {
	refFlat, err := Flatten(ref.Fields())
	if err != nil {
		return documentResult{}, err
	}
	paths := refFlat.Paths()
	res := documentResult{
		fields: len(paths),
		scores: make([]FieldScore, 0, len(paths)),
	}

	if !hasPrediction {
		res.missing = paths
		for _, p := range paths {
			expected, _ := refFlat.Value(p)
			res.scores = append(res.scores, ScoreField(expected, nil, false))
		}
		return res, nil
	}

	predFlat, err := Flatten(pred.Fields())
	if err != nil {
		return documentResult{}, err
	}
	m := MatchPaths(paths, predFlat.Paths())
	res.predicted = true
	res.matched = len(m.Matched)
	res.missing = m.Missing
	res.extra = m.Extra

	for _, p := range paths {
		expected, _ := refFlat.Value(p)
		predicted, present := predFlat.Value(p)
		res.scores = append(res.scores, ScoreField(expected, predicted, present))
	}
	return res, nil
}

// reduce folds per-document results into the report. Scores are summed one
// field at a time in document then path order.
func reduce(refIDs []string, refResults []documentResult, extraIDs []string, extraPaths [][]string) Metrics {
	var (
		totalFields, withPrediction, matched int
		numericTotal, textTotal              int
		numericSum, textSum                  float64
		missingCount, extraCount             int
	)
	missingDocs := []string{}
	extraDocs := []string{}
	missingFields := map[string][]string{}
	extraFields := map[string][]string{}

	for i, id := range refIDs {
		r := refResults[i]
		totalFields += r.fields
		if r.predicted {
			withPrediction++
		} else {
			missingDocs = append(missingDocs, id)
		}
		matched += r.matched
		if len(r.missing) > 0 {
			missingCount += len(r.missing)
			missingFields[id] = r.missing
		}
		if len(r.extra) > 0 {
			extraCount += len(r.extra)
			extraFields[id] = r.extra
		}
		for _, s := range r.scores {
			if s.Branch == BranchNumeric {
				numericTotal++
				numericSum += s.Score
			} else {
				textTotal++
				textSum += s.Score
			}
		}
	}

	for i, id := range extraIDs {
		extraDocs = append(extraDocs, id)
		if len(extraPaths[i]) > 0 {
			extraCount += len(extraPaths[i])
			extraFields[id] = extraPaths[i]
		}
	}

	raw := rawScores{
		coverage:     ratio(float64(withPrediction), len(refIDs), 0.0),
		numeric:      ratio(numericSum, numericTotal, 1.0),
		text:         ratio(textSum, textTotal, 1.0),
		completeness: ratio(float64(matched), totalFields, 1.0),
	}

	return Metrics{
		NumDocuments:           len(refIDs),
		NumFields:              totalFields,
		DocumentCoverage:       Score(Round4(raw.coverage)),
		NumericFieldSimilarity: Score(Round4(raw.numeric)),
		TextFieldSimilarity:    Score(Round4(raw.text)),
		StructuralCompleteness: Score(Round4(raw.completeness)),
		OverallScore:           Score(Round4(raw.overall())),
		MissingDocuments:       missingDocs,
		ExtraDocuments:         extraDocs,
		MissingFieldCount:      missingCount,
		ExtraFieldCount:        extraCount,
		MissingFields:          missingFields,
		ExtraFields:            extraFields,
	}
}
