package evaluation

// PathMatch splits two path sets into shared and one-sided paths.
type PathMatch struct {
	Matched []string // in both reference and prediction
	Missing []string // reference only
	Extra   []string // prediction only
}

// MatchPaths compares reference paths against predicted paths.
// Output slices keep the order of their input.
func MatchPaths(reference, predicted []string) PathMatch {
	inPred := make(map[string]struct{}, len(predicted))
	for _, p := range predicted {
		inPred[p] = struct{}{}
	}
	inRef := make(map[string]struct{}, len(reference))

	var m PathMatch
	for _, p := range reference {
		inRef[p] = struct{}{}
		if _, ok := inPred[p]; ok {
			m.Matched = append(m.Matched, p)
		} else {
			m.Missing = append(m.Missing, p)
		}
	}
	for _, p := range predicted {
		if _, ok := inRef[p]; !ok {
			m.Extra = append(m.Extra, p)
		}
	}
	return m
}
