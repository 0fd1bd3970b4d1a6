package evaluation

// Similarity returns the Ratcliff/Obershelp ("gestalt") similarity of a and
// b, computed over Unicode code points: 2*M / (len(a)+len(b)), where M is the
// number of characters matched by repeatedly taking the longest common run
// and recursing into the unmatched text on either side of it.
// Two empty strings are identical (1.0).
func Similarity(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	if len(ar) == 0 && len(br) == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingRunes(ar, br)) / float64(len(ar)+len(br))
}

// span is a pending [aLo,aHi) x [bLo,bHi) subproblem.
type span struct {
	aLo, aHi int
	bLo, bHi int
}

// matchingRunes counts gestalt matches using an explicit stack instead of
// recursion. The total is independent of the order spans are processed.
func matchingRunes(a, b []rune) int {
	total := 0
	stack := []span{{0, len(a), 0, len(b)}}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if s.aLo >= s.aHi || s.bLo >= s.bHi {
			continue
		}

		i, j, n := longestCommonRun(a[s.aLo:s.aHi], b[s.bLo:s.bHi])
		if n == 0 {
			continue
		}
		total += n
		i += s.aLo
		j += s.bLo
		stack = append(stack,
			span{s.aLo, i, s.bLo, j},
			span{i + n, s.aHi, j + n, s.bHi},
		)
	}
	return total
}

// longestCommonRun finds the longest contiguous run shared by a and b and
// returns its offsets and length. Among equally long runs the one with the
// smallest offset in a wins, then the smallest offset in b; this is the
// first match a left-to-right, top-to-bottom scan would report.
//
// run[j] holds the length of the common run starting at a[i], b[j]; rows are
// filled from the end so each cell reads the row below it. Scanning
// backwards with >= leaves the earliest (i, j) as the winner.
func longestCommonRun(a, b []rune) (int, int, int) {
	below := make([]int, len(b)+1)
	run := make([]int, len(b)+1)
	bestI, bestJ, best := 0, 0, 0

	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				run[j] = below[j+1] + 1
			} else {
				run[j] = 0
			}
			if run[j] > 0 && run[j] >= best {
				bestI, bestJ, best = i, j, run[j]
			}
		}
		run, below = below, run
	}
	return bestI, bestJ, best
}
