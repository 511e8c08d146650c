package search

import "math"

// Similarity scores how well term matches text, from 0 to 100.
// It need not be symmetric.
type Similarity interface {
	Score(term, text string) int
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc func(term, text string) int

// Score calls f(term, text).
func (f SimilarityFunc) Score(term, text string) int { return f(term, text) }

// PartialRatio returns the best similarity between the shorter of a and b
// and any alignment of it against the longer one. Every full-length window of
// the longer string is tried, as well as the shorter windows hanging over
// either edge. Each window is scored by normalized Indel similarity,
// 2*LCS / (len(short)+len(window)). An exact substring scores 100 and an empty
// input scores 0.
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	m, n := len(short), len(long)
	if m == 0 {
		return 0
	}

	row := make([]int, m+1)
	best := 0.0
	for start := -(m - 1); start < n; start++ {
		lo, hi := max(0, start), min(n, start+m)
		w := long[lo:hi]
		r := 2 * float64(lcsLen(short, w, row)) / float64(m+len(w))
		if r > best {
			best = r
			if best >= 1 {
				break
			}
		}
	}
	return int(math.Round(best * 100))
}

// lcsLen returns the length of the longest common subsequence of a and b.
// row must hold at least len(b)+1 ints and is overwritten.
func lcsLen(a, b []rune, row []int) int {
	row = row[:len(b)+1]
	for j := range row {
		row[j] = 0
	}
	for i := range a {
		diag := 0
		for j := range b {
			up := row[j+1]
			switch {
			case a[i] == b[j]:
				row[j+1] = diag + 1
			case row[j] > row[j+1]:
				row[j+1] = row[j]
			}
			diag = up
		}
	}
	return row[len(b)]
}
