package matching

// Similarity scores how close two strings are, in [0,1]. It is an
// interface so the implementation can be swapped without touching the
// scoring logic.
type Similarity interface {
	Ratio(a, b string) float64
}

// sequenceRatio is a Ratcliff/Obershelp similarity: twice the number of
// matching characters over the total length of both strings, with
// matches found by recursively taking the longest common block.
type sequenceRatio struct{}

func NewSequenceRatio() Similarity {
	return sequenceRatio{}
}

func (sequenceRatio) Ratio(a, b string) float64 {
	ar := []rune(a)
	br := []rune(b)
	total := len(ar) + len(br)
	if total == 0 {
		return 1.0
	}
	return 2 * float64(matchingRunes(ar, br)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingRunes(a[:i], b[:j]) +
		matchingRunes(a[i+size:], b[j+size:])
}

func longestCommonBlock(a, b []rune) (bestI, bestJ, bestSize int) {
	// lengths[j] is the length of the common block ending at a[i-1], b[j]
	// from the previous row.
	lengths := make(map[int]int)
	for i := range a {
		next := make(map[int]int)
		for j := range b {
			if a[i] != b[j] {
				continue
			}
			k := lengths[j-1] + 1
			next[j] = k
			if k > bestSize {
				bestI, bestJ, bestSize = i-k+1, j-k+1, k
			}
		}
		lengths = next
	}
	return bestI, bestJ, bestSize
}
