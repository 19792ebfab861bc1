package kmer

import "fmt"

// SharedCount returns the number of distinct k-mers present in both
// counters.
func SharedCount(c1, c2 *Counter) int {
	small, large := c1, c2
	if len(small.Counts) > len(large.Counts) {
		small, large = large, small
	}
	n := 0
	for kmer := range small.Counts {
		if _, ok := large.Counts[kmer]; ok {
			n++
		}
	}
	return n
}

// JaccardDistance calculates the Jaccard distance between the k-mer sets of
// two counters.
//
// Jaccard distance = 1 - (intersection / union)
func JaccardDistance(c1, c2 *Counter) (float64, error) {
	if c1.K != c2.K {
		return 0, fmt.Errorf("k values must match")
	}

	intersection := SharedCount(c1, c2)
	union := len(c1.Counts) + len(c2.Counts) - intersection
	if union == 0 {
		return 0.0, nil
	}
	return 1.0 - float64(intersection)/float64(union), nil
}
