// Package kmer provides canonical k-mer counting and a shared-k-mer index
// used to pick promising read pairs before overlap alignment.
//
// K-mers are counted in canonical form, the lexicographically smaller of a
// k-mer and its reverse complement, so a read and its reverse complement
// share all their k-mers.
package kmer

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/aria-lang/contigflow/internal/sequence"
)

// Canonical returns the canonical form of kmer.
func Canonical(kmer []byte) string {
	rc := sequence.ReverseComplement(kmer)
	if string(kmer) < string(rc) {
		return string(kmer)
	}
	return string(rc)
}

// KMerCount represents a k-mer and its count.
type KMerCount struct {
	KMer  string
	Count int
}

// Counter counts canonical k-mers.
type Counter struct {
	K      int
	Counts map[string]int
	Total  int
}

// NewCounter creates a new k-mer counter with the specified k value.
func NewCounter(k int) (*Counter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	return &Counter{
		K:      k,
		Counts: make(map[string]int),
	}, nil
}

// CountKMers counts all k-mers of seq. Gaps are skipped, and k-mers with
// anything but A, C, G or T are not counted.
func (c *Counter) CountKMers(seq []byte) {
	bases := bytes.ToUpper(sequence.Ungap(seq))
	run := 0
	for i := range bases {
		if !sequence.IsUnambiguous(bases[i]) {
			run = 0
			continue
		}
		run++
		if run < c.K {
			continue
		}
		c.Counts[Canonical(bases[i+1-c.K:i+1])]++
		c.Total++
	}
}

// GetCount returns the count for a specific k-mer.
func (c *Counter) GetCount(kmer string) (int, error) {
	if len(kmer) != c.K {
		return 0, fmt.Errorf("k-mer length %d doesn't match k=%d", len(kmer), c.K)
	}
	return c.Counts[Canonical([]byte(kmer))], nil
}

// UniqueCount returns the number of unique k-mers.
func (c *Counter) UniqueCount() int {
	return len(c.Counts)
}

// MostFrequent returns the n most frequent k-mers. Ties are ordered by
// k-mer.
func (c *Counter) MostFrequent(n int) ([]KMerCount, error) {
	if n <= 0 {
		return nil, fmt.Errorf("n must be positive")
	}

	counts := make([]KMerCount, 0, len(c.Counts))
	for kmer, count := range c.Counts {
		counts = append(counts, KMerCount{KMer: kmer, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].KMer < counts[j].KMer
	})

	if n > len(counts) {
		n = len(counts)
	}
	return counts[:n], nil
}

// Merge merges another Counter into this one.
func (c *Counter) Merge(other *Counter) error {
	if c.K != other.K {
		return fmt.Errorf("k values must match")
	}

	for kmer, count := range other.Counts {
		c.Counts[kmer] += count
		c.Total += count
	}
	return nil
}

func (c *Counter) String() string {
	return fmt.Sprintf("KMerCounter { k: %d, unique: %d, total: %d }", c.K, c.UniqueCount(), c.Total)
}

// CountKMers counts all k-mers in a sequence.
func CountKMers(seq []byte, k int) (*Counter, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	counter, err := NewCounter(k)
	if err != nil {
		return nil, err
	}
	counter.CountKMers(seq)
	return counter, nil
}
