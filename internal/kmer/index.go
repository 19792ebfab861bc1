package kmer

import (
	"fmt"
	"sort"
)

// Candidate is a read sharing k-mers with a query read.
type Candidate struct {
	ID     int
	Shared int
}

// Index maps canonical k-mers to the reads containing them.
type Index struct {
	k        int
	postings map[string][]int
	counters map[int]*Counter
	// maxPostings drops k-mers seen in more reads than this from candidate
	// search; 0 keeps all.
	maxPostings int
}

// NewIndex creates an empty index for k-mers of length k. K-mers occurring
// in more than maxPostings reads are ignored when searching, which keeps
// repeats from pairing every read with every other; 0 disables the limit.
func NewIndex(k, maxPostings int) (*Index, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	return &Index{
		k:           k,
		postings:    make(map[string][]int),
		counters:    make(map[int]*Counter),
		maxPostings: maxPostings,
	}, nil
}

// K returns the k-mer length.
func (ix *Index) K() int {
	return ix.k
}

// Add indexes the k-mers of read id. Adding an id twice is an error.
func (ix *Index) Add(id int, seq []byte) error {
	if _, dup := ix.counters[id]; dup {
		return fmt.Errorf("read %d already indexed", id)
	}
	c, err := CountKMers(seq, ix.k)
	if err != nil {
		return err
	}
	ix.counters[id] = c
	for kmer := range c.Counts {
		ix.postings[kmer] = append(ix.postings[kmer], id)
	}
	return nil
}

// Counter returns the k-mer counts of an indexed read.
func (ix *Index) Counter(id int) (*Counter, bool) {
	c, ok := ix.counters[id]
	return c, ok
}

// Candidates returns the reads sharing at least minShared distinct k-mers
// with read id, most shared first and by id on ties. The read itself is
// never returned.
func (ix *Index) Candidates(id, minShared int) []Candidate {
	c, ok := ix.counters[id]
	if !ok {
		return nil
	}
	if minShared < 1 {
		minShared = 1
	}

	shared := make(map[int]int)
	for kmer := range c.Counts {
		ids := ix.postings[kmer]
		if ix.maxPostings > 0 && len(ids) > ix.maxPostings {
			continue
		}
		for _, other := range ids {
			if other != id {
				shared[other]++
			}
		}
	}

	out := make([]Candidate, 0, len(shared))
	for other, n := range shared {
		if n >= minShared {
			out = append(out, Candidate{ID: other, Shared: n})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Shared != out[j].Shared {
			return out[i].Shared > out[j].Shared
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of indexed reads.
func (ix *Index) Len() int {
	return len(ix.counters)
}
