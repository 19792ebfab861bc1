// Package stats provides summaries of contig sets, contig coverage and read
// sets for assembly reports.
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/quality"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// ContigSetStats represents aggregated length statistics for a set of
// contigs.
type ContigSetStats struct {
	Count         int
	TotalBases    int
	MinLength     int
	MaxLength     int
	MeanLength    float64
	MedianLength  int
	N50           int
	MeanGCContent float64
	// AmbiguousBases counts IUPAC ambiguity codes in the consensus.
	AmbiguousBases int
}

// FromLengths calculates statistics for a collection of sequence lengths.
func FromLengths(lengths []int) (*ContigSetStats, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("length list cannot be empty")
	}

	count := len(lengths)
	totalBases := 0
	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths {
		totalBases += l
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	sorted := make([]int, count)
	copy(sorted, lengths)
	sort.Ints(sorted)

	mid := count / 2
	var medianLen int
	if count%2 == 0 {
		medianLen = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		medianLen = sorted[mid]
	}

	// N50: the length at which half of all bases sit in contigs at least
	// that long
	halfTotal := totalBases / 2
	runningSum := 0
	n50 := sorted[count-1]
	for i := count - 1; i >= 0; i-- {
		runningSum += sorted[i]
		if runningSum >= halfTotal {
			n50 = sorted[i]
			break
		}
	}

	return &ContigSetStats{
		Count:        count,
		TotalBases:   totalBases,
		MinLength:    minLen,
		MaxLength:    maxLen,
		MeanLength:   float64(totalBases) / float64(count),
		MedianLength: medianLen,
		N50:          n50,
	}, nil
}

// FromSequences calculates statistics for ungapped consensus sequences,
// including the mean GC content.
func FromSequences(sequences []*sequence.Sequence) (*ContigSetStats, error) {
	lengths := make([]int, len(sequences))
	for i, seq := range sequences {
		lengths[i] = seq.Len()
	}
	s, err := FromLengths(lengths)
	if err != nil {
		return nil, err
	}

	gcSum := 0.0
	for _, seq := range sequences {
		gcSum += seq.GCContent()
		s.AmbiguousBases += seq.CountAmbiguous()
	}
	s.MeanGCContent = gcSum / float64(len(sequences))
	return s, nil
}

func (s *ContigSetStats) String() string {
	return fmt.Sprintf(`ContigSetStats {
  count: %d
  total_bases: %d
  length range: %d - %d
  mean length: %.1f
  median length: %d
  N50: %d
  mean GC: %.1f%%
  ambiguous bases: %d
}`, s.Count, s.TotalBases, s.MinLength, s.MaxLength,
		s.MeanLength, s.MedianLength, s.N50, s.MeanGCContent*100, s.AmbiguousBases)
}

// Coverage summarises the column aggregates of one contig.
type Coverage struct {
	Columns         int
	MeanCoverage    float64
	MaxCoverage     int
	ZeroCoverage    int
	GapColumns      int
	LockedColumns   int
	BackboneColumns int
	// TypeCoverage is the summed coverage per sequencing type.
	TypeCoverage map[string]int
	// MergedCoverage counts merged short-read bases per sequencing type.
	MergedCoverage map[string]int
}

// CoverageSummary computes coverage figures from a contig's columns.
func CoverageSummary(cols []contig.Column) *Coverage {
	c := &Coverage{
		Columns:        len(cols),
		TypeCoverage:   make(map[string]int),
		MergedCoverage: make(map[string]int),
	}
	if len(cols) == 0 {
		return c
	}

	sum := 0
	for i := range cols {
		col := &cols[i]
		sum += col.Total
		if col.Total > c.MaxCoverage {
			c.MaxCoverage = col.Total
		}
		if col.Total == 0 {
			c.ZeroCoverage++
		} else if col.DominantBase() == sequence.Gap {
			c.GapColumns++
		}
		if col.Locked() {
			c.LockedColumns++
		}
		if col.OriginalBB != 0 {
			c.BackboneColumns++
		}
		for t := readpool.SeqType(0); t < readpool.NumSeqTypes; t++ {
			if n := col.TypeCoverage[t]; n > 0 {
				c.TypeCoverage[t.String()] += n
			}
			if n := col.MergedFwd[t] + col.MergedRev[t]; n > 0 {
				c.MergedCoverage[t.String()] += n
			}
		}
	}
	c.MeanCoverage = float64(sum) / float64(len(cols))
	return c
}

func (c *Coverage) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Coverage { columns: %d, mean: %.2f, max: %d, zero: %d, gap: %d, locked: %d",
		c.Columns, c.MeanCoverage, c.MaxCoverage, c.ZeroCoverage, c.GapColumns, c.LockedColumns)
	if c.BackboneColumns > 0 {
		fmt.Fprintf(&b, ", backbone: %d", c.BackboneColumns)
	}
	b.WriteString(" }")
	return b.String()
}

// ReadSetStats represents statistics for the reads of a pool.
type ReadSetStats struct {
	Count            int
	TotalBases       int
	MeanLength       float64
	MeanQuality      float64
	MaxQuality       int
	HighQualityCount int
	// ExpectedErrors sums the Phred error probabilities of all bases with
	// a quality.
	ExpectedErrors float64
	// ByType counts reads per sequencing type name.
	ByType map[string]int
}

// FromReads calculates statistics over the clipped parts of reads. Reads
// without qualities do not take part in the quality figures.
func FromReads(reads []*readpool.Read) (*ReadSetStats, error) {
	if len(reads) == 0 {
		return nil, fmt.Errorf("read list cannot be empty")
	}

	s := &ReadSetStats{Count: len(reads), ByType: make(map[string]int)}
	qualSum, withQual := 0.0, 0
	for _, r := range reads {
		s.TotalBases += r.UngappedLen()
		s.ByType[r.SeqType.String()]++

		q := r.PlacedQuals(1)
		if len(q) == 0 {
			continue
		}
		scores, err := quality.FromBytes(q)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.Name, err)
		}
		avg := scores.Average()
		qualSum += avg
		if m := scores.Max(); m > s.MaxQuality {
			s.MaxQuality = m
		}
		for _, v := range scores.Values {
			s.ExpectedErrors += quality.ErrorProbability(v)
		}
		withQual++
		if avg >= quality.QHigh {
			s.HighQualityCount++
		}
	}

	s.MeanLength = float64(s.TotalBases) / float64(s.Count)
	if withQual > 0 {
		s.MeanQuality = qualSum / float64(withQual)
	}
	return s, nil
}

// HighQualityRatio returns the share of reads with a mean quality of at
// least quality.QHigh.
func (s *ReadSetStats) HighQualityRatio() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.HighQualityCount) / float64(s.Count)
}

func (s *ReadSetStats) String() string {
	return fmt.Sprintf(`ReadSetStats {
  count: %d
  total_bases: %d
  mean length: %.1f
  mean quality: %.1f
  max quality: %d
  high quality: %d (%.1f%%)
  expected errors: %.2f
}`, s.Count, s.TotalBases, s.MeanLength, s.MeanQuality, s.MaxQuality,
		s.HighQualityCount, s.HighQualityRatio()*100, s.ExpectedErrors)
}

// LengthHistogram represents a length distribution.
type LengthHistogram struct {
	Bins      []int
	NumBins   int
	MinLength int
	MaxLength int
	BinSize   float64
}

// NewLengthHistogram creates a length histogram from lengths.
func NewLengthHistogram(lengths []int, numBins int) (*LengthHistogram, error) {
	if len(lengths) == 0 {
		return nil, fmt.Errorf("length list cannot be empty")
	}
	if numBins <= 0 {
		return nil, fmt.Errorf("number of bins must be positive")
	}

	minLen, maxLen := lengths[0], lengths[0]
	for _, l := range lengths {
		if l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}

	binSize := float64(maxLen-minLen+1) / float64(numBins)
	if binSize < 1 {
		binSize = 1
	}

	bins := make([]int, numBins)
	for _, l := range lengths {
		idx := int(float64(l-minLen) / binSize)
		if idx >= numBins {
			idx = numBins - 1
		}
		bins[idx]++
	}

	return &LengthHistogram{
		Bins:      bins,
		NumBins:   numBins,
		MinLength: minLen,
		MaxLength: maxLen,
		BinSize:   binSize,
	}, nil
}

func (h *LengthHistogram) String() string {
	var b strings.Builder
	b.WriteString("Length Histogram:\n")
	for i, count := range h.Bins {
		start := h.MinLength + int(float64(i)*h.BinSize)
		end := h.MinLength + int(float64(i+1)*h.BinSize)
		fmt.Fprintf(&b, "  %d-%d: %s (%d)\n", start, end, strings.Repeat("#", count), count)
	}
	return b.String()
}
