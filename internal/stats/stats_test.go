package stats

import (
	"math"
	"testing"

	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLengths(t *testing.T) {
	stats, err := FromLengths([]int{4, 8, 4})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 16, stats.TotalBases)
	assert.Equal(t, 4, stats.MinLength)
	assert.Equal(t, 8, stats.MaxLength)
	assert.InDelta(t, 16.0/3.0, stats.MeanLength, 0.0001)
	assert.Equal(t, 4, stats.MedianLength) // sorted: 4, 4, 8; middle = 4
}

func TestFromLengthsEmpty(t *testing.T) {
	_, err := FromLengths(nil)
	require.Error(t, err)
}

func TestN50Calculation(t *testing.T) {
	tests := []struct {
		name    string
		lengths []int
		want    int
	}{
		// Total = 300, Half = 150, 100 + 80 >= 150
		{"descending", []int{100, 80, 60, 40, 20}, 80},
		{"unordered", []int{20, 60, 100, 40, 80}, 80},
		{"single", []int{42}, 42},
		{"dominant contig", []int{1000, 10, 10}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := FromLengths(tt.lengths)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stats.N50)
		})
	}
}

func TestFromSequences(t *testing.T) {
	s1, _ := sequence.New("ATGC")     // GC=0.5
	s2, _ := sequence.New("ATGCATGC") // GC=0.5
	s3, _ := sequence.New("GGCC")     // GC=1.0

	stats, err := FromSequences([]*sequence.Sequence{s1, s2, s3})
	require.NoError(t, err)

	assert.Equal(t, 16, stats.TotalBases)
	assert.InDelta(t, 2.0/3.0, stats.MeanGCContent, 0.0001)
	assert.Contains(t, stats.String(), "N50: 8")
	assert.Zero(t, stats.AmbiguousBases)
}

func TestFromSequencesAmbiguous(t *testing.T) {
	s1, err := sequence.New("ACGRTYN")
	require.NoError(t, err)
	s2, err := sequence.New("ACGT")
	require.NoError(t, err)

	stats, err := FromSequences([]*sequence.Sequence{s1, s2})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.AmbiguousBases)
	assert.Contains(t, stats.String(), "ambiguous bases: 3")
}

func TestCoverageSummary(t *testing.T) {
	cols := make([]contig.Column, 5)
	cols[0].Add('A', readpool.Sanger, 1)
	cols[0].Add('A', readpool.Solexa, 1)
	cols[1].Add('C', readpool.Sanger, 3)
	cols[2].Add('*', readpool.Sanger, 1)
	cols[2].Add('*', readpool.Sanger, 1)
	cols[2].Add('G', readpool.Sanger, 1)
	cols[3].BaseLock = 1
	cols[3].OriginalBB = 'T'
	cols[4].MergedFwd[readpool.Solexa] = 2
	cols[4].MergedRev[readpool.Solexa] = 1

	cov := CoverageSummary(cols)
	assert.Equal(t, 5, cov.Columns)
	assert.InDelta(t, 8.0/5.0, cov.MeanCoverage, 0.0001)
	assert.Equal(t, 3, cov.MaxCoverage)
	assert.Equal(t, 2, cov.ZeroCoverage)
	assert.Equal(t, 1, cov.GapColumns)
	assert.Equal(t, 1, cov.LockedColumns)
	assert.Equal(t, 1, cov.BackboneColumns)
	assert.Equal(t, map[string]int{"sanger": 7, "solexa": 1}, cov.TypeCoverage)
	assert.Equal(t, map[string]int{"solexa": 3}, cov.MergedCoverage)
	assert.Contains(t, cov.String(), "backbone: 1")
}

func TestCoverageSummaryEmpty(t *testing.T) {
	cov := CoverageSummary(nil)
	assert.Equal(t, 0, cov.Columns)
	assert.Zero(t, cov.MeanCoverage)
}

func TestFromReads(t *testing.T) {
	pool := readpool.New()
	_, err := pool.Add(&readpool.Read{Name: "r1", Bases: []byte("ATGC"), Quals: []byte{30, 30, 30, 30}})
	require.NoError(t, err)
	_, err = pool.Add(&readpool.Read{Name: "r2", Bases: []byte("ATGCATGC"), Quals: []byte{35, 35, 35, 35, 35, 35, 35, 35}})
	require.NoError(t, err)
	_, err = pool.Add(&readpool.Read{Name: "r3", Bases: []byte("ATG*CA"), SeqType: readpool.Solexa})
	require.NoError(t, err)

	stats, err := FromReads(pool.Reads())
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 17, stats.TotalBases)
	assert.InDelta(t, 32.5, stats.MeanQuality, 0.1)
	assert.Equal(t, 2, stats.HighQualityCount)
	assert.InDelta(t, 2.0/3.0, stats.HighQualityRatio(), 0.0001)
	assert.Equal(t, map[string]int{"sanger": 2, "solexa": 1}, stats.ByType)
	assert.Equal(t, 35, stats.MaxQuality)
	assert.InDelta(t, 4*0.001+8*math.Pow(10, -3.5), stats.ExpectedErrors, 1e-9)
	assert.Contains(t, stats.String(), "max quality: 35")

	_, err = FromReads(nil)
	require.Error(t, err)
}

func TestLengthHistogram(t *testing.T) {
	hist, err := NewLengthHistogram([]int{4, 8, 16}, 5)
	require.NoError(t, err)

	assert.Equal(t, 5, hist.NumBins)
	assert.Equal(t, 4, hist.MinLength)
	assert.Equal(t, 16, hist.MaxLength)
	assert.Equal(t, 3, hist.Bins[0]+hist.Bins[1]+hist.Bins[2]+hist.Bins[3]+hist.Bins[4])
	assert.Equal(t, 1, hist.Bins[4])

	_, err = NewLengthHistogram(nil, 10)
	require.Error(t, err)
	_, err = NewLengthHistogram([]int{1}, 0)
	require.Error(t, err)
}

func BenchmarkFromLengths(b *testing.B) {
	lengths := make([]int, 1000)
	for i := range lengths {
		lengths[i] = 100 + i*7%500
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = FromLengths(lengths)
	}
}
