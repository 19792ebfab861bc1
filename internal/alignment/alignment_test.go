package alignment

import (
	"testing"

	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoringMatrix(t *testing.T) {
	t.Run("DefaultDNA", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, 2, s.MatchScore)
		assert.Equal(t, -3, s.MismatchPenalty)
	})

	t.Run("Score match", func(t *testing.T) {
		assert.Equal(t, 2, DefaultDNA().Score('A', 'A'))
	})

	t.Run("Score mismatch", func(t *testing.T) {
		assert.Equal(t, -3, DefaultDNA().Score('A', 'T'))
	})

	t.Run("Score ambiguity", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, 0, s.Score('N', 'T'))
		assert.Equal(t, 0, s.Score('R', 'A'))
		assert.Equal(t, -3, s.Score('R', 'C'))
	})

	t.Run("Score padding", func(t *testing.T) {
		assert.Equal(t, -3, DefaultDNA().Score('*', 'A'))
	})

	t.Run("Affine gap", func(t *testing.T) {
		s := DefaultDNA()
		assert.Equal(t, -4, s.GapPenalty(true, true))
		assert.Equal(t, -2, s.GapPenalty(false, true))
		assert.Equal(t, -4, s.GapPenalty(false, false))
	})

	t.Run("Invalid scoring matrix", func(t *testing.T) {
		_, err := NewScoringMatrix(0, -1, -2, -1)
		require.Error(t, err)

		_, err = NewScoringMatrix(2, 1, -2, -1)
		require.Error(t, err)
	})
}

func testParams() Params {
	p := DefaultParams()
	p.MinOverlap = 5
	return p
}

func alignOne(t *testing.T, p Params, s1, s2 string) *Alignment {
	t.Helper()
	res, err := NewBanded().Align(p, []byte(s1), []byte(s2))
	require.NoError(t, err)
	require.Len(t, res, 1)
	return res[0]
}

func TestAlignIdentical(t *testing.T) {
	a := alignOne(t, testParams(), "ACGTACGTAC", "ACGTACGTAC")

	assert.Equal(t, 20, a.Score)
	assert.Equal(t, 100, a.ScoreRatio)
	assert.Equal(t, 10, a.Weight)
	assert.Equal(t, 0, a.Offset1+a.Offset2+a.EndOffset1+a.EndOffset2)
	assert.Equal(t, 0, a.Mismatches)
	assert.Equal(t, 10, a.Match5)
	assert.Equal(t, 10, a.Match3)
	assert.Equal(t, "10M", a.ToCIGAR())
}

func TestAlignMismatch(t *testing.T) {
	a := alignOne(t, testParams(), "ACGTACGTAC", "ACGTTCGTAC")

	assert.Equal(t, 15, a.Score)
	assert.Equal(t, 75, a.ScoreRatio)
	assert.Equal(t, 1, a.Mismatches)
	assert.Equal(t, 4, a.Match5)
	assert.Equal(t, 5, a.Match3)
	assert.Equal(t, "4M1X5M", a.ToCIGAR())
}

func TestAlignOverhang(t *testing.T) {
	a := alignOne(t, testParams(), "GATTACAGGCTTACG", "CAGGCTTACGAAT")

	assert.Equal(t, 20, a.Score)
	assert.Equal(t, 0, a.Offset1)
	assert.Equal(t, 5, a.Offset2)
	assert.Equal(t, 3, a.EndOffset1)
	assert.Equal(t, 0, a.EndOffset2)
	assert.Equal(t, 10, a.Weight)
	assert.Equal(t, "GATTACAGGCTTACG---", a.AlignedSeq1)
	assert.Equal(t, "-----CAGGCTTACGAAT", a.AlignedSeq2)
	assert.Equal(t, 5, a.OverlapStart())
	assert.Equal(t, 15, a.OverlapEnd())
}

func TestAlignSkipsPadding(t *testing.T) {
	a := alignOne(t, testParams(), "ACG*TAC", "ACGTAC")

	assert.Equal(t, 12, a.Score)
	assert.Equal(t, "ACG*TAC", a.AlignedSeq1)
	assert.Equal(t, "ACG-TAC", a.AlignedSeq2)
	assert.Equal(t, 0, a.Gaps)
	assert.Equal(t, 6, a.Weight)
	assert.Equal(t, 100, a.ScoreRatio)
	assert.Equal(t, "3M1P3M", a.ToCIGAR())
}

func TestAlignMinOverlap(t *testing.T) {
	p := testParams()
	p.MinOverlap = 11
	res, err := NewBanded().Align(p, []byte("GATTACAGGCTTACG"), []byte("CAGGCTTACGAAT"))
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestAlignMinScoreRatio(t *testing.T) {
	tests := []struct {
		name  string
		ratio int
		found bool
	}{
		{"no gate", 0, true},
		{"at ratio", 75, true},
		{"above ratio", 76, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.MinScoreRatio = tt.ratio
			res, err := NewBanded().Align(p, []byte("ACGTACGTAC"), []byte("ACGTTCGTAC"))
			require.NoError(t, err)
			assert.Equal(t, tt.found, len(res) == 1)
		})
	}
}

func TestAlignEmpty(t *testing.T) {
	_, err := NewBanded().Align(testParams(), nil, []byte("ACGT"))
	require.Error(t, err)
}

func TestAlignBandOverflow(t *testing.T) {
	p := testParams()
	p.BandWidth = 2

	a := alignOne(t, p, "ACGTACGTAC", "ACGTACGTAC")
	assert.False(t, a.BandOverflow)

	p.OffsetHint = 2
	a = alignOne(t, p, "ACGTACGTAC", "ACGTACGTAC")
	assert.True(t, a.BandOverflow)

	wider := p.Widen()
	assert.Equal(t, 4, wider.BandWidth)
	assert.Equal(t, 2, p.BandWidth)
}

func TestOverlapReverse(t *testing.T) {
	read := []byte("CAGGCTTACGAAT")
	o, err := NewBanded().Overlap(testParams(), []byte("GATTACAGGCTTACG"), sequence.ReverseComplement(read))
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, -1, o.Direction)
	assert.Equal(t, 5, o.Offset2)
	assert.Equal(t, 3, o.EndOffset1)
	assert.Equal(t, 100, o.ScoreRatio)
}

func TestOverlapDropsLowScoreRatio(t *testing.T) {
	seq1 := []byte("GATTACAGGCTTACGAATCC")
	seq2 := []byte("TTACGAATCCGTAGCATGCA")
	p := DefaultParams()

	o, err := NewBanded().Overlap(p, seq1, seq2)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Less(t, o.ScoreRatio, 70)

	p.MinScoreRatio = 70
	o, err = NewBanded().Overlap(p, seq1, seq2)
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestAlignmentCIGAR(t *testing.T) {
	tests := []struct {
		name     string
		aligned1 string
		aligned2 string
		want     string
	}{
		{"all match", "ATGC", "ATGC", "4M"},
		{"with mismatch", "ATGC", "ATGA", "3M1X"},
		{"with gap seq1", "AT-GC", "ATGGC", "2M1I2M"},
		{"with gap seq2", "ATGGC", "AT-GC", "2M1D2M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Alignment{AlignedSeq1: tt.aligned1, AlignedSeq2: tt.aligned2}
			assert.Equal(t, tt.want, a.ToCIGAR())
		})
	}
}

func TestBest(t *testing.T) {
	a := &Alignment{ScoreRatio: 90, Weight: 10}
	b := &Alignment{ScoreRatio: 95, Weight: 5}
	c := &Alignment{ScoreRatio: 95, Weight: 8}

	assert.Same(t, c, Best([]*Alignment{a, b, c}))
	assert.Same(t, a, Best([]*Alignment{nil, a}))
	assert.Nil(t, Best(nil))
}
