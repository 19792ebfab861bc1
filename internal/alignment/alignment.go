package alignment

import (
	"fmt"
	"strings"
)

// Alignment represents the result of an alignment between two sequences.
//
// Offsets follow the leading-gap convention: Offset1 is the number of
// alignment columns before sequence 1 starts, Offset2 the same for sequence 2.
// At most one of them is non-zero, and the same holds for the trailing
// EndOffset1 and EndOffset2.
type Alignment struct {
	AlignedSeq1 string
	AlignedSeq2 string
	Score       int
	// ScoreRatio is the score as a percentage of a perfect overlap.
	ScoreRatio int
	// Weight is the number of overlapping positions.
	Weight int

	Offset1    int
	Offset2    int
	EndOffset1 int
	EndOffset2 int

	Mismatches int
	Gaps       int
	// Match5 and Match3 are the exact-match runs at both ends of the overlap.
	Match5 int
	Match3 int

	// BandOverflow reports that the traceback touched the band edge; the
	// optimum may lie outside the band.
	BandOverflow bool
}

// Length returns the length of the alignment.
func (a *Alignment) Length() int {
	return len(a.AlignedSeq1)
}

// OverlapStart returns the first alignment column where both sequences are present.
func (a *Alignment) OverlapStart() int {
	return a.Offset1 + a.Offset2
}

// OverlapEnd returns one past the last alignment column where both sequences are present.
func (a *Alignment) OverlapEnd() int {
	return len(a.AlignedSeq1) - a.EndOffset1 - a.EndOffset2
}

// ToCIGAR generates a CIGAR string for the overlap region. Skipped padding
// columns are reported as P.
func (a *Alignment) ToCIGAR() string {
	var cigar strings.Builder
	currentOp := byte(0)
	count := 0

	for i := a.OverlapStart(); i < a.OverlapEnd(); i++ {
		c1, c2 := a.AlignedSeq1[i], a.AlignedSeq2[i]
		var op byte
		switch {
		case c1 == GapChar:
			op = 'I'
		case c2 == GapChar && c1 == '*':
			op = 'P'
		case c2 == GapChar:
			op = 'D'
		case c1 == c2:
			op = 'M'
		default:
			op = 'X'
		}

		if op == currentOp {
			count++
			continue
		}
		if count > 0 {
			fmt.Fprintf(&cigar, "%d%c", count, currentOp)
		}
		currentOp = op
		count = 1
	}

	if count > 0 {
		fmt.Fprintf(&cigar, "%d%c", count, currentOp)
	}

	return cigar.String()
}

// Format returns a formatted string representation of the alignment.
func (a *Alignment) Format() string {
	var matchLine strings.Builder
	for i := 0; i < len(a.AlignedSeq1); i++ {
		c1, c2 := a.AlignedSeq1[i], a.AlignedSeq2[i]
		switch {
		case c1 == c2 && c1 != GapChar:
			matchLine.WriteByte('|')
		case c1 == GapChar || c2 == GapChar:
			matchLine.WriteByte(' ')
		default:
			matchLine.WriteByte('.')
		}
	}

	return fmt.Sprintf("Seq1: %s\n      %s\nSeq2: %s\nScore: %d\nScore ratio: %d%%\nOffsets: %d/%d end %d/%d\nCIGAR: %s",
		a.AlignedSeq1, matchLine.String(), a.AlignedSeq2,
		a.Score, a.ScoreRatio, a.Offset1, a.Offset2, a.EndOffset1, a.EndOffset2, a.ToCIGAR())
}

func (a *Alignment) String() string {
	return fmt.Sprintf("Alignment { score: %d, ratio: %d%%, weight: %d, offsets: %d/%d }",
		a.Score, a.ScoreRatio, a.Weight, a.Offset1, a.Offset2)
}

// Best picks the alignment with the highest score ratio, tie-broken by the
// highest weight. It returns nil for an empty slice.
func Best(cands []*Alignment) *Alignment {
	var best *Alignment
	for _, c := range cands {
		if c == nil {
			continue
		}
		if best == nil || c.ScoreRatio > best.ScoreRatio ||
			(c.ScoreRatio == best.ScoreRatio && c.Weight > best.Weight) {
			best = c
		}
	}
	return best
}
