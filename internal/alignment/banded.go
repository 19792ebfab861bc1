package alignment

import (
	"fmt"
	"math"

	"github.com/aria-lang/contigflow/internal/sequence"
)

const negInf = math.MinInt32 / 4

// matrix states
const (
	stM byte = iota
	stX      // gap in sequence 2 (sequence 1 consumed)
	stY      // gap in sequence 1 (sequence 2 consumed)
	stStop
)

// Banded is a reusable ends-free affine-gap aligner. It keeps its DP buffers
// between calls and therefore must not be shared between goroutines.
type Banded struct {
	m, x, y    []int32
	tm, tx, ty []byte
}

// NewBanded returns an aligner with empty buffers.
func NewBanded() *Banded {
	return &Banded{}
}

func (b *Banded) grow(cells int) {
	if cap(b.m) < cells {
		b.m = make([]int32, cells)
		b.x = make([]int32, cells)
		b.y = make([]int32, cells)
		b.tm = make([]byte, cells)
		b.tx = make([]byte, cells)
		b.ty = make([]byte, cells)
	}
	b.m, b.x, b.y = b.m[:cells], b.x[:cells], b.y[:cells]
	b.tm, b.tx, b.ty = b.tm[:cells], b.tx[:cells], b.ty[:cells]
}

// Align aligns seq2 (a read, no padding) against seq1 (a consensus window
// that may contain padding). It returns zero alignments when the overlap is
// shorter than p.MinOverlap, when its score ratio is below p.MinScoreRatio,
// when clean ends are enforced and not met, or when the band leaves no path.
func (b *Banded) Align(p Params, seq1, seq2 []byte) ([]*Alignment, error) {
	if len(seq1) == 0 || len(seq2) == 0 {
		return nil, fmt.Errorf("sequences must be non-empty")
	}
	scoring := p.Scoring
	if scoring == nil {
		scoring = DefaultDNA()
	}

	rows, cols := len(seq1), len(seq2)
	w := cols + 1
	b.grow((rows + 1) * w)

	inBand := func(i, j int) bool {
		if p.BandWidth <= 0 {
			return true
		}
		d := i - j - p.OffsetHint
		return d >= -p.BandWidth && d <= p.BandWidth
	}

	open := int32(scoring.GapPenalty(true, p.AffineGaps))
	ext := int32(scoring.GapPenalty(false, p.AffineGaps))

	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			k := i*w + j
			b.x[k], b.y[k] = negInf, negInf
			b.tx[k], b.ty[k] = stStop, stStop
			if !inBand(i, j) {
				b.m[k] = negInf
				b.tm[k] = stStop
				continue
			}
			if i == 0 || j == 0 {
				b.m[k] = 0
				b.tm[k] = stStop
				continue
			}

			// M: diagonal step, or free skip over a padding column
			diagSrc, diag := best3(b, (i-1)*w+j-1)
			mv := diag + int32(scoring.Score(seq1[i-1], seq2[j-1]))
			tm := diagSrc
			if seq1[i-1] == sequence.Gap {
				padSrc, pad := best3(b, (i-1)*w+j)
				if pad > mv {
					mv = pad
					tm = padSrc | padFlag
				}
			}
			b.m[k], b.tm[k] = mv, tm

			// X: consume seq1 against a gap
			up := (i-1)*w + j
			xv, tx := b.m[up]+open, stM
			if v := b.x[up] + ext; v > xv {
				xv, tx = v, stX
			}
			if v := b.y[up] + open; v > xv {
				xv, tx = v, stY
			}
			b.x[k], b.tx[k] = clampNeg(xv), tx

			// Y: consume seq2 against a gap
			left := i*w + j - 1
			yv, ty := b.m[left]+open, stM
			if v := b.y[left] + ext; v > yv {
				yv, ty = v, stY
			}
			if v := b.x[left] + open; v > yv {
				yv, ty = v, stX
			}
			b.y[k], b.ty[k] = clampNeg(yv), ty
		}
	}

	// ends-free: best cell on the last row or last column
	bestScore := int32(negInf)
	bi, bj := -1, -1
	for j := cols; j >= 0; j-- {
		if v := b.m[rows*w+j]; v > bestScore {
			bestScore, bi, bj = v, rows, j
		}
	}
	for i := rows - 1; i >= 0; i-- {
		if v := b.m[i*w+cols]; v > bestScore {
			bestScore, bi, bj = v, i, cols
		}
	}
	if bi < 0 || bestScore <= negInf/2 {
		return nil, nil
	}

	aln := b.traceback(p, seq1, seq2, bi, bj, int(bestScore), scoring)
	if aln == nil {
		return nil, nil
	}
	if aln.Weight < p.MinOverlap {
		return nil, nil
	}
	if aln.ScoreRatio < p.MinScoreRatio {
		return nil, nil
	}
	if p.EnforceCleanEnds && (aln.Match5 == 0 || aln.Match3 == 0) {
		return nil, nil
	}
	return []*Alignment{aln}, nil
}

const padFlag = 0x80

func best3(b *Banded, k int) (byte, int32) {
	src, v := stM, b.m[k]
	if b.x[k] > v {
		src, v = stX, b.x[k]
	}
	if b.y[k] > v {
		src, v = stY, b.y[k]
	}
	return src, v
}

func clampNeg(v int32) int32 {
	if v < negInf {
		return negInf
	}
	return v
}

func (b *Banded) traceback(p Params, seq1, seq2 []byte, endI, endJ, score int, scoring *ScoringMatrix) *Alignment {
	w := len(seq2) + 1
	var rev1, rev2 []byte
	overflow := false

	i, j, state := endI, endJ, stM
	for {
		if i > 0 && j > 0 && p.BandWidth > 0 {
			d := i - j - p.OffsetHint
			if d == p.BandWidth || d == -p.BandWidth {
				overflow = true
			}
		}
		k := i*w + j
		switch state {
		case stM:
			tb := b.tm[k]
			if tb == stStop {
				goto done
			}
			if tb&padFlag != 0 {
				rev1 = append(rev1, seq1[i-1])
				rev2 = append(rev2, GapChar)
				i--
			} else {
				rev1 = append(rev1, seq1[i-1])
				rev2 = append(rev2, seq2[j-1])
				i--
				j--
			}
			state = tb &^ padFlag
		case stX:
			rev1 = append(rev1, seq1[i-1])
			rev2 = append(rev2, GapChar)
			state = b.tx[k]
			i--
		case stY:
			rev1 = append(rev1, GapChar)
			rev2 = append(rev2, seq2[j-1])
			state = b.ty[k]
			j--
		default:
			goto done
		}
		if i < 0 || j < 0 {
			return nil
		}
	}
done:
	startI, startJ := i, j

	total := startI + startJ + len(rev1) + (len(seq1) - endI) + (len(seq2) - endJ)
	a1 := make([]byte, 0, total)
	a2 := make([]byte, 0, total)

	aln := &Alignment{Score: score, BandOverflow: overflow}

	// leading overhang
	if startI > 0 {
		a1 = append(a1, seq1[:startI]...)
		a2 = appendGaps(a2, startI)
		aln.Offset2 = startI
	} else if startJ > 0 {
		a1 = appendGaps(a1, startJ)
		a2 = append(a2, seq2[:startJ]...)
		aln.Offset1 = startJ
	}

	for k := len(rev1) - 1; k >= 0; k-- {
		a1 = append(a1, rev1[k])
		a2 = append(a2, rev2[k])
	}

	// trailing overhang
	if endI == len(seq1) && endJ < len(seq2) {
		a1 = appendGaps(a1, len(seq2)-endJ)
		a2 = append(a2, seq2[endJ:]...)
		aln.EndOffset1 = len(seq2) - endJ
	} else if endJ == len(seq2) && endI < len(seq1) {
		a1 = append(a1, seq1[endI:]...)
		a2 = appendGaps(a2, len(seq1)-endI)
		aln.EndOffset2 = len(seq1) - endI
	}

	aln.AlignedSeq1 = string(a1)
	aln.AlignedSeq2 = string(a2)
	aln.summarize(scoring)
	return aln
}

func appendGaps(s []byte, n int) []byte {
	for k := 0; k < n; k++ {
		s = append(s, GapChar)
	}
	return s
}

// summarize fills the overlap statistics from the aligned strings.
func (a *Alignment) summarize(scoring *ScoringMatrix) {
	start, end := a.OverlapStart(), a.OverlapEnd()
	ov1, ov2 := 0, 0
	a.Mismatches, a.Gaps, a.Weight = 0, 0, 0

	isPad := func(k int) bool {
		return a.AlignedSeq1[k] == sequence.Gap && a.AlignedSeq2[k] == GapChar
	}
	exact := func(k int) bool {
		c1, c2 := a.AlignedSeq1[k], a.AlignedSeq2[k]
		return c1 == c2 && c1 != GapChar
	}

	for k := start; k < end; k++ {
		c1, c2 := a.AlignedSeq1[k], a.AlignedSeq2[k]
		if isPad(k) {
			continue
		}
		a.Weight++
		switch {
		case c1 == GapChar:
			a.Gaps++
			ov2++
		case c2 == GapChar:
			a.Gaps++
			ov1++
		default:
			ov1++
			ov2++
			if scoring.Score(c1, c2) < 0 {
				a.Mismatches++
			}
		}
	}

	a.Match5, a.Match3 = 0, 0
	for k := start; k < end; k++ {
		if isPad(k) {
			continue
		}
		if !exact(k) {
			break
		}
		a.Match5++
	}
	for k := end - 1; k >= start; k-- {
		if isPad(k) {
			continue
		}
		if !exact(k) {
			break
		}
		a.Match3++
	}

	expected := scoring.MatchScore * min(ov1, ov2)
	switch {
	case expected <= 0 || a.Score <= 0:
		a.ScoreRatio = 0
	case a.Score >= expected:
		a.ScoreRatio = 100
	default:
		a.ScoreRatio = 100 * a.Score / expected
	}
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
