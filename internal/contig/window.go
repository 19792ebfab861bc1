package contig

import (
	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
)

// OverlapHint describes a pairwise overlap between a placed reference read
// and a candidate read, in the orientation of the reference read's stored
// sequence. Offsets follow the leading-gap convention of
// alignment.Alignment: RefOffset is the number of candidate bases before
// the reference starts, NewOffset the number of reference bases before the
// candidate starts.
type OverlapHint struct {
	RefID      int
	NewID      int
	RefOffset  int
	NewOffset  int
	RefLen     int
	NewLen     int
	Score      int
	ScoreRatio int
	// Direction is -1 when the candidate is reverse complemented relative
	// to the reference.
	Direction int
}

// HintFromOverlap converts a read-to-read overlap, computed on the ungapped
// clipped sequences of both reads, into an OverlapHint.
func HintFromOverlap(refID, newID, refLen, newLen int, o *alignment.Overlap) OverlapHint {
	return OverlapHint{
		RefID:      refID,
		NewID:      newID,
		RefOffset:  o.Offset1,
		NewOffset:  o.Offset2,
		RefLen:     refLen,
		NewLen:     newLen,
		Score:      o.Score,
		ScoreRatio: o.ScoreRatio,
		Direction:  o.Direction,
	}
}

func (h OverlapHint) direction() int {
	if h.Direction < 0 {
		return -1
	}
	return 1
}

// estimate is the expected position of a candidate read before alignment.
type estimate struct {
	start int
	end   int
	// gapRun is the gap run skipped to reach start on a forward walk.
	gapRun int
}

// estimatePlacement turns an overlap hint into contig coordinates by walking
// outward from the reference read.
func (c *Contig) estimatePlacement(ref *Placed, refRead *readpool.Read, h OverlapHint) estimate {
	newStart := h.NewOffset - h.RefOffset
	if ref.Dir < 0 {
		newStart = h.RefLen - (newStart + h.NewLen)
	}

	var est estimate
	switch {
	case newStart < 0:
		est.start = c.walkLeft(ref.Offset, -newStart)
	case refRead.IsReference():
		est.start, est.gapRun = c.walkRight(ref.Offset, newStart)
	default:
		est.start, est.gapRun = c.walkRead(ref, refRead.Placed(ref.Dir), newStart)
	}
	est.end, _ = c.walkRight(est.start, h.NewLen)
	return est
}

// cutWindow computes the alignment window [xcut, ycut) for an estimate.
func (c *Contig) cutWindow(est estimate) (int, int) {
	xcut := est.start - 2
	if c.backboneMode() {
		xcut -= est.gapRun
	}
	ycut := est.end + 10
	if xcut < 0 {
		xcut = 0
	}
	if ycut > len(c.cols) {
		ycut = len(c.cols)
	}
	return xcut, ycut
}

// trial is an alignment together with the window it was computed on.
type trial struct {
	aln  *alignment.Alignment
	xcut int
	ycut int
}

// alignWindow aligns seq against the temporary consensus, widening the
// window while the alignment runs into its inner edges. Each attempt's
// aligner parameters are derived from the previous attempt. After the last
// attempt the best scoring alignment seen is returned.
func (c *Contig) alignWindow(r *readpool.Read, seq []byte, start, xcut, ycut int) (*trial, error) {
	p := c.params.alignParams(r.SeqType, start-xcut)
	var best *trial

	for attempt := 0; attempt < c.params.attempts(); attempt++ {
		tmp := c.tmpcons(xcut, ycut)
		if len(tmp) == 0 {
			ie := c.invariant("align", r.ID, "empty temporary consensus")
			ie.Xcut, ie.Ycut = xcut, ycut
			return nil, ie
		}
		cands, err := c.aligner.Align(p, tmp, seq)
		if err != nil {
			return nil, &Rejection{Code: Unspecified, Cause: err}
		}
		a := alignment.Best(cands)
		if a == nil {
			break
		}

		cur := &trial{aln: a, xcut: xcut, ycut: ycut}
		if best == nil || a.Score > best.aln.Score {
			best = cur
		}
		if a.BandOverflow && p.BandWidth > 0 {
			p = p.Widen()
			continue
		}

		nx, ny := xcut, ycut
		if a.Offset1 > 0 && xcut > 0 {
			nx = xcut - (a.Offset1 + 7)
			if nx < 0 {
				nx = 0
			}
		}
		if a.EndOffset1 > 0 && ycut < len(c.cols) {
			ny = ycut + a.EndOffset1 + 10
			if ny > len(c.cols) {
				ny = len(c.cols)
			}
		}
		if nx == xcut && ny == ycut {
			return cur, nil
		}
		p.OffsetHint += xcut - nx
		xcut, ycut = nx, ny
	}

	if best == nil {
		return nil, reject(NoAlignment, nil)
	}
	return best, nil
}
