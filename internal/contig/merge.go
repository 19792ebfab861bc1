package contig

import (
	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// canMerge reports whether a short read mapped against a rail may be folded
// into the column counters instead of being placed.
func (c *Contig) canMerge(r *readpool.Read, refRead *readpool.Read, pl *plan) bool {
	tp := c.params.Types[r.SeqType]
	if !tp.MergeShortReads || !refRead.IsReference() {
		return false
	}
	if pl.growLeft != 0 || pl.growRight != 0 || pl.gapCols != 0 {
		return false
	}
	if k := c.params.KeepEndsUnmapped; k > 0 && (pl.start < k || pl.end > len(c.cols)-k) {
		return false
	}
	if c.tagCovers(TagForcedMerge, pl.start, pl.end) {
		return true
	}
	return pl.aln.Mismatches <= tp.MergeMaxMismatches && pl.aln.Gaps <= tp.MergeMaxGaps
}

// merge folds the read into the merge counters of the columns it covers.
// A read the aligner reported as clean must agree with the rail in
// backbone mode.
func (c *Contig) merge(r *readpool.Read, pl *plan, dir int) (*Result, error) {
	quals := ungappedQuals(r, dir)
	mult := r.Multiplier()
	clean := pl.aln.Mismatches == 0

	type hit struct {
		pos  int
		qual byte
	}
	hits := make([]hit, 0, pl.placedLen)
	var bad *InvariantError
	k := 0
	pl.walk(func(pos int, c1, c2 byte, newCol bool) {
		if c2 == alignment.GapChar {
			return
		}
		var q byte
		if k < len(quals) {
			q = quals[k]
		}
		k++
		bb := c.cols[pos].UpdatedBB
		if bad == nil && clean && c.backboneMode() && bb != 0 && bb != sequence.Gap && !sequence.Compatible(bb, c2) {
			bad = c.invariant("merge", r.ID, "clean read has %c over rail %c at column %d", c2, bb, pos)
		}
		hits = append(hits, hit{pos: pos, qual: q})
	})
	if bad != nil {
		return nil, c.withWindow(bad, pl)
	}

	for _, h := range hits {
		col := &c.cols[h.pos]
		if dir > 0 {
			col.MergedFwd[r.SeqType] += mult
		} else {
			col.MergedRev[r.SeqType] += mult
		}
		if h.qual > col.BestQual[r.SeqType] {
			col.BestQual[r.SeqType] = h.qual
		}
		col.StrainMask |= 1 << uint(r.Strain&63)
	}
	c.merged[r.SeqType]++
	c.dirty()
	return &Result{Merged: true, Alignment: pl.aln}, nil
}

// ungappedQuals returns the qualities of the non-gap clipped bases in
// contig orientation.
func ungappedQuals(r *readpool.Read, dir int) []byte {
	quals := r.PlacedQuals(dir)
	if quals == nil {
		return nil
	}
	seq := r.Placed(dir)
	out := make([]byte, 0, len(quals))
	for i, b := range seq {
		if b != sequence.Gap {
			out = append(out, quals[i])
		}
	}
	return out
}
