package contig

import (
	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// relativeScore checks an alignment against the absolute minimum and
// against the score the pairwise overlap promised.
func relativeScore(tp TypeParams, hintRatio int, a *alignment.Alignment, withMate bool) Code {
	minRel, maxDrop := tp.MinRelScore, tp.MaxRelScoreDrop
	if withMate {
		minRel, maxDrop = tp.MinRelScoreWithMate, tp.MaxRelScoreDropWithMate
	}
	if a.ScoreRatio < minRel {
		return AlignmentRejectedByMinRelScore
	}
	if hintRatio-a.ScoreRatio > maxDrop {
		return RelativeScoreDrop
	}
	return NoError
}

// shortReadRules applies the extra limits for short-read technologies.
func shortReadRules(tp TypeParams, a *alignment.Alignment) bool {
	if !tp.ShortReadRules {
		return true
	}
	return a.Mismatches <= tp.ShortReadMaxMismatches &&
		a.Gaps <= tp.ShortReadMaxGaps &&
		a.Match5 >= tp.ShortReadMinEndMatch &&
		a.Match3 >= tp.ShortReadMinEndMatch
}

// referenceAllowed checks the read's reference restriction against the
// reference read and the rails under the placement.
func (c *Contig) referenceAllowed(r, refRead *readpool.Read, pl *plan) bool {
	if r.AllowedRef == "" || refRead.Name == r.AllowedRef {
		return true
	}
	from, to := pl.span(len(c.cols))
	for _, id := range c.rails.CoveringRange(from, to) {
		if rail, ok := c.read(id); ok && rail.Name == r.AllowedRef {
			return true
		}
	}
	return false
}

// repeatMismatch returns the first column inside a repeat marker tag where
// the read conflicts with the temporary consensus.
func (c *Contig) repeatMismatch(pl *plan) (int, bool) {
	found, at := false, 0
	pl.walk(func(pos int, c1, c2 byte, newCol bool) {
		if found || newCol || c1 == 0 || pos < 0 || pos >= len(c.cols) {
			return
		}
		if c1 == sequence.Gap || c2 == alignment.GapChar || sequence.Compatible(c1, c2) {
			return
		}
		if _, ok := c.tagAt(TagRepeatMarker, pos); ok {
			found, at = true, pos
		}
	})
	return at, found
}

// coverageExceeded returns the first column the read would push past the
// coverage limit.
func (c *Contig) coverageExceeded(tp TypeParams, r *readpool.Read, pl *plan) (int, bool) {
	if tp.MaxCoverage <= 0 {
		return 0, false
	}
	from, to := pl.span(len(c.cols))
	for i := from; i < to; i++ {
		if c.cols[i].Total+r.Multiplier() > tp.MaxCoverage {
			return i, true
		}
	}
	return 0, false
}

// affected lists the placed reads overlapping [from, to). For a rail
// reference the rails in the range are reported as well.
func (c *Contig) affected(ref *readpool.Read, from, to int) []int {
	ids := c.reads.CoveringRange(from, to)
	if ref != nil && ref.IsReference() {
		ids = append(ids, c.rails.CoveringRange(from, to)...)
	}
	return ids
}
