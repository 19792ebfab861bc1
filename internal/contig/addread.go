package contig

import (
	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// ForceGrow constrains whether a placement may extend the contig.
type ForceGrow int

const (
	DontCare ForceGrow = iota
	GrowOnly
	NoGrow
)

// Request asks a contig to place the candidate read of Hint against its
// reference read.
type Request struct {
	Hint OverlapHint
	Grow ForceGrow
}

// Result describes a committed placement.
type Result struct {
	// Placement is zero when the read was merged.
	Placement  Placed
	Merged     bool
	GrowLeft   int
	GrowRight  int
	GapColumns int
	// Template is set when a mate of the read is placed in the contig.
	Template  *TemplateGuess
	Alignment *alignment.Alignment
}

// AddRead places a candidate read. The first read of an empty contig is
// placed at offset 0 without alignment. A refused placement returns a
// *Rejection and leaves the contig unchanged; an *InvariantError means the
// contig is corrupt and must be abandoned.
func (c *Contig) AddRead(req Request) (*Result, error) {
	h := req.Hint
	r, ok := c.read(h.NewID)
	if !ok || r.IsReference() {
		return nil, reject(NotAttempted, nil)
	}
	if _, placed := c.Placement(h.NewID); placed {
		return nil, reject(NotAttempted, nil)
	}
	if r.UngappedLen() == 0 {
		return nil, reject(ZeroLength, nil)
	}
	if c.reads.Len() == 0 && c.rails.Len() == 0 {
		return c.seed(r)
	}

	ref, ok := c.reads.LookupByID(h.RefID)
	if !ok {
		ref, ok = c.rails.LookupByID(h.RefID)
	}
	if !ok {
		return nil, reject(NotAttempted, nil)
	}
	refRead, ok := c.read(h.RefID)
	if !ok {
		return nil, c.invariant("add", h.NewID, "reference read %d missing from pool", h.RefID)
	}
	dir := ref.Dir * h.direction()
	tp := c.params.Types[r.SeqType]

	est := c.estimatePlacement(ref, refRead, h)
	first := c.checkTemplate(r, dir, est.start, est.end, c.params.TemplateSlack)
	if first.code != NoError {
		return nil, reject(first.code, first.affected)
	}
	goodMate := first.mate != nil

	xcut, ycut := c.cutWindow(est)
	if xcut >= ycut {
		return nil, reject(NoAlignment, c.affected(refRead, est.start, est.end))
	}
	seq := sequence.Ungap(r.Placed(dir))
	tr, err := c.alignWindow(r, seq, est.start, xcut, ycut)
	if err != nil {
		if rej, ok := err.(*Rejection); ok && rej.Affected == nil {
			rej.Affected = c.affected(refRead, xcut, ycut)
		}
		return nil, err
	}
	pl := makePlan(tr, len(c.cols))
	from, to := pl.span(len(c.cols))
	affected := c.affected(refRead, from, to)

	if code := relativeScore(tp, h.ScoreRatio, pl.aln, goodMate); code != NoError {
		return nil, reject(code, affected)
	}

	var guess *TemplateGuess
	if first.mate != nil {
		second := c.checkTemplate(r, dir, pl.start, pl.end, 0)
		if second.code != NoError {
			// the mate no longer vouches for the read
			if code := relativeScore(tp, h.ScoreRatio, pl.aln, false); code != NoError {
				return nil, reject(code, affected)
			}
			return nil, reject(second.code, second.affected)
		}
		guess = second.guess
	}

	if !shortReadRules(tp, pl.aln) {
		return nil, reject(SpecialShortReadRuleFailed, affected)
	}
	if !c.referenceAllowed(r, refRead, pl) {
		return nil, reject(ReferenceIdNotAllowed, []int{h.RefID})
	}
	if pos, ok := c.repeatMismatch(pl); ok {
		return nil, reject(RepeatMaskMismatch, c.affected(refRead, pos, pos+1))
	}
	if pos, ok := c.coverageExceeded(tp, r, pl); ok {
		return nil, reject(MaxCoverageReached, c.affected(nil, pos, pos+1))
	}

	grows := pl.growLeft > 0 || pl.growRight > 0
	switch {
	case req.Grow == GrowOnly && !grows:
		return nil, reject(ForcedGrowthNotReached, affected)
	case req.Grow == NoGrow && grows:
		return nil, reject(GrowthNotAllowed, affected)
	}

	if c.canMerge(r, refRead, pl) {
		return c.merge(r, pl, dir)
	}

	res, err := c.commit(r, pl, dir)
	if err != nil {
		return nil, err
	}
	res.Template = guess
	return res, nil
}
