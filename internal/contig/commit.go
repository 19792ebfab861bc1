package contig

import (
	"bytes"
	"fmt"

	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// plan is an accepted alignment expressed in contig coordinates, before
// any change to the contig.
type plan struct {
	aln  *alignment.Alignment
	xcut int
	ycut int

	// start and end delimit the read in current coordinates; start may be
	// negative and end may pass the contig end.
	start int
	end   int

	growLeft  int
	growRight int
	// gapCols is the number of gap columns the read forces into the contig.
	gapCols   int
	placedLen int
}

func makePlan(t *trial, contigLen int) *plan {
	a := t.aln
	pl := &plan{aln: a, xcut: t.xcut, ycut: t.ycut}
	pl.placedLen = len(a.AlignedSeq2) - a.Offset2 - a.EndOffset2
	for k := a.OverlapStart(); k < a.OverlapEnd(); k++ {
		if a.AlignedSeq1[k] == alignment.GapChar {
			pl.gapCols++
		}
	}
	pl.start = t.xcut - a.Offset1 + a.Offset2
	pl.end = pl.start + pl.placedLen - pl.gapCols
	if pl.start < 0 {
		pl.growLeft = -pl.start
	}
	if pl.end > contigLen {
		pl.growRight = pl.end - contigLen
	}
	return pl
}

// span returns the part of the read inside the current contig.
func (pl *plan) span(contigLen int) (int, int) {
	from, to := pl.start, pl.end
	if from < 0 {
		from = 0
	}
	if to > contigLen {
		to = contigLen
	}
	return from, to
}

// walk calls fn for every alignment column holding a read character, in
// order, with the contig column it lands on in current coordinates. For a
// consensus-side gap newCol is set and pos is the column the new one goes
// in front of. c1 is 0 where the read hangs past the window.
func (pl *plan) walk(fn func(pos int, c1, c2 byte, newCol bool)) {
	a := pl.aln
	n := len(a.AlignedSeq1)
	pos := pl.xcut - a.Offset1
	for k := 0; k < n; k++ {
		c1, c2 := a.AlignedSeq1[k], a.AlignedSeq2[k]
		inSeq1 := k >= a.Offset1 && k < n-a.EndOffset1
		inSeq2 := k >= a.Offset2 && k < n-a.EndOffset2
		switch {
		case !inSeq2:
			pos++
		case !inSeq1:
			fn(pos, 0, c2, false)
			pos++
		case c1 == alignment.GapChar:
			fn(pos, c1, c2, true)
		default:
			fn(pos, c1, c2, false)
			pos++
		}
	}
}

// commit applies a plan: grows the contig, inserts gap columns, pads the
// new read and records it.
func (c *Contig) commit(r *readpool.Read, pl *plan, dir int) (*Result, error) {
	c.growLeft(pl.growLeft)

	shift := pl.growLeft
	placed := make([]byte, 0, pl.placedLen)
	var err error
	pl.walk(func(pos int, c1, c2 byte, newCol bool) {
		if err != nil {
			return
		}
		if newCol {
			err = c.insertGapColumn(pos + shift)
			shift++
		}
		if c2 == alignment.GapChar {
			c2 = sequence.Gap
		}
		placed = append(placed, c2)
	})
	if err != nil {
		return nil, c.withWindow(err, pl)
	}

	start := pl.start + pl.growLeft
	c.growRight(start + len(placed) - len(c.cols))

	want := sequence.Ungap(r.Placed(dir))
	if !bytes.Equal(sequence.Ungap(placed), want) {
		return nil, c.withWindow(c.invariant("commit", r.ID, "aligned read %q does not match read %q", placed, want), pl)
	}
	if err := c.padRead(r, dir, placed); err != nil {
		return nil, c.withWindow(err, pl)
	}

	c.flagLocked(r, start, placed)
	c.reads.Place(r.ID, start, dir, len(placed))
	c.addAggregate(r, start, placed)
	c.dirty()

	p, _ := c.reads.LookupByID(r.ID)
	return &Result{
		Placement:  *p,
		GrowLeft:   pl.growLeft,
		GrowRight:  pl.growRight,
		GapColumns: pl.gapCols,
		Alignment:  pl.aln,
	}, nil
}

// padRead makes the pool copy of the read match placed.
func (c *Contig) padRead(r *readpool.Read, dir int, placed []byte) error {
	if err := c.pool.Ungap(r.ID); err != nil {
		return c.invariant("commit", r.ID, "ungap: %v", err)
	}
	for k, b := range placed {
		if b != sequence.Gap {
			continue
		}
		if err := c.pool.InsertGap(r.ID, dir, k); err != nil {
			return c.invariant("commit", r.ID, "pad position %d: %v", k, err)
		}
	}
	if got := r.Placed(dir); !bytes.Equal(got, placed) {
		return c.invariant("commit", r.ID, "padded read %q, want %q", got, placed)
	}
	return nil
}

// flagLocked tags locked columns where the read disagrees with the
// current consensus as possible misassemblies.
func (c *Contig) flagLocked(r *readpool.Read, start int, placed []byte) {
	for k, b := range placed {
		col := &c.cols[start+k]
		if !col.Locked() || !col.HasBase() || b == sequence.Gap {
			continue
		}
		dom := col.DominantBase()
		if dom == sequence.Gap || sequence.Compatible(dom, b) {
			continue
		}
		pos := start + k
		if _, ok := c.tagAt(TagRepeatMarker, pos); ok {
			continue
		}
		c.tags = append(c.tags, Tag{
			ID:      TagRepeatMarker,
			From:    pos,
			To:      pos,
			Comment: fmt.Sprintf("possible misassembly: %s has %c over locked %c", r.Name, b, dom),
		})
	}
}

// withWindow adds the plan's window to an InvariantError.
func (c *Contig) withWindow(err error, pl *plan) error {
	if ie, ok := err.(*InvariantError); ok {
		ie.Xcut, ie.Ycut = pl.xcut, pl.ycut
		ie.Offset1, ie.Offset2 = pl.aln.Offset1, pl.aln.Offset2
	}
	return err
}
