package contig

import "github.com/aria-lang/contigflow/internal/sequence"

// tmpChar is the temporary consensus character of column i. Rail
// characters win in backbone mode and wherever no read has a base.
func (c *Contig) tmpChar(i int) byte {
	col := &c.cols[i]
	if col.UpdatedBB != 0 && (c.backboneMode() || !col.HasBase()) {
		return col.UpdatedBB
	}
	return col.DominantBase()
}

// tmpcons builds the temporary consensus of [xcut, ycut). Gap-dominant
// columns stay in as '*' so alignment columns map one to one onto contig
// columns.
func (c *Contig) tmpcons(xcut, ycut int) []byte {
	out := make([]byte, 0, ycut-xcut)
	for i := xcut; i < ycut; i++ {
		out = append(out, c.tmpChar(i))
	}
	return out
}

// isBaseAt reports whether position pos consumes a base during window
// walks. Positions outside the contig always do.
func (c *Contig) isBaseAt(pos int) bool {
	if pos < 0 || pos >= len(c.cols) {
		return true
	}
	return c.tmpChar(pos) != sequence.Gap
}

// walkRight consumes n bases of the temporary consensus starting at pos.
// It returns the position of the next base and the length of the gap run
// skipped to reach it.
func (c *Contig) walkRight(pos, n int) (int, int) {
	for n > 0 {
		if c.isBaseAt(pos) {
			n--
		}
		pos++
	}
	run := 0
	for pos >= 0 && pos < len(c.cols) && !c.isBaseAt(pos) {
		pos++
		run++
	}
	return pos, run
}

// walkLeft consumes n bases of the temporary consensus to the left of pos
// and returns the position of the last one consumed. The result may be
// negative.
func (c *Contig) walkLeft(pos, n int) int {
	for n > 0 {
		pos--
		if c.isBaseAt(pos) {
			n--
		}
	}
	return pos
}

// walkRead consumes n bases of a placed read. Bases beyond the read
// continue over the temporary consensus.
func (c *Contig) walkRead(ref *Placed, seq []byte, n int) (int, int) {
	k := 0
	for n > 0 && k < len(seq) {
		if seq[k] != sequence.Gap {
			n--
		}
		k++
	}
	if n > 0 {
		return c.walkRight(ref.Offset+k, n)
	}
	run := 0
	for k < len(seq) && seq[k] == sequence.Gap {
		k++
		run++
	}
	return ref.Offset + k, run
}
