package contig

import "github.com/aria-lang/contigflow/internal/sequence"

// insertGapColumn inserts a column in front of column at. Every read and
// rail spanning the position gets a gap spliced in; everything starting at
// or after it moves right by one.
func (c *Contig) insertGapColumn(at int) error {
	var col Column
	var left, right *Column
	if at > 0 {
		left = &c.cols[at-1]
	}
	if at < len(c.cols) {
		right = &c.cols[at]
	}
	col.interpolate(left, right)

	for _, p := range c.reads.Covering(at) {
		if p.Offset == at {
			continue
		}
		r, ok := c.read(p.ReadID)
		if !ok {
			return c.invariant("insert gap", p.ReadID, "placed read missing from pool")
		}
		if err := c.pool.InsertGap(p.ReadID, p.Dir, at-p.Offset); err != nil {
			return c.invariant("insert gap", p.ReadID, "column %d: %v", at, err)
		}
		p.Len++
		c.reads.grew(p.Len)
		col.Add(sequence.Gap, r.SeqType, r.Multiplier())
	}
	for _, p := range c.rails.Covering(at) {
		if p.Offset == at {
			continue
		}
		if err := c.pool.InsertGap(p.ReadID, p.Dir, at-p.Offset); err != nil {
			return c.invariant("insert gap", p.ReadID, "rail column %d: %v", at, err)
		}
		p.Len++
		c.rails.grew(p.Len)
		col.OriginalBB = sequence.Gap
	}

	c.reads.ShiftFrom(at, 1)
	c.rails.ShiftFrom(at, 1)
	c.cols = append(c.cols, Column{})
	copy(c.cols[at+1:], c.cols[at:])
	c.cols[at] = col
	c.insertColumns(at, 1)
	c.refreshBackbone(at)
	return nil
}

// deleteGapColumn removes column at, which must hold only gaps, from the
// contig and from every read and rail covering it.
func (c *Contig) deleteGapColumn(at int) error {
	for _, l := range []*Ledger{c.reads, c.rails} {
		for _, p := range l.Covering(at) {
			if err := c.pool.DeleteGap(p.ReadID, p.Dir, at-p.Offset); err != nil {
				return c.invariant("delete gap", p.ReadID, "column %d: %v", at, err)
			}
			p.Len--
		}
	}
	c.cols = append(c.cols[:at], c.cols[at+1:]...)
	c.reads.ShiftFrom(at+1, -1)
	c.rails.ShiftFrom(at+1, -1)
	c.deleteColumns(at, 1)
	return nil
}

// isPureGap reports whether column at holds nothing but gaps in every read
// and rail covering it.
func (c *Contig) isPureGap(at int) bool {
	col := &c.cols[at]
	if col.HasBase() {
		return false
	}
	covering := append(c.reads.Covering(at), c.rails.Covering(at)...)
	if len(covering) == 0 {
		return false
	}
	for _, p := range covering {
		if p.Len <= 1 {
			return false
		}
		r, ok := c.read(p.ReadID)
		if !ok || r.PlacedBase(p.Dir, at-p.Offset) != sequence.Gap {
			return false
		}
	}
	return true
}

// trimFront drops leading empty columns and returns how many were dropped.
func (c *Contig) trimFront() int {
	n := 0
	for n < len(c.cols) && c.cols[n].empty() {
		n++
	}
	if n == 0 {
		return 0
	}
	c.cols = append([]Column(nil), c.cols[n:]...)
	c.reads.ShiftFrom(0, -n)
	c.rails.ShiftFrom(0, -n)
	c.deleteColumns(0, n)
	return n
}

// trimBack drops trailing empty columns and returns how many were dropped.
func (c *Contig) trimBack() int {
	n := 0
	for n < len(c.cols) && c.cols[len(c.cols)-1-n].empty() {
		n++
	}
	if n == 0 {
		return 0
	}
	at := len(c.cols) - n
	c.cols = c.cols[:at]
	c.deleteColumns(at, n)
	return n
}
