package contig

import "fmt"

// RemoveRead takes a placed read or rail out of the contig. Column counts
// are rolled back, empty columns at both ends are trimmed and columns left
// holding only gaps in the removed span are deleted. It returns the ledger
// position of the read or rail that followed the removed one.
func (c *Contig) RemoveRead(id int) (int, error) {
	if p, ok := c.rails.LookupByID(id); ok {
		return c.removeRail(p)
	}
	p, ok := c.reads.LookupByID(id)
	if !ok {
		return 0, fmt.Errorf("read %d is not placed in contig %s", id, c.Name)
	}
	r, ok := c.read(id)
	if !ok {
		return 0, c.invariant("remove", id, "placed read missing from pool")
	}
	placed := r.Placed(p.Dir)
	if len(placed) != p.Len {
		return 0, c.invariant("remove", id, "read length %d, placement length %d", len(placed), p.Len)
	}

	offset, end := p.Offset, p.End()
	c.removeAggregate(r, offset, placed)
	next := c.reads.Remove(c.reads.Index(p))

	if err := c.compact(offset, end); err != nil {
		return 0, err
	}
	return next, nil
}

// removeRail drops a rail and restores the backbone characters of the
// columns it covered from the rails still placed there.
func (c *Contig) removeRail(p *Placed) (int, error) {
	offset, end := p.Offset, p.End()
	next := c.rails.Remove(c.rails.Index(p))

	for i := offset; i < end; i++ {
		col := &c.cols[i]
		col.OriginalBB, col.UpdatedBB = c.railBase(i), 0
		c.refreshBackbone(i)
	}
	if err := c.compact(offset, end); err != nil {
		return 0, err
	}
	return next, nil
}

// railBase returns the character of the last rail covering column i, or 0.
func (c *Contig) railBase(i int) byte {
	var b byte
	for _, p := range c.rails.Covering(i) {
		if r, ok := c.read(p.ReadID); ok {
			b = r.PlacedBase(p.Dir, i-p.Offset)
		}
	}
	return b
}

// compact trims empty end columns and deletes pure gap columns in
// [offset, end) after a removal.
func (c *Contig) compact(offset, end int) error {
	if offset == 0 {
		n := c.trimFront()
		offset -= n
		end -= n
	}
	c.trimBack()

	if offset < 0 {
		offset = 0
	}
	if end > len(c.cols) {
		end = len(c.cols)
	}
	for i := end - 1; i >= offset; i-- {
		if !c.isPureGap(i) {
			continue
		}
		if err := c.deleteGapColumn(i); err != nil {
			return err
		}
	}
	c.dirty()
	return nil
}
