package contig

import "fmt"

const (
	// TagRepeatMarker marks a region where mismatching reads are refused.
	TagRepeatMarker = "SRMc"
	// TagForcedMerge marks a region where short reads are merged whatever
	// their mismatch count.
	TagForcedMerge = "FMRG"
)

// Tag annotates the inclusive consensus range [From, To].
type Tag struct {
	ID      string
	From    int
	To      int
	Comment string
}

func (t Tag) String() string {
	return fmt.Sprintf("%s[%d,%d] %s", t.ID, t.From, t.To, t.Comment)
}

// Contains reports whether column pos lies in the tag.
func (t Tag) Contains(pos int) bool {
	return pos >= t.From && pos <= t.To
}

// shiftInsert moves coordinates for n columns inserted in front of column at.
func shiftInsert(p, at, n int) int {
	if p >= at {
		return p + n
	}
	return p
}

// shiftDelete moves a coordinate for the columns [at, at+n) being removed.
// A coordinate inside the removed range lands on at; callers pass
// inside=-1 for range ends so they land on at-1.
func shiftDelete(p, at, n, inside int) int {
	switch {
	case p < at:
		return p
	case p >= at+n:
		return p - n
	default:
		return at + inside
	}
}

// insertColumns shifts tags and markers for n new columns at column at.
func (c *Contig) insertColumns(at, n int) {
	for i := range c.tags {
		c.tags[i].From = shiftInsert(c.tags[i].From, at, n)
		c.tags[i].To = shiftInsert(c.tags[i].To, at, n)
	}
	for name, pos := range c.markers {
		c.markers[name] = shiftInsert(pos, at, n)
	}
}

// deleteColumns shifts tags and markers for the removed columns [at, at+n).
// Tags left without a column are dropped.
func (c *Contig) deleteColumns(at, n int) {
	kept := c.tags[:0]
	for _, t := range c.tags {
		t.From = shiftDelete(t.From, at, n, 0)
		t.To = shiftDelete(t.To, at, n, -1)
		if t.From < 0 {
			t.From = 0
		}
		if t.To < 0 || t.To < t.From {
			continue
		}
		kept = append(kept, t)
	}
	c.tags = kept

	for name, pos := range c.markers {
		pos = shiftDelete(pos, at, n, 0)
		if pos < 0 {
			pos = 0
		}
		c.markers[name] = pos
	}
}

// AddTag annotates the consensus. The range is clamped to the contig.
func (c *Contig) AddTag(id string, from, to int, comment string) error {
	if from > to {
		return fmt.Errorf("tag %s: from %d after to %d", id, from, to)
	}
	if from < 0 {
		from = 0
	}
	if to >= len(c.cols) {
		to = len(c.cols) - 1
	}
	if from > to {
		return fmt.Errorf("tag %s: range outside contig of length %d", id, len(c.cols))
	}
	c.tags = append(c.tags, Tag{ID: id, From: from, To: to, Comment: comment})
	return nil
}

// Tags returns a copy of the consensus tags.
func (c *Contig) Tags() []Tag {
	out := make([]Tag, len(c.tags))
	copy(out, c.tags)
	return out
}

// SetMarker names a contig position. Markers move with the columns.
func (c *Contig) SetMarker(name string, pos int) {
	c.markers[name] = pos
}

// Marker returns a named position.
func (c *Contig) Marker(name string) (int, bool) {
	pos, ok := c.markers[name]
	return pos, ok
}

// tagAt returns the first tag with the given id covering pos.
func (c *Contig) tagAt(id string, pos int) (Tag, bool) {
	for _, t := range c.tags {
		if t.ID == id && t.Contains(pos) {
			return t, true
		}
	}
	return Tag{}, false
}

// tagCovers reports whether one tag with the given id covers [from, to).
func (c *Contig) tagCovers(id string, from, to int) bool {
	for _, t := range c.tags {
		if t.ID == id && t.From <= from && t.To >= to-1 {
			return true
		}
	}
	return false
}
