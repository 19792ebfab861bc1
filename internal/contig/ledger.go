package contig

import "sort"

// Placed is the placement of one read in a contig. Len is the length of the
// read as placed, gaps included.
type Placed struct {
	ReadID int
	Offset int
	Dir    int
	Len    int
}

// End returns one past the last column the read covers.
func (p *Placed) End() int {
	return p.Offset + p.Len
}

// Covers reports whether column pos lies inside the read.
func (p *Placed) Covers(pos int) bool {
	return pos >= p.Offset && pos < p.End()
}

// Ledger keeps the placed reads of a contig ordered by offset. Reads with
// equal offsets keep their insertion order.
type Ledger struct {
	items []*Placed
	byID  map[int]*Placed
	// longest bounds the length of every read ever placed, so the reads
	// covering a column start in [pos-longest+1, pos].
	longest int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byID: make(map[int]*Placed)}
}

// Len returns the number of placed reads.
func (l *Ledger) Len() int {
	return len(l.items)
}

// At returns the placement at ledger position i.
func (l *Ledger) At(i int) *Placed {
	return l.items[i]
}

// All returns the placements in offset order. The slice must not be modified.
func (l *Ledger) All() []*Placed {
	return l.items
}

// Longest returns the bound used by FirstCovering.
func (l *Ledger) Longest() int {
	return l.longest
}

// LookupByID returns the placement of a read.
func (l *Ledger) LookupByID(id int) (*Placed, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// Index returns the ledger position of p, or -1.
func (l *Ledger) Index(p *Placed) int {
	i := sort.Search(len(l.items), func(k int) bool { return l.items[k].Offset >= p.Offset })
	for ; i < len(l.items) && l.items[i].Offset == p.Offset; i++ {
		if l.items[i] == p {
			return i
		}
	}
	return -1
}

// Place inserts a read behind all reads with the same or a smaller offset
// and returns its ledger position.
func (l *Ledger) Place(id, offset, dir, length int) int {
	p := &Placed{ReadID: id, Offset: offset, Dir: dir, Len: length}
	i := sort.Search(len(l.items), func(k int) bool { return l.items[k].Offset > offset })
	l.items = append(l.items, nil)
	copy(l.items[i+1:], l.items[i:])
	l.items[i] = p
	l.byID[id] = p
	l.grew(length)
	return i
}

// Remove drops the read at ledger position i and returns the position of
// the read that followed it.
func (l *Ledger) Remove(i int) int {
	delete(l.byID, l.items[i].ReadID)
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return i
}

// ShiftFrom moves every read starting at or after pos by delta. The caller
// guarantees that the order of offsets is preserved.
func (l *Ledger) ShiftFrom(pos, delta int) {
	i := sort.Search(len(l.items), func(k int) bool { return l.items[k].Offset >= pos })
	for ; i < len(l.items); i++ {
		l.items[i].Offset += delta
	}
}

// FirstCovering returns the first ledger position whose read may cover
// column pos. Callers scan forward while Offset <= pos.
func (l *Ledger) FirstCovering(pos int) int {
	lo := pos - l.longest + 1
	return sort.Search(len(l.items), func(k int) bool { return l.items[k].Offset >= lo })
}

// Covering returns the reads covering column pos.
func (l *Ledger) Covering(pos int) []*Placed {
	var out []*Placed
	for i := l.FirstCovering(pos); i < len(l.items) && l.items[i].Offset <= pos; i++ {
		if l.items[i].Covers(pos) {
			out = append(out, l.items[i])
		}
	}
	return out
}

// CoveringRange returns the ids of reads overlapping [from, to).
func (l *Ledger) CoveringRange(from, to int) []int {
	var out []int
	for i := l.FirstCovering(from); i < len(l.items) && l.items[i].Offset < to; i++ {
		if l.items[i].End() > from {
			out = append(out, l.items[i].ReadID)
		}
	}
	return out
}

// grew records a new read length.
func (l *Ledger) grew(length int) {
	if length > l.longest {
		l.longest = length
	}
}
