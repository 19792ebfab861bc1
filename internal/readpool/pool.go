package readpool

import (
	"fmt"
	"strings"

	"github.com/aria-lang/contigflow/internal/sequence"
)

// PoolError is the base error type for pool operations.
type PoolError interface {
	error
	IsPoolError()
}

// ReadNotFoundError is returned for an id the pool does not hold.
type ReadNotFoundError struct {
	ID int
}

func (e *ReadNotFoundError) Error() string {
	return fmt.Sprintf("read %d not in pool", e.ID)
}

func (e *ReadNotFoundError) IsPoolError() {}

// PositionError is returned when a gap command addresses a position outside
// the clipped read.
type PositionError struct {
	ID  int
	Pos int
	Len int
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("read %d: position %d outside clipped length %d", e.ID, e.Pos, e.Len)
}

func (e *PositionError) IsPoolError() {}

// NotAGapError is returned when DeleteGap addresses a real base.
type NotAGapError struct {
	ID    int
	Pos   int
	Found byte
}

func (e *NotAGapError) Error() string {
	return fmt.Sprintf("read %d: position %d holds '%c', not a gap", e.ID, e.Pos, e.Found)
}

func (e *NotAGapError) IsPoolError() {}

// Pool is an id-addressed read store. It is not safe for concurrent use;
// the assembly driver gives every bin its own pool.
type Pool struct {
	reads  []*Read
	byName map[string]int
}

// New returns an empty pool.
func New() *Pool {
	return &Pool{byName: make(map[string]int)}
}

// Add validates r, assigns it the next id and stores it. A RightClip of 0
// is taken as "no right clip".
func (p *Pool) Add(r *Read) (int, error) {
	r.Bases = []byte(strings.ToUpper(string(r.Bases)))
	if len(r.Bases) == 0 {
		return 0, &sequence.EmptySequenceError{}
	}
	if err := sequence.ValidateRead(r.Bases); err != nil {
		return 0, fmt.Errorf("read %s: %w", r.Name, err)
	}
	if len(r.Quals) != 0 && len(r.Quals) != len(r.Bases) {
		return 0, fmt.Errorf("read %s: %d qualities for %d bases", r.Name, len(r.Quals), len(r.Bases))
	}
	if r.RightClip == 0 {
		r.RightClip = len(r.Bases)
	}
	if r.LeftClip < 0 || r.LeftClip > r.RightClip || r.RightClip > len(r.Bases) {
		return 0, fmt.Errorf("read %s: invalid clips [%d,%d) for length %d", r.Name, r.LeftClip, r.RightClip, len(r.Bases))
	}
	if r.Name != "" {
		if _, dup := p.byName[r.Name]; dup {
			return 0, fmt.Errorf("duplicate read name %s", r.Name)
		}
	}

	r.ID = len(p.reads)
	p.reads = append(p.reads, r)
	if r.Name != "" {
		p.byName[r.Name] = r.ID
	}
	return r.ID, nil
}

// Read returns the read with the given id. The returned read must be
// treated as read-only.
func (p *Pool) Read(id int) (*Read, bool) {
	if id < 0 || id >= len(p.reads) {
		return nil, false
	}
	return p.reads[id], true
}

// ByName returns the read with the given name.
func (p *Pool) ByName(name string) (*Read, bool) {
	id, ok := p.byName[name]
	if !ok {
		return nil, false
	}
	return p.reads[id], true
}

// Len returns the number of reads.
func (p *Pool) Len() int {
	return len(p.reads)
}

// Reads returns all reads in id order.
func (p *Pool) Reads() []*Read {
	return p.reads
}

// rawIndex maps a position in the placed (contig-oriented) clipped read to
// an index into Bases. For insertions pos may equal the clipped length.
func rawIndex(r *Read, dir, pos int, insert bool) int {
	if dir < 0 {
		if insert {
			return r.RightClip - pos
		}
		return r.RightClip - 1 - pos
	}
	return r.LeftClip + pos
}

// InsertGap splices a gap in front of position pos of the read as placed
// in direction dir. The gap quality is the lower of its neighbours.
func (p *Pool) InsertGap(id, dir, pos int) error {
	r, ok := p.Read(id)
	if !ok {
		return &ReadNotFoundError{ID: id}
	}
	if pos < 0 || pos > r.Len() {
		return &PositionError{ID: id, Pos: pos, Len: r.Len()}
	}

	raw := rawIndex(r, dir, pos, true)
	r.Bases = append(r.Bases, 0)
	copy(r.Bases[raw+1:], r.Bases[raw:])
	r.Bases[raw] = sequence.Gap

	if len(r.Quals) != 0 {
		q := gapQual(r.Quals, raw)
		r.Quals = append(r.Quals, 0)
		copy(r.Quals[raw+1:], r.Quals[raw:])
		r.Quals[raw] = q
	}
	r.RightClip++
	return nil
}

func gapQual(quals []byte, at int) byte {
	switch {
	case at == 0:
		return quals[0]
	case at >= len(quals):
		return quals[len(quals)-1]
	case quals[at-1] < quals[at]:
		return quals[at-1]
	default:
		return quals[at]
	}
}

// DeleteGap removes the gap at position pos of the read as placed in
// direction dir.
func (p *Pool) DeleteGap(id, dir, pos int) error {
	r, ok := p.Read(id)
	if !ok {
		return &ReadNotFoundError{ID: id}
	}
	if pos < 0 || pos >= r.Len() {
		return &PositionError{ID: id, Pos: pos, Len: r.Len()}
	}

	raw := rawIndex(r, dir, pos, false)
	if r.Bases[raw] != sequence.Gap {
		return &NotAGapError{ID: id, Pos: pos, Found: r.Bases[raw]}
	}
	r.Bases = append(r.Bases[:raw], r.Bases[raw+1:]...)
	if len(r.Quals) != 0 {
		r.Quals = append(r.Quals[:raw], r.Quals[raw+1:]...)
	}
	r.RightClip--
	return nil
}

// Ungap removes every gap from the read, clipped or not, and moves the
// clips accordingly.
func (p *Pool) Ungap(id int) error {
	r, ok := p.Read(id)
	if !ok {
		return &ReadNotFoundError{ID: id}
	}

	bases := r.Bases[:0]
	var quals []byte
	if len(r.Quals) != 0 {
		quals = r.Quals[:0]
	}
	left, right := r.LeftClip, r.RightClip
	for i := 0; i < len(r.Bases); i++ {
		if r.Bases[i] == sequence.Gap {
			if i < r.LeftClip {
				left--
			}
			if i < r.RightClip {
				right--
			}
			continue
		}
		bases = append(bases, r.Bases[i])
		if quals != nil {
			quals = append(quals, r.Quals[i])
		}
	}
	r.Bases = bases
	if quals != nil {
		r.Quals = quals
	}
	r.LeftClip, r.RightClip = left, right
	return nil
}

// SetClips narrows or widens the usable range of an unplaced read to
// [left, right).
func (p *Pool) SetClips(id, left, right int) error {
	r, ok := p.Read(id)
	if !ok {
		return &ReadNotFoundError{ID: id}
	}
	if left < 0 || left > right || right > len(r.Bases) {
		return fmt.Errorf("read %s: invalid clips [%d,%d) for length %d", r.Name, left, right, len(r.Bases))
	}
	r.LeftClip, r.RightClip = left, right
	return nil
}
