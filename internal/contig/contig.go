// Package contig builds contigs incrementally. A Contig aligns candidate
// reads against a window of its temporary consensus, commits accepted
// alignments by growing and padding itself, and keeps per-column
// statistics up to date for later consensus calls.
//
// A Contig is not safe for concurrent use. Different contigs may be built
// in parallel as long as each has its own Aligner.
package contig

import (
	"fmt"

	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
)

// Aligner computes candidate alignments of a read against a consensus
// window. *alignment.Banded implements it.
type Aligner interface {
	Align(p alignment.Params, seq1, seq2 []byte) ([]*alignment.Alignment, error)
}

// ReadSource gives access to the reads a contig references. The gap
// commands are the only changes a contig makes to reads.
type ReadSource interface {
	Read(id int) (*readpool.Read, bool)
	InsertGap(id, dir, pos int) error
	DeleteGap(id, dir, pos int) error
	Ungap(id int) error
}

// Contig is a consensus sequence with the reads placed against it.
type Contig struct {
	Name string

	params  *Params
	pool    ReadSource
	aligner Aligner

	cols    []Column
	reads   *Ledger
	rails   *Ledger
	tags    []Tag
	markers map[string]int

	templates   map[int][]int
	strains     map[int]int
	readGroups  map[int]int
	merged      [readpool.NumSeqTypes]int
	longestRead int
	longestRail int

	finalised bool
	consensus []byte
}

// New returns an empty contig.
func New(name string, params *Params, pool ReadSource, aligner Aligner) *Contig {
	if params == nil {
		params = DefaultParams()
	}
	return &Contig{
		Name:       name,
		params:     params,
		pool:       pool,
		aligner:    aligner,
		reads:      NewLedger(),
		rails:      NewLedger(),
		markers:    make(map[string]int),
		templates:  make(map[int][]int),
		strains:    make(map[int]int),
		readGroups: make(map[int]int),
	}
}

// Len returns the number of columns.
func (c *Contig) Len() int {
	return len(c.cols)
}

// NumReads returns the number of placed reads, rails excluded.
func (c *Contig) NumReads() int {
	return c.reads.Len()
}

// Column returns a copy of column i.
func (c *Contig) Column(i int) Column {
	return c.cols[i]
}

// Columns returns a copy of all columns.
func (c *Contig) Columns() []Column {
	out := make([]Column, len(c.cols))
	copy(out, c.cols)
	return out
}

// Placement returns the placement of a read or rail.
func (c *Contig) Placement(id int) (Placed, bool) {
	if p, ok := c.reads.LookupByID(id); ok {
		return *p, true
	}
	if p, ok := c.rails.LookupByID(id); ok {
		return *p, true
	}
	return Placed{}, false
}

// Placements returns copies of all read placements in offset order.
func (c *Contig) Placements() []Placed {
	out := make([]Placed, 0, c.reads.Len())
	for _, p := range c.reads.All() {
		out = append(out, *p)
	}
	return out
}

// Rails returns copies of all rail placements in offset order.
func (c *Contig) Rails() []Placed {
	out := make([]Placed, 0, c.rails.Len())
	for _, p := range c.rails.All() {
		out = append(out, *p)
	}
	return out
}

// MergedReads returns how many reads of type t were merged into columns.
func (c *Contig) MergedReads(t readpool.SeqType) int {
	return c.merged[t]
}

// StrainReads returns the number of placed reads of a strain.
func (c *Contig) StrainReads(strain int) int {
	return c.strains[strain]
}

// ReadGroupReads returns the number of placed reads of a read group.
func (c *Contig) ReadGroupReads(group int) int {
	return c.readGroups[group]
}

// HasTemplate reports whether a read of the template is placed.
func (c *Contig) HasTemplate(id int) bool {
	return len(c.templates[id]) > 0
}

// LongestRead returns the longest placed read length seen.
func (c *Contig) LongestRead() int {
	return c.longestRead
}

// backboneMode reports whether the temporary consensus follows the rails.
func (c *Contig) backboneMode() bool {
	return c.params.TmpConsFromBackbone && c.rails.Len() > 0
}

// dirty drops the finalised consensus after a change.
func (c *Contig) dirty() {
	c.finalised = false
	c.consensus = nil
}

// Consensus returns the padded consensus. The result is cached until the
// next change of the contig.
func (c *Contig) Consensus() []byte {
	if !c.finalised {
		c.Finalise()
	}
	out := make([]byte, len(c.consensus))
	copy(out, c.consensus)
	return out
}

// Finalise computes and caches the consensus.
func (c *Contig) Finalise() {
	cons := make([]byte, len(c.cols))
	for i := range c.cols {
		col := &c.cols[i]
		if !col.HasBase() && col.UpdatedBB != 0 {
			cons[i] = col.UpdatedBB
			continue
		}
		cons[i] = col.DominantBase()
	}
	c.consensus = cons
	c.finalised = true
}

// UngappedConsensus returns the consensus without padding.
func (c *Contig) UngappedConsensus() []byte {
	return sequence.Ungap(c.Consensus())
}

// LockColumns marks [from, to) so that conflicting bases are flagged. snp
// selects the SNP lock instead of the base lock.
func (c *Contig) LockColumns(from, to int, snp bool) error {
	if from < 0 || to > len(c.cols) || from >= to {
		return fmt.Errorf("lock range [%d,%d) outside contig of length %d", from, to, len(c.cols))
	}
	for i := from; i < to; i++ {
		if snp {
			c.cols[i].SNPLock++
		} else {
			c.cols[i].BaseLock++
		}
	}
	return nil
}

// read fetches a read from the pool.
func (c *Contig) read(id int) (*readpool.Read, bool) {
	return c.pool.Read(id)
}

func (c *Contig) invariant(op string, id int, detail string, args ...interface{}) *InvariantError {
	return &InvariantError{Op: op, Contig: c.Name, ReadID: id, Detail: fmt.Sprintf(detail, args...)}
}

// growRight appends n empty columns.
func (c *Contig) growRight(n int) {
	if n <= 0 {
		return
	}
	c.cols = append(c.cols, make([]Column, n)...)
}

// growLeft prepends n empty columns and shifts everything behind them.
func (c *Contig) growLeft(n int) {
	if n <= 0 {
		return
	}
	cols := make([]Column, n+len(c.cols))
	copy(cols[n:], c.cols)
	c.cols = cols
	c.reads.ShiftFrom(0, n)
	c.rails.ShiftFrom(0, n)
	c.insertColumns(0, n)
}

// addAggregate records a placed read in the columns and bookkeeping.
func (c *Contig) addAggregate(r *readpool.Read, offset int, placed []byte) {
	mult := r.Multiplier()
	for k, b := range placed {
		c.cols[offset+k].Add(b, r.SeqType, mult)
		c.refreshBackbone(offset + k)
	}
	c.strains[r.Strain]++
	c.readGroups[r.ReadGroup]++
	if r.Template.ID != 0 {
		c.templates[r.Template.ID] = append(c.templates[r.Template.ID], r.ID)
	}
	if len(placed) > c.longestRead {
		c.longestRead = len(placed)
	}
}

// removeAggregate undoes addAggregate.
func (c *Contig) removeAggregate(r *readpool.Read, offset int, placed []byte) {
	mult := r.Multiplier()
	for k, b := range placed {
		c.cols[offset+k].Remove(b, r.SeqType, mult)
		c.refreshBackbone(offset + k)
	}
	decrement(c.strains, r.Strain)
	decrement(c.readGroups, r.ReadGroup)
	if r.Template.ID != 0 {
		ids := c.templates[r.Template.ID]
		for i, id := range ids {
			if id == r.ID {
				ids = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		if len(ids) == 0 {
			delete(c.templates, r.Template.ID)
		} else {
			c.templates[r.Template.ID] = ids
		}
	}
}

func decrement(m map[int]int, k int) {
	if m[k] <= 1 {
		delete(m, k)
		return
	}
	m[k]--
}

// refreshBackbone derives the updated rail character of column i from its
// original one and the reads mapped onto it.
func (c *Contig) refreshBackbone(i int) {
	col := &c.cols[i]
	if col.OriginalBB == 0 {
		return
	}
	col.UpdatedBB = col.OriginalBB
	need := c.params.BackboneUpdateMinCoverage
	if need <= 0 || col.Total < need {
		return
	}
	if b := col.DominantBase(); b != 'N' && b != col.OriginalBB {
		col.UpdatedBB = b
	}
}

// seed places the first read of an empty contig at offset 0.
func (c *Contig) seed(r *readpool.Read) (*Result, error) {
	if err := c.pool.Ungap(r.ID); err != nil {
		return nil, err
	}
	placed := r.Placed(1)
	if len(placed) == 0 {
		return nil, reject(ZeroLength, nil)
	}
	c.growRight(len(placed))
	c.reads.Place(r.ID, 0, 1, len(placed))
	c.addAggregate(r, 0, placed)
	c.dirty()
	p, _ := c.reads.LookupByID(r.ID)
	return &Result{Placement: *p, GrowRight: len(placed)}, nil
}

// AddRail places a rail or backbone at offset in direction dir. Rails set
// the backbone characters of the columns they cover but add no coverage.
func (c *Contig) AddRail(id, offset, dir int) error {
	r, ok := c.read(id)
	if !ok {
		return fmt.Errorf("rail %d not in pool", id)
	}
	if !r.IsReference() {
		return fmt.Errorf("read %s is not a rail or backbone", r.Name)
	}
	if _, placed := c.Placement(id); placed {
		return fmt.Errorf("rail %s already placed", r.Name)
	}
	if offset < 0 {
		c.growLeft(-offset)
		offset = 0
	}
	placed := r.Placed(dir)
	c.growRight(offset + len(placed) - len(c.cols))
	for k, b := range placed {
		col := &c.cols[offset+k]
		col.OriginalBB = b
		c.refreshBackbone(offset + k)
	}
	c.rails.Place(id, offset, dir, len(placed))
	if len(placed) > c.longestRail {
		c.longestRail = len(placed)
	}
	c.dirty()
	return nil
}
