package contig

import "github.com/aria-lang/contigflow/internal/readpool"

// baseOrder is the tie-break priority of dominant bases.
const baseOrder = "ACGT"

// Column holds the consensus statistics of one contig position.
//
// Counts are kept at four times the read count so ambiguity codes can be
// split exactly: for every column sum(Counts)/4 + Star == Total.
type Column struct {
	Counts [4]int
	N      int
	X      int
	Star   int
	Total  int

	TypeCoverage [readpool.NumSeqTypes]int

	BaseLock int
	SNPLock  int

	// OriginalBB is the rail character placed here, UpdatedBB the
	// character after reads mapped against it. Zero without a rail.
	OriginalBB byte
	UpdatedBB  byte

	MergedFwd  [readpool.NumSeqTypes]int
	MergedRev  [readpool.NumSeqTypes]int
	BestQual   [readpool.NumSeqTypes]byte
	StrainMask uint64
}

// Zero resets the column.
func (c *Column) Zero() {
	*c = Column{}
}

// Add records base from a read of type t weighted by mult.
func (c *Column) Add(base byte, t readpool.SeqType, mult int) {
	switch base {
	case 'A', 'a':
		c.Counts[0] += 4 * mult
	case 'C', 'c':
		c.Counts[1] += 4 * mult
	case 'G', 'g':
		c.Counts[2] += 4 * mult
	case 'T', 't':
		c.Counts[3] += 4 * mult
	case '*':
		c.Star += mult
	case 'R', 'r':
		c.addPair(0, 2, mult)
	case 'Y', 'y':
		c.addPair(1, 3, mult)
	case 'S', 's':
		c.addPair(1, 2, mult)
	case 'W', 'w':
		c.addPair(0, 3, mult)
	case 'K', 'k':
		c.addPair(2, 3, mult)
	case 'M', 'm':
		c.addPair(0, 1, mult)
	case 'N', 'n', 'B', 'b', 'D', 'd', 'H', 'h', 'V', 'v':
		c.spread(mult)
		c.N += mult
	default:
		c.spread(mult)
		c.X += mult
	}
	c.Total += mult
	c.TypeCoverage[t] += mult
}

// Remove undoes a previous Add.
func (c *Column) Remove(base byte, t readpool.SeqType, mult int) {
	c.Add(base, t, -mult)
}

func (c *Column) addPair(i, j, mult int) {
	c.Counts[i] += 2 * mult
	c.Counts[j] += 2 * mult
}

func (c *Column) spread(mult int) {
	for i := range c.Counts {
		c.Counts[i] += mult
	}
}

// DominantBase returns the base with the highest count, ties broken in the
// order A, C, G, T. It returns '*' when gaps outnumber the best base, and N
// for an empty column or one holding only fully ambiguous bases.
func (c *Column) DominantBase() byte {
	best, bi := 0, -1
	for i, n := range c.Counts {
		if n > best {
			best, bi = n, i
		}
	}
	if c.Star > 0 && c.Star*4 > best {
		return '*'
	}
	if bi < 0 {
		return 'N'
	}
	if c.Counts[0] == c.Counts[1] && c.Counts[1] == c.Counts[2] && c.Counts[2] == c.Counts[3] {
		return 'N'
	}
	return baseOrder[bi]
}

// HasBase reports whether any read contributed a non-gap character.
func (c *Column) HasBase() bool {
	return c.Total != c.Star
}

// Locked reports whether the column must not silently absorb a conflicting base.
func (c *Column) Locked() bool {
	return c.BaseLock > 0 || c.SNPLock > 0
}

func (c *Column) hasMerged() bool {
	for i := range c.MergedFwd {
		if c.MergedFwd[i] != 0 || c.MergedRev[i] != 0 {
			return true
		}
	}
	return false
}

// empty reports whether nothing at all refers to the column.
func (c *Column) empty() bool {
	return c.Total == 0 && c.OriginalBB == 0 && c.UpdatedBB == 0 && !c.hasMerged()
}

// consistent checks sum(Counts)/4 + Star == Total.
func (c *Column) consistent() bool {
	sum := 0
	for _, n := range c.Counts {
		sum += n
	}
	return sum%4 == 0 && sum/4+c.Star == c.Total
}

// interpolate fills the merge counters of a freshly inserted gap column
// from its neighbours. Either neighbour may be nil.
func (c *Column) interpolate(left, right *Column) {
	switch {
	case left == nil && right == nil:
		return
	case left == nil:
		left = right
	case right == nil:
		right = left
	}
	for t := range c.MergedFwd {
		c.MergedFwd[t] = (left.MergedFwd[t] + right.MergedFwd[t]) / 2
		c.MergedRev[t] = (left.MergedRev[t] + right.MergedRev[t]) / 2
		c.BestQual[t] = left.BestQual[t]
		if right.BestQual[t] < c.BestQual[t] {
			c.BestQual[t] = right.BestQual[t]
		}
	}
	c.StrainMask = left.StrainMask & right.StrainMask
}
