// Package readpool holds the reads of an assembly bin. Reads are addressed by
// their integer id; contigs reference them by id and change them only
// through the gap commands on Pool.
package readpool

import (
	"fmt"
	"strings"

	"github.com/aria-lang/contigflow/internal/sequence"
)

// SeqType is the sequencing technology a read was produced with.
type SeqType int

const (
	Sanger SeqType = iota
	FourFiveFour
	IonTorrent
	PacBioHQ
	PacBioLQ
	Text
	Solexa
	SOLiD

	// NumSeqTypes is the number of sequencing types.
	NumSeqTypes
)

var seqTypeNames = [NumSeqTypes]string{"sanger", "454", "iontor", "pcbiohq", "pcbiolq", "text", "solexa", "solid"}

func (t SeqType) String() string {
	if t < 0 || t >= NumSeqTypes {
		return fmt.Sprintf("seqtype(%d)", int(t))
	}
	return seqTypeNames[t]
}

// ParseSeqType maps a sequencing type name as used in configuration files
// back to its SeqType.
func ParseSeqType(name string) (SeqType, error) {
	name = strings.ToLower(name)
	for i, n := range seqTypeNames {
		if n == name {
			return SeqType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown sequencing type %q", name)
}

// Template describes the physical fragment a read was sequenced from.
// ID 0 means the read has no mate.
type Template struct {
	ID      int
	Segment int
	// MinInsert and MaxInsert bound the expected insert size; MaxInsert 0
	// means unbounded.
	MinInsert int
	MaxInsert int
	// SameDirection is set when mates are expected in the same orientation.
	// The default is a forward/reverse pair facing each other.
	SameDirection bool
}

// Tag is an annotated region on a read, in raw read coordinates.
type Tag struct {
	ID      string
	From    int
	To      int
	Comment string
}

// Read is a single sequenced fragment. Bases may contain gap characters
// once the read has been placed in a contig. Only bases in
// [LeftClip, RightClip) take part in assembly.
type Read struct {
	ID        int
	Name      string
	Bases     []byte
	Quals     []byte
	LeftClip  int
	RightClip int

	SeqType   SeqType
	Strain    int
	ReadGroup int
	// CoverageMultiplier weights the read in column counts; 0 counts as 1.
	CoverageMultiplier int

	// Rail and Backbone reads are reference-only pseudo reads.
	Rail     bool
	Backbone bool

	Template Template
	// AllowedRef, when set, is the only rail or backbone name the read
	// may be mapped against.
	AllowedRef string
	Tags       []Tag
}

// Len returns the number of bases between the clips, gaps included.
func (r *Read) Len() int {
	return r.RightClip - r.LeftClip
}

// Multiplier returns the coverage multiplier, at least 1.
func (r *Read) Multiplier() int {
	if r.CoverageMultiplier < 1 {
		return 1
	}
	return r.CoverageMultiplier
}

// IsReference reports whether the read is a rail or a backbone.
func (r *Read) IsReference() bool {
	return r.Rail || r.Backbone
}

// Clipped returns a copy of the clipped bases.
func (r *Read) Clipped() []byte {
	out := make([]byte, r.Len())
	copy(out, r.Bases[r.LeftClip:r.RightClip])
	return out
}

// Placed returns the clipped bases in contig orientation: as stored for
// dir > 0, reverse complemented otherwise.
func (r *Read) Placed(dir int) []byte {
	if dir < 0 {
		return sequence.ReverseComplement(r.Bases[r.LeftClip:r.RightClip])
	}
	return r.Clipped()
}

// PlacedBase returns the character at position pos of the read as placed
// in direction dir.
func (r *Read) PlacedBase(dir, pos int) byte {
	if dir < 0 {
		return sequence.Complement(r.Bases[r.RightClip-1-pos])
	}
	return r.Bases[r.LeftClip+pos]
}

// PlacedQuals returns the clipped qualities in contig orientation, or nil
// when the read has none.
func (r *Read) PlacedQuals(dir int) []byte {
	if len(r.Quals) == 0 {
		return nil
	}
	q := make([]byte, r.Len())
	copy(q, r.Quals[r.LeftClip:r.RightClip])
	if dir < 0 {
		for i, j := 0, len(q)-1; i < j; i, j = i+1, j-1 {
			q[i], q[j] = q[j], q[i]
		}
	}
	return q
}

// UngappedLen returns the number of clipped bases that are not gaps.
func (r *Read) UngappedLen() int {
	return r.Len() - sequence.CountGaps(r.Bases[r.LeftClip:r.RightClip])
}

func (r *Read) String() string {
	return fmt.Sprintf("Read { id: %d, name: %s, len: %d, type: %s }", r.ID, r.Name, r.Len(), r.SeqType)
}
