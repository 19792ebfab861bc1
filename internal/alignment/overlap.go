package alignment

import (
	"fmt"

	"github.com/aria-lang/contigflow/internal/sequence"
)

// Overlap is a read-to-read overlap expressed in the orientation of the
// first read. Direction is -1 when the second read had to be reverse
// complemented.
type Overlap struct {
	*Alignment
	Direction int
}

func (o *Overlap) String() string {
	return fmt.Sprintf("Overlap { dir: %+d, %s }", o.Direction, o.Alignment)
}

// Overlap aligns seq2 in both orientations against seq1 and returns the better
// of the two, or nil when neither orientation yields an alignment.
func (b *Banded) Overlap(p Params, seq1, seq2 []byte) (*Overlap, error) {
	fwd, err := b.Align(p, seq1, seq2)
	if err != nil {
		return nil, err
	}
	rev, err := b.Align(p, seq1, sequence.ReverseComplement(seq2))
	if err != nil {
		return nil, err
	}

	bf, br := Best(fwd), Best(rev)
	switch best := Best([]*Alignment{bf, br}); {
	case best == nil:
		return nil, nil
	case best == bf:
		return &Overlap{Alignment: bf, Direction: 1}, nil
	default:
		return &Overlap{Alignment: br, Direction: -1}, nil
	}
}
