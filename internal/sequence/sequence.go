// Package sequence provides nucleotide sequence types and byte-level helpers
// for padded read sequences.
//
// Reads placed in a contig carry gap characters ('*') wherever the contig
// needed a column the read has no base for. Ambiguity codes follow IUPAC.
package sequence

import (
	"fmt"
	"strings"
)

// Gap is the padding character used inside reads and consensus strings.
const Gap = '*'

// Sequence represents a named nucleotide sequence.
type Sequence struct {
	Bases       string
	ID          string
	Description string
}

// New creates a new sequence with validation. Bases are upper-cased.
func New(bases string) (*Sequence, error) {
	normalized := strings.ToUpper(bases)

	if len(normalized) == 0 {
		return nil, &EmptySequenceError{}
	}

	if err := ValidateRead([]byte(normalized)); err != nil {
		return nil, err
	}

	return &Sequence{Bases: normalized}, nil
}

// WithID creates a new sequence with an identifier.
func WithID(bases, id string) (*Sequence, error) {
	if len(id) == 0 {
		return nil, fmt.Errorf("ID cannot be empty")
	}

	seq, err := New(bases)
	if err != nil {
		return nil, err
	}

	seq.ID = id
	return seq, nil
}

// Len returns the length of the sequence.
func (s *Sequence) Len() int {
	return len(s.Bases)
}

// GCContent calculates the proportion of G and C among non-gap bases.
func (s *Sequence) GCContent() float64 {
	gc, n := 0, 0
	for i := 0; i < len(s.Bases); i++ {
		switch s.Bases[i] {
		case 'G', 'C', 'S':
			gc++
			n++
		case Gap:
		default:
			n++
		}
	}
	if n == 0 {
		return 0.0
	}
	return float64(gc) / float64(n)
}

// CountAmbiguous counts bases that are neither ACGT nor gaps.
func (s *Sequence) CountAmbiguous() int {
	count := 0
	for i := 0; i < len(s.Bases); i++ {
		if IsBase(s.Bases[i]) && !IsUnambiguous(s.Bases[i]) {
			count++
		}
	}
	return count
}

// ToFASTA returns the sequence in FASTA format.
func (s *Sequence) ToFASTA() string {
	var header string
	if s.ID != "" {
		header = ">" + s.ID
		if s.Description != "" {
			header += " " + s.Description
		}
	} else {
		header = ">sequence"
	}

	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteRune('\n')

	for i := 0; i < len(s.Bases); i += 80 {
		end := i + 80
		if end > len(s.Bases) {
			end = len(s.Bases)
		}
		sb.WriteString(s.Bases[i:end])
		sb.WriteRune('\n')
	}

	return sb.String()
}

func (s *Sequence) String() string {
	if s.ID != "" {
		return fmt.Sprintf(">%s\n%s", s.ID, s.Bases)
	}
	return s.Bases
}

// IsGap reports whether b is a padding gap.
func IsGap(b byte) bool {
	return b == Gap
}

// IsBase reports whether b is a nucleotide or ambiguity code, excluding gaps.
func IsBase(b byte) bool {
	_, ok := iupac[b]
	return ok
}

// IsUnambiguous reports whether b is one of A, C, G or T.
func IsUnambiguous(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

var iupac = map[byte]string{
	'A': "A", 'C': "C", 'G': "G", 'T': "T",
	'R': "AG", 'Y': "CT", 'S': "CG", 'W': "AT", 'K': "GT", 'M': "AC",
	'B': "CGT", 'D': "AGT", 'H': "ACT", 'V': "ACG",
	'N': "ACGT", 'X': "ACGT",
}

// IUPACMembers returns the unambiguous bases an IUPAC code stands for. Gaps
// and unknown characters return nil.
func IUPACMembers(b byte) string {
	return iupac[b]
}

// Compatible reports whether two IUPAC codes stand for at least one common
// base. Gaps are compatible with nothing.
func Compatible(a, b byte) bool {
	ma, mb := iupac[a], iupac[b]
	for i := 0; i < len(ma); i++ {
		for j := 0; j < len(mb); j++ {
			if ma[i] == mb[j] {
				return true
			}
		}
	}
	return false
}

var complements = [256]byte{}

func init() {
	for i := range complements {
		complements[i] = byte(i)
	}
	pairs := []string{"AT", "CG", "RY", "KM", "BV", "DH"}
	for _, p := range pairs {
		complements[p[0]] = p[1]
		complements[p[1]] = p[0]
		complements[p[0]+'a'-'A'] = p[1] + 'a' - 'A'
		complements[p[1]+'a'-'A'] = p[0] + 'a' - 'A'
	}
}

// Complement returns the IUPAC complement of a single base. S, W, N, X and
// gaps are their own complement.
func Complement(b byte) byte {
	return complements[b]
}

// ReverseComplement returns a new slice holding the reverse complement of s.
func ReverseComplement(s []byte) []byte {
	out := make([]byte, len(s))
	for i, b := range s {
		out[len(s)-1-i] = Complement(b)
	}
	return out
}

// Ungap returns a copy of s with all padding gaps removed.
func Ungap(s []byte) []byte {
	out := make([]byte, 0, len(s))
	for _, b := range s {
		if b != Gap {
			out = append(out, b)
		}
	}
	return out
}

// CountGaps counts padding gaps in s.
func CountGaps(s []byte) int {
	n := 0
	for _, b := range s {
		if b == Gap {
			n++
		}
	}
	return n
}
