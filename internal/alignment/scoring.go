// Package alignment provides the banded pairwise aligner used to place reads
// against a contig's temporary consensus, and to compute read-to-read
// overlaps.
//
// Alignments are ends-free (semi-global): leading and trailing gaps in either
// sequence are not penalised, so a read may hang off either end of the
// consensus window. Padding characters ('*') in the first sequence can be
// skipped at no cost.
package alignment

import (
	"fmt"

	"github.com/aria-lang/contigflow/internal/sequence"
)

// AlignDirection represents the traceback direction in the alignment matrix.
type AlignDirection int8

const (
	// Stop marks a matrix cell where the alignment begins
	Stop AlignDirection = iota
	// Diagonal represents a match or mismatch
	Diagonal
	// Up represents a gap in sequence 2
	Up
	// Left represents a gap in sequence 1
	Left
	// Pad represents a padding character of sequence 1 skipped for free
	Pad
)

// GapChar is written into aligned strings where the aligner opened a gap.
const GapChar = '-'

// ScoringMatrix represents the scoring parameters for alignment.
type ScoringMatrix struct {
	MatchScore       int
	MismatchPenalty  int
	GapOpenPenalty   int
	GapExtendPenalty int
}

// NewScoringMatrix creates a new scoring matrix with validation.
func NewScoringMatrix(match, mismatch, gapOpen, gapExtend int) (*ScoringMatrix, error) {
	if match <= 0 {
		return nil, fmt.Errorf("match score must be positive")
	}
	if mismatch > 0 {
		return nil, fmt.Errorf("mismatch penalty should be <= 0")
	}
	if gapOpen > 0 {
		return nil, fmt.Errorf("gap open penalty should be <= 0")
	}
	if gapExtend > 0 {
		return nil, fmt.Errorf("gap extend penalty should be <= 0")
	}

	return &ScoringMatrix{
		MatchScore:       match,
		MismatchPenalty:  mismatch,
		GapOpenPenalty:   gapOpen,
		GapExtendPenalty: gapExtend,
	}, nil
}

// DefaultDNA creates a default DNA scoring matrix.
func DefaultDNA() *ScoringMatrix {
	return &ScoringMatrix{
		MatchScore:       2,
		MismatchPenalty:  -3,
		GapOpenPenalty:   -4,
		GapExtendPenalty: -2,
	}
}

// Score returns the score for comparing two bases. Ambiguity codes that share
// a member with the other base score zero.
func (s *ScoringMatrix) Score(base1, base2 byte) int {
	if base1 == base2 && base1 != sequence.Gap {
		if sequence.IsUnambiguous(base1) {
			return s.MatchScore
		}
		return 0
	}
	if base1 == sequence.Gap || base2 == sequence.Gap {
		return s.MismatchPenalty
	}
	if sequence.Compatible(base1, base2) {
		return 0
	}
	return s.MismatchPenalty
}

// GapPenalty returns the penalty for a gap position. Affine scoring charges
// the open penalty for the first position of a run only.
func (s *ScoringMatrix) GapPenalty(opening, affine bool) int {
	if affine && !opening {
		return s.GapExtendPenalty
	}
	return s.GapOpenPenalty
}

// String returns a string representation of the scoring matrix.
func (s *ScoringMatrix) String() string {
	return fmt.Sprintf("ScoringMatrix { match: %d, mismatch: %d, gap_open: %d, gap_extend: %d }",
		s.MatchScore, s.MismatchPenalty, s.GapOpenPenalty, s.GapExtendPenalty)
}

// Params tunes a single alignment attempt. Callers derive the parameters of
// the next attempt from the result of the previous one instead of mutating
// shared state.
type Params struct {
	// BandWidth is the half-width of the diagonal band; 0 disables banding.
	BandWidth int
	// OffsetHint is the expected position in sequence 1 where sequence 2
	// starts. The band is centred on the matching diagonal.
	OffsetHint int
	// EnforceCleanEnds drops alignments whose overlap starts or ends on
	// anything but a match.
	EnforceCleanEnds bool
	// AffineGaps charges GapExtendPenalty for gap positions after the first.
	AffineGaps bool
	// MinOverlap is the minimum number of overlapping positions.
	MinOverlap int
	// MinScoreRatio drops alignments whose ScoreRatio is below it; 0
	// accepts any ratio.
	MinScoreRatio int
	// Scoring defaults to DefaultDNA when nil.
	Scoring *ScoringMatrix
}

// DefaultParams returns unbanded parameters with affine gaps.
func DefaultParams() Params {
	return Params{
		AffineGaps: true,
		MinOverlap: 15,
		Scoring:    DefaultDNA(),
	}
}

// Widen returns a copy of p with a doubled band, used after a band overflow.
func (p Params) Widen() Params {
	next := p
	if next.BandWidth > 0 {
		next.BandWidth *= 2
	}
	return next
}
