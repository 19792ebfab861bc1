package contig

import (
	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
)

// TypeParams tunes placement of reads of one sequencing type.
type TypeParams struct {
	MinOverlap       int
	BandWidth        int
	EnforceCleanEnds bool

	// Relative score limits, in percent. The WithMate variants apply when
	// a mate of the read is placed consistently in the contig.
	MinRelScore             int
	MinRelScoreWithMate     int
	MaxRelScoreDrop         int
	MaxRelScoreDropWithMate int

	// MaxCoverage refuses reads that would raise a column above it; 0
	// disables the check.
	MaxCoverage int

	ShortReadRules         bool
	ShortReadMaxMismatches int
	ShortReadMaxGaps       int
	ShortReadMinEndMatch   int

	MergeShortReads    bool
	MergeMaxMismatches int
	MergeMaxGaps       int
}

// Params tunes a contig.
type Params struct {
	Types [readpool.NumSeqTypes]TypeParams

	// TemplateSlack widens the insert size bounds by this many percent in
	// the check made before alignment.
	TemplateSlack int
	// TmpConsFromBackbone builds the temporary consensus from rail
	// characters wherever a rail is placed.
	TmpConsFromBackbone bool
	// KeepEndsUnmapped keeps short-read merging this many columns away from
	// both contig ends.
	KeepEndsUnmapped int
	// BackboneUpdateMinCoverage is the read coverage needed before the
	// consensus overrides a rail character; 0 never overrides.
	BackboneUpdateMinCoverage int
	// MaxAttempts bounds the window refinement loop.
	MaxAttempts int
}

// DefaultParams returns settings suited to mixed Sanger and short-read data.
func DefaultParams() *Params {
	long := TypeParams{
		MinOverlap:              17,
		BandWidth:               60,
		MinRelScore:             70,
		MinRelScoreWithMate:     60,
		MaxRelScoreDrop:         15,
		MaxRelScoreDropWithMate: 25,
	}
	short := TypeParams{
		MinOverlap:              20,
		BandWidth:               10,
		EnforceCleanEnds:        true,
		MinRelScore:             90,
		MinRelScoreWithMate:     80,
		MaxRelScoreDrop:         10,
		MaxRelScoreDropWithMate: 15,
		ShortReadRules:          true,
		ShortReadMaxMismatches:  3,
		ShortReadMaxGaps:        1,
		ShortReadMinEndMatch:    3,
		MergeShortReads:         true,
		MergeMaxMismatches:      1,
		MergeMaxGaps:            0,
	}

	p := &Params{
		TemplateSlack:             25,
		TmpConsFromBackbone:       true,
		BackboneUpdateMinCoverage: 3,
		MaxAttempts:               5,
	}
	for t := range p.Types {
		p.Types[t] = long
	}
	p.Types[readpool.PacBioLQ].MinRelScore = 60
	p.Types[readpool.PacBioLQ].BandWidth = 120
	p.Types[readpool.Solexa] = short
	p.Types[readpool.SOLiD] = short
	return p
}

// alignParams derives the first alignment attempt for a read of type t.
func (p *Params) alignParams(t readpool.SeqType, hint int) alignment.Params {
	tp := p.Types[t]
	ap := alignment.DefaultParams()
	ap.BandWidth = tp.BandWidth
	ap.OffsetHint = hint
	ap.EnforceCleanEnds = tp.EnforceCleanEnds
	ap.MinOverlap = tp.MinOverlap
	return ap
}

func (p *Params) attempts() int {
	if p.MaxAttempts < 1 {
		return 5
	}
	return p.MaxAttempts
}
