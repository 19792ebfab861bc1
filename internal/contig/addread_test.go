package contig

import (
	"errors"
	"testing"

	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireRejected checks that err is a rejection with one of codes and
// that the contig did not change.
func requireRejected(t *testing.T, f *fixture, before snapshot, err error, codes ...Code) *Rejection {
	t.Helper()
	rej, ok := AsRejection(err)
	require.True(t, ok, "want rejection, got %v", err)
	require.Contains(t, codes, rej.Code, "got %s", rej.Code)
	assert.False(t, IsFatal(err))
	assert.Equal(t, before, f.snapshot())
	return rej
}

func TestAddReadRejections(t *testing.T) {
	tests := []struct {
		name     string
		params   func(p *Params)
		setup    func(f *fixture) (OverlapHint, ForceGrow)
		codes    []Code
		affected []int
	}{
		{
			name: "already placed",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				f.seed(r1)
				return OverlapHint{RefID: r1, NewID: r1}, DontCare
			},
			codes: []Code{NotAttempted},
		},
		{
			name: "unknown reference",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.add("r2", "ACGTACGTAC")
				f.seed(r1)
				return OverlapHint{RefID: 42, NewID: r2, Direction: 1}, DontCare
			},
			codes: []Code{NotAttempted},
		},
		{
			name: "clipped to nothing",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.addRead(&readpool.Read{Name: "r2", Bases: []byte("ACGT"), LeftClip: 2, RightClip: 2})
				f.seed(r1)
				return OverlapHint{RefID: r1, NewID: r2, Direction: 1}, DontCare
			},
			codes: []Code{ZeroLength},
		},
		{
			name: "no usable alignment",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.add("r2", "CCCCCCCCCC")
				f.seed(r1)
				return f.hint(r1, r2, 0, 0, 1, 100), DontCare
			},
			codes:    []Code{NoAlignment, AlignmentRejectedByMinRelScore, RelativeScoreDrop},
			affected: []int{0},
		},
		{
			name: "reference not allowed",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.addRead(&readpool.Read{Name: "r2", Bases: []byte("ACGTTCGTAC"), AllowedRef: "other"})
				f.seed(r1)
				return f.hint(r1, r2, 0, 0, 1, 75), DontCare
			},
			codes:    []Code{ReferenceIdNotAllowed},
			affected: []int{0},
		},
		{
			name: "repeat marker",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.add("r2", "ACGTTCGTAC")
				f.seed(r1)
				require.NoError(f.t, f.c.AddTag(TagRepeatMarker, 4, 4, ""))
				return f.hint(r1, r2, 0, 0, 1, 75), DontCare
			},
			codes:    []Code{RepeatMaskMismatch},
			affected: []int{0},
		},
		{
			name: "max coverage",
			params: func(p *Params) {
				p.Types[readpool.Sanger].MaxCoverage = 1
			},
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.add("r2", "ACGTTCGTAC")
				f.seed(r1)
				return f.hint(r1, r2, 0, 0, 1, 75), DontCare
			},
			codes:    []Code{MaxCoverageReached},
			affected: []int{0},
		},
		{
			name: "growth required",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", "ACGTACGTAC")
				r2 := f.add("r2", "ACGTTCGTAC")
				f.seed(r1)
				return f.hint(r1, r2, 0, 0, 1, 75), GrowOnly
			},
			codes:    []Code{ForcedGrowthNotReached},
			affected: []int{0},
		},
		{
			name: "growth forbidden",
			setup: func(f *fixture) (OverlapHint, ForceGrow) {
				r1 := f.add("r1", genome[:15])
				r2 := f.add("r2", genome[5:20])
				f.seed(r1)
				return f.hint(r1, r2, 0, 5, 1, 100), NoGrow
			},
			codes:    []Code{GrowthNotAllowed},
			affected: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			if tt.params != nil {
				tt.params(p)
			}
			f := newFixture(t, p)
			h, grow := tt.setup(f)
			before := f.snapshot()

			_, err := f.place(h, grow)
			rej := requireRejected(t, f, before, err, tt.codes...)
			if tt.affected != nil {
				assert.Equal(t, tt.affected, rej.Affected)
			}
		})
	}
}

func TestAddReadRefusesRails(t *testing.T) {
	f := newFixture(t, nil)
	rail := f.addRead(&readpool.Read{Name: "bb", Bases: []byte(genome), Rail: true})

	_, err := f.c.AddRead(Request{Hint: OverlapHint{NewID: rail}})
	rej, ok := AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, NotAttempted, rej.Code)
	assert.Equal(t, 0, f.c.Len())
}

func TestLockedColumnsFlagConflicts(t *testing.T) {
	f := newFixture(t, nil)
	r1 := f.add("r1", "ACGTACGTAC")
	r2 := f.add("r2", "ACGTTCGTAC")
	f.seed(r1)
	require.NoError(t, f.c.LockColumns(4, 5, false))
	require.Error(t, f.c.LockColumns(8, 12, true))

	f.mustPlace(f.hint(r1, r2, 0, 0, 1, 75))

	tags := f.c.Tags()
	require.Len(t, tags, 1)
	assert.Equal(t, TagRepeatMarker, tags[0].ID)
	assert.Equal(t, 4, tags[0].From)
	assert.Equal(t, 4, tags[0].To)
	assert.Contains(t, tags[0].Comment, "r2")
}

// matePair seeds r1 forward at 0 and returns it with a reverse mate
// covering genome[5:20].
func matePair(t *testing.T, tpl readpool.Template) (*fixture, int, int) {
	f := newFixture(t, nil)
	tpl.ID, tpl.Segment = 1, 1
	r1 := f.addRead(&readpool.Read{Name: "t1.f", Bases: []byte(genome[:15]), Template: tpl})
	tpl.Segment = 2
	r2 := f.addRead(&readpool.Read{
		Name:     "t1.r",
		Bases:    sequence.ReverseComplement([]byte(genome[5:20])),
		Template: tpl,
	})
	f.seed(r1)
	require.True(t, f.c.HasTemplate(1))
	return f, r1, r2
}

func TestTemplateChecks(t *testing.T) {
	t.Run("wrong direction", func(t *testing.T) {
		f, r1, r2 := matePair(t, readpool.Template{MaxInsert: 100})
		before := f.snapshot()
		_, err := f.place(f.hint(r1, r2, 0, 5, 1, 100), DontCare)
		rej := requireRejected(t, f, before, err, TemplateWrongDirection)
		assert.Equal(t, []int{r1}, rej.Affected)
	})

	t.Run("too small", func(t *testing.T) {
		f, r1, r2 := matePair(t, readpool.Template{MinInsert: 100})
		before := f.snapshot()
		_, err := f.place(f.hint(r1, r2, 0, 5, -1, 100), DontCare)
		rej := requireRejected(t, f, before, err, TemplateSizeTooSmall)
		assert.Equal(t, []int{r1}, rej.Affected)
	})

	t.Run("too large after alignment", func(t *testing.T) {
		f, r1, r2 := matePair(t, readpool.Template{MaxInsert: 18})
		before := f.snapshot()
		_, err := f.place(f.hint(r1, r2, 0, 5, -1, 100), DontCare)
		requireRejected(t, f, before, err, TemplateSizeTooLarge)
	})

	t.Run("segments out of order", func(t *testing.T) {
		f := newFixture(t, nil)
		tpl := readpool.Template{ID: 1, Segment: 1, SameDirection: true}
		r1 := f.addRead(&readpool.Read{Name: "t1.a", Bases: []byte(genome[5:20]), Template: tpl})
		tpl.Segment = 2
		r2 := f.addRead(&readpool.Read{Name: "t1.b", Bases: []byte(genome[:12]), Template: tpl})
		f.seed(r1)
		before := f.snapshot()

		_, err := f.place(f.hint(r1, r2, 5, 0, 1, 100), DontCare)
		rej := requireRejected(t, f, before, err, SegmentPlacementMismatch)
		assert.Equal(t, []int{r1}, rej.Affected)
	})

	t.Run("fits", func(t *testing.T) {
		f, r1, r2 := matePair(t, readpool.Template{MinInsert: 15, MaxInsert: 25})
		res := f.mustPlace(f.hint(r1, r2, 0, 5, -1, 100))
		require.NotNil(t, res.Template)
		assert.Equal(t, TemplateGuess{MateID: r1, MateDir: 1, InsertSize: 20}, *res.Template)
		assert.Equal(t, genome, string(f.c.Consensus()))
	})
}

func TestRails(t *testing.T) {
	f := newFixture(t, nil)
	rail := f.addRead(&readpool.Read{Name: "bb", Bases: []byte(genome), Rail: true})
	plain := f.add("r1", genome[:10])

	require.Error(t, f.c.AddRail(plain, 0, 1))
	require.NoError(t, f.c.AddRail(rail, 0, 1))
	require.Error(t, f.c.AddRail(rail, 0, 1))

	assert.Equal(t, 20, f.c.Len())
	assert.Equal(t, 0, f.c.NumReads())
	assert.Len(t, f.c.Rails(), 1)
	for i := 0; i < f.c.Len(); i++ {
		col := f.c.Column(i)
		assert.Equal(t, 0, col.Total)
		assert.Equal(t, genome[i], col.OriginalBB)
		assert.Equal(t, genome[i], col.UpdatedBB)
	}
	assert.Equal(t, genome, string(f.c.Consensus()))
}

func TestMergeShortRead(t *testing.T) {
	f := newFixture(t, nil)
	rail := f.addRead(&readpool.Read{Name: "bb", Bases: []byte(genome), Rail: true})
	sr := f.addRead(&readpool.Read{
		Name:    "s1",
		Bases:   []byte(genome[3:13]),
		Quals:   []byte("IIIIIIIIII"),
		SeqType: readpool.Solexa,
		Strain:  2,
	})
	require.NoError(t, f.c.AddRail(rail, 0, 1))

	res, err := f.place(f.hint(rail, sr, 0, 3, 1, 100), DontCare)
	require.NoError(t, err)
	assert.True(t, res.Merged)
	assert.Equal(t, 1, f.c.MergedReads(readpool.Solexa))
	assert.Equal(t, 0, f.c.NumReads())
	_, placed := f.c.Placement(sr)
	assert.False(t, placed)

	for i := 0; i < f.c.Len(); i++ {
		col := f.c.Column(i)
		if i >= 3 && i < 13 {
			assert.Equal(t, 1, col.MergedFwd[readpool.Solexa], "column %d", i)
			assert.Equal(t, byte('I'), col.BestQual[readpool.Solexa])
			assert.Equal(t, uint64(1<<2), col.StrainMask)
		} else {
			assert.Equal(t, 0, col.MergedFwd[readpool.Solexa], "column %d", i)
		}
		assert.Equal(t, 0, col.Total)
	}
}

func TestShortReadPlacedWhenMergeDisabled(t *testing.T) {
	p := testParams()
	p.Types[readpool.Solexa].MergeShortReads = false
	f := newFixture(t, p)
	rail := f.addRead(&readpool.Read{Name: "bb", Bases: []byte(genome), Rail: true})
	sr := f.addRead(&readpool.Read{Name: "s1", Bases: []byte(genome[3:13]), SeqType: readpool.Solexa})
	require.NoError(t, f.c.AddRail(rail, 0, 1))

	res := f.mustPlace(f.hint(rail, sr, 0, 3, 1, 100))
	assert.False(t, res.Merged)
	assert.Equal(t, 3, res.Placement.Offset)
	assert.Equal(t, 1, f.c.NumReads())
	assert.Equal(t, 0, f.c.MergedReads(readpool.Solexa))
	assert.Equal(t, 1, f.c.Column(5).TypeCoverage[readpool.Solexa])

	f.remove(sr)
	assert.Equal(t, 20, f.c.Len())
	assert.Equal(t, 0, f.c.Column(5).Total)
}

func TestMergeZones(t *testing.T) {
	// one mismatch against the rail at column 8
	const mismatched = "TACAGACTTA"
	tests := []struct {
		name   string
		params func(p *Params)
		bases  string
		tag    bool
		merged bool
	}{
		{"clean read merges", nil, genome[3:13], false, true},
		{"kept ends stay unmapped", func(p *Params) { p.KeepEndsUnmapped = 5 }, genome[3:13], false, false},
		{"ends beyond the read", func(p *Params) { p.KeepEndsUnmapped = 3 }, genome[3:13], false, true},
		{"mismatch placed", nil, mismatched, false, false},
		{"mismatch merged in forced zone", nil, mismatched, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			p.Types[readpool.Solexa].MinRelScore = 50
			p.Types[readpool.Solexa].MergeMaxMismatches = 0
			if tt.params != nil {
				tt.params(p)
			}
			f := newFixture(t, p)
			rail := f.addRead(&readpool.Read{Name: "bb", Bases: []byte(genome), Rail: true})
			sr := f.addRead(&readpool.Read{Name: "s1", Bases: []byte(tt.bases), SeqType: readpool.Solexa})
			require.NoError(t, f.c.AddRail(rail, 0, 1))
			if tt.tag {
				require.NoError(t, f.c.AddTag(TagForcedMerge, 0, f.c.Len()-1, ""))
			}

			ratio := 100
			if tt.bases == mismatched {
				ratio = 75
			}
			res := f.mustPlace(f.hint(rail, sr, 0, 3, 1, ratio))
			assert.Equal(t, tt.merged, res.Merged)
			if tt.merged {
				assert.Equal(t, 1, f.c.MergedReads(readpool.Solexa))
				assert.Equal(t, 0, f.c.NumReads())
				return
			}
			assert.Equal(t, 3, res.Placement.Offset)
			assert.Equal(t, 1, f.c.NumReads())
		})
	}
}

// recordingAligner keeps the parameters and window length of every call
// before handing it on.
type recordingAligner struct {
	inner   Aligner
	err     error
	params  []alignment.Params
	windows []int
}

func (a *recordingAligner) Align(p alignment.Params, seq1, seq2 []byte) ([]*alignment.Alignment, error) {
	a.params = append(a.params, p)
	a.windows = append(a.windows, len(seq1))
	if a.err != nil {
		return nil, a.err
	}
	return a.inner.Align(p, seq1, seq2)
}

const longGenome = "GATTACAGGCTTACGAATCCGTAGCATGCAAGTCCTGAGGTACCATTGGACTTCAGCGAT"

func TestAlignWindowRefinement(t *testing.T) {
	tests := []struct {
		name        string
		params      func(p *Params)
		ref         string
		read        string
		newOffset   int
		offset      int
		weight      int
		bandWidths  []int
		offsetHints []int
		windows     []int
	}{
		{
			// the hint is 15 columns late; the first window only catches
			// the read's last 7 bases and is widened by 13+7 on the left
			name:        "widens towards the read",
			ref:         longGenome,
			read:        longGenome[30:50],
			newOffset:   45,
			offset:      30,
			weight:      20,
			bandWidths:  []int{60, 60},
			offsetHints: []int{2, 22},
			windows:     []int{17, 37},
		},
		{
			name:        "attempt cap keeps the best alignment",
			params:      func(p *Params) { p.MaxAttempts = 1 },
			ref:         longGenome,
			read:        longGenome[30:50],
			newOffset:   45,
			offset:      30,
			weight:      7,
			bandWidths:  []int{60},
			offsetHints: []int{2},
			windows:     []int{17},
		},
		{
			name: "band overflow retries wider",
			params: func(p *Params) {
				p.Types[readpool.Sanger].BandWidth = 2
			},
			ref:         longGenome[:30],
			read:        longGenome[5:20],
			newOffset:   7,
			offset:      5,
			weight:      15,
			bandWidths:  []int{2, 4},
			offsetHints: []int{2, 2},
			windows:     []int{25, 25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testParams()
			if tt.params != nil {
				tt.params(p)
			}
			rec := &recordingAligner{inner: alignment.NewBanded()}
			f := newFixtureWith(t, p, rec)
			r1 := f.add("r1", tt.ref)
			r2 := f.add("r2", tt.read)
			f.seed(r1)

			res := f.mustPlace(f.hint(r1, r2, 0, tt.newOffset, 1, 100))
			assert.Equal(t, tt.offset, res.Placement.Offset)
			assert.Equal(t, 0, res.GrowLeft+res.GrowRight)
			assert.Equal(t, tt.weight, res.Alignment.Weight)
			assert.Equal(t, len(tt.ref), f.c.Len())

			var bands, hints []int
			for _, ap := range rec.params {
				bands = append(bands, ap.BandWidth)
				hints = append(hints, ap.OffsetHint)
			}
			assert.Equal(t, tt.bandWidths, bands)
			assert.Equal(t, tt.offsetHints, hints)
			assert.Equal(t, tt.windows, rec.windows)
		})
	}
}

func TestAlignerErrorNamesAffectedReads(t *testing.T) {
	failure := errors.New("aligner out of memory")
	rec := &recordingAligner{inner: alignment.NewBanded()}
	f := newFixtureWith(t, nil, rec)
	r1 := f.add("r1", genome[:15])
	r2 := f.add("r2", genome[5:20])
	f.seed(r1)
	before := f.snapshot()

	rec.err = failure
	_, err := f.place(f.hint(r1, r2, 0, 5, 1, 100), DontCare)
	rej := requireRejected(t, f, before, err, Unspecified)
	assert.Equal(t, []int{r1}, rej.Affected)
	assert.ErrorIs(t, err, failure)
}

func TestRelativeScore(t *testing.T) {
	tp := DefaultParams().Types[readpool.Sanger]
	tests := []struct {
		name     string
		hint     int
		ratio    int
		withMate bool
		want     Code
	}{
		{"good", 95, 90, false, NoError},
		{"below minimum", 70, 65, false, AlignmentRejectedByMinRelScore},
		{"mate lowers minimum", 70, 65, true, NoError},
		{"drop too large", 100, 80, false, RelativeScoreDrop},
		{"mate tolerates drop", 100, 80, true, NoError},
		{"better than hint", 80, 100, false, NoError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &alignment.Alignment{ScoreRatio: tt.ratio}
			assert.Equal(t, tt.want, relativeScore(tp, tt.hint, a, tt.withMate))
		})
	}
}

func TestShortReadRules(t *testing.T) {
	tp := DefaultParams().Types[readpool.Solexa]
	tests := []struct {
		name string
		aln  alignment.Alignment
		want bool
	}{
		{"clean", alignment.Alignment{Match5: 10, Match3: 10}, true},
		{"too many mismatches", alignment.Alignment{Mismatches: 4, Match5: 5, Match3: 5}, false},
		{"too many gaps", alignment.Alignment{Gaps: 2, Match5: 5, Match3: 5}, false},
		{"dirty start", alignment.Alignment{Mismatches: 1, Match5: 2, Match3: 5}, false},
		{"dirty end", alignment.Alignment{Mismatches: 1, Match5: 5, Match3: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shortReadRules(tp, &tt.aln))
		})
	}

	assert.True(t, shortReadRules(DefaultParams().Types[readpool.Sanger], &alignment.Alignment{Mismatches: 50}))
}
