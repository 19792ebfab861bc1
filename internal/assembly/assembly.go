package assembly

import (
	"context"
	"fmt"
	"sort"

	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/kmer"
	"github.com/aria-lang/contigflow/internal/quality"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/aria-lang/contigflow/internal/stats"
	"github.com/exascience/pargo/parallel"
	"github.com/grailbio/base/log"
)

type readState int

const (
	unused readState = iota
	placed
	merged
	singlet
)

type assembler struct {
	bin     Bin
	opts    Options
	pool    *readpool.Pool
	aligner *alignment.Banded
	index   *kmer.Index
	// order lists the assemblable reads, longest first.
	order  []int
	rails  []int
	state  []readState
	report *Report
	seq    int
}

// Assemble builds the contigs of one bin.
func Assemble(ctx context.Context, bin Bin, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a, err := newAssembler(bin, opts)
	if err != nil {
		return nil, err
	}
	return a.run(ctx)
}

// AssembleBins assembles every bin, several at a time. Each bin gets its own
// aligner and contigs; reports come back in bin order.
func AssembleBins(ctx context.Context, bins []Bin, opts Options) ([]*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(bins) == 0 {
		return nil, nil
	}

	reports := make([]*Report, len(bins))
	errs := make([]error, len(bins))
	parallel.Range(0, len(bins), opts.Workers, func(low, high int) {
		for i := low; i < high; i++ {
			reports[i], errs[i] = Assemble(ctx, bins[i], opts)
		}
	})
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", bins[i].Name, err)
		}
	}
	return reports, nil
}

func newAssembler(bin Bin, opts Options) (*assembler, error) {
	if bin.Pool == nil {
		return nil, fmt.Errorf("bin %s has no reads", bin.Name)
	}
	ix, err := kmer.NewIndex(opts.KmerSize, opts.MaxKmerPostings)
	if err != nil {
		return nil, err
	}
	a := &assembler{
		bin:     bin,
		opts:    opts,
		pool:    bin.Pool,
		aligner: alignment.NewBanded(),
		index:   ix,
		state:   make([]readState, bin.Pool.Len()),
		report:  newReport(bin.Name),
	}

	for _, r := range bin.Pool.Reads() {
		switch {
		case r.IsReference():
			a.rails = append(a.rails, r.ID)
		case !a.clip(r) || r.UngappedLen() < opts.KmerSize:
			a.state[r.ID] = singlet
			continue
		default:
			a.order = append(a.order, r.ID)
		}
		if err := ix.Add(r.ID, sequence.Ungap(r.Clipped())); err != nil {
			return nil, err
		}
	}
	sort.SliceStable(a.order, func(i, j int) bool {
		ri, _ := bin.Pool.Read(a.order[i])
		rj, _ := bin.Pool.Read(a.order[j])
		return ri.UngappedLen() > rj.UngappedLen()
	})
	return a, nil
}

// clip applies the quality filter to a read carrying qualities. It reports
// false when too little of the read survives.
func (a *assembler) clip(r *readpool.Read) bool {
	if a.opts.Clip == nil || len(r.Quals) == 0 {
		return true
	}
	scores, err := quality.FromBytes(r.Quals)
	if err != nil {
		log.Debug.Printf("%s: read %s keeps its clips: %v", a.bin.Name, r.Name, err)
		return true
	}
	left, right, ok := a.opts.Clip.Clip(scores)
	if !ok {
		return false
	}
	if left < r.LeftClip {
		left = r.LeftClip
	}
	if right > r.RightClip {
		right = r.RightClip
	}
	if left >= right {
		return false
	}
	return a.pool.SetClips(r.ID, left, right) == nil
}

func (a *assembler) run(ctx context.Context) (*Report, error) {
	log.Printf("%s: assembling %d reads, %d rails", a.bin.Name, len(a.order), len(a.rails))
	for _, id := range a.rails {
		if err := a.grow(ctx, id, true); err != nil {
			return nil, err
		}
	}
	for {
		seed := a.nextSeed()
		if seed < 0 {
			break
		}
		if err := a.grow(ctx, seed, false); err != nil {
			return nil, err
		}
	}

	for _, r := range a.pool.Reads() {
		if !r.IsReference() && (a.state[r.ID] == singlet || a.state[r.ID] == unused) {
			a.report.Singlets = append(a.report.Singlets, r.Name)
		}
	}
	if a.pool.Len() > 0 {
		a.report.Reads, _ = stats.FromReads(a.pool.Reads())
	}
	a.report.finish()
	log.Printf("%s: %d contigs, %d singlets", a.bin.Name, len(a.report.Contigs), len(a.report.Singlets))
	return a.report, nil
}

func (a *assembler) nextSeed() int {
	for _, id := range a.order {
		if a.state[id] == unused {
			return id
		}
	}
	return -1
}

// grow builds one contig from a seed read or rail.
func (a *assembler) grow(ctx context.Context, seed int, rail bool) error {
	a.seq++
	name := fmt.Sprintf("%s_contig%d", a.bin.Name, a.seq)
	c := contig.New(name, a.opts.Params, a.pool, a.aligner)

	if rail {
		if err := c.AddRail(seed, 0, 1); err != nil {
			return fmt.Errorf("contig %s: %w", name, err)
		}
	} else if _, err := c.AddRead(contig.Request{Hint: contig.OverlapHint{NewID: seed}}); err != nil {
		a.state[seed] = singlet
		a.count(err)
		return nil
	}
	a.state[seed] = placed

	members := []int{seed}
	var folded []int
	queue := []int{seed}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		ref := queue[0]
		queue = queue[1:]

		for _, cand := range a.index.Candidates(ref, a.opts.MinSharedKmers) {
			if a.state[cand.ID] != unused {
				continue
			}
			res, err := a.offer(c, ref, cand.ID)
			switch {
			case contig.IsFatal(err):
				log.Error.Printf("%s: abandoning contig %s: %v", a.bin.Name, name, err)
				a.abandon(seed, rail, append(members, folded...))
				return nil
			case err != nil:
				if _, ok := contig.AsRejection(err); !ok {
					return fmt.Errorf("contig %s: %w", name, err)
				}
				a.count(err)
				log.Debug.Printf("%s: read %d refused against %d: %v", name, cand.ID, ref, err)
			case res.Merged:
				a.state[cand.ID] = merged
				folded = append(folded, cand.ID)
			default:
				a.state[cand.ID] = placed
				members = append(members, cand.ID)
				queue = append(queue, cand.ID)
			}
		}
	}

	if !rail && len(members) == 1 {
		a.state[seed] = singlet
		return nil
	}
	a.keep(c, members, len(folded))
	return nil
}

// offer computes the pairwise overlap of a candidate with a placed read
// and asks the contig to place the candidate.
func (a *assembler) offer(c *contig.Contig, ref, id int) (*contig.Result, error) {
	refRead, _ := a.pool.Read(ref)
	newRead, _ := a.pool.Read(id)
	refSeq := sequence.Ungap(refRead.Clipped())
	newSeq := sequence.Ungap(newRead.Clipped())

	tp := a.opts.Params.Types[newRead.SeqType]
	p := alignment.DefaultParams()
	p.MinOverlap = tp.MinOverlap
	p.MinScoreRatio = tp.MinRelScoreWithMate
	o, err := a.aligner.Overlap(p, refSeq, newSeq)
	if err != nil {
		return nil, &contig.Rejection{Code: contig.Unspecified, Cause: err}
	}
	if o == nil {
		return nil, &contig.Rejection{Code: contig.NoAlignment}
	}
	h := contig.HintFromOverlap(ref, id, len(refSeq), len(newSeq), o)
	return c.AddRead(contig.Request{Hint: h})
}

func (a *assembler) count(err error) {
	if rej, ok := contig.AsRejection(err); ok {
		a.report.Rejections[rej.Code]++
	}
}

// abandon releases the reads of a corrupt contig. The seed is not offered
// again so the bin cannot loop on it.
func (a *assembler) abandon(seed int, rail bool, ids []int) {
	for _, id := range ids {
		if err := a.pool.Ungap(id); err != nil {
			log.Error.Printf("%s: releasing read %d: %v", a.bin.Name, id, err)
		}
		if id == seed {
			if !rail {
				a.state[id] = singlet
			}
			continue
		}
		a.state[id] = unused
	}
	a.report.Abandoned++
}

func (a *assembler) keep(c *contig.Contig, members []int, folded int) {
	c.Finalise()
	res := &ContigResult{
		Contig:    c,
		Consensus: c.UngappedConsensus(),
		Merged:    folded,
		Coverage:  stats.CoverageSummary(c.Columns()),
	}
	for _, id := range members {
		r, _ := a.pool.Read(id)
		res.Reads = append(res.Reads, r.Name)
	}
	a.report.Contigs = append(a.report.Contigs, res)
}
