package assembly

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/stats"
)

// ContigResult is one finished contig.
type ContigResult struct {
	Contig *contig.Contig
	// Consensus is the ungapped consensus.
	Consensus []byte
	// Reads names the placed reads and rails, in placement order.
	Reads    []string
	Merged   int
	Coverage *stats.Coverage
}

// Name returns the contig name.
func (r *ContigResult) Name() string {
	return r.Contig.Name
}

// Report summarises the assembly of one bin.
type Report struct {
	Bin     string
	Contigs []*ContigResult
	// Singlets names the reads that ended up in no contig.
	Singlets []string
	// Rejections counts refused placements by reason.
	Rejections map[contig.Code]int
	// Abandoned counts contigs dropped after an internal inconsistency.
	Abandoned int
	// Stats is nil when no contig was built.
	Stats *stats.ContigSetStats
	Reads *stats.ReadSetStats
}

func newReport(bin string) *Report {
	return &Report{Bin: bin, Rejections: make(map[contig.Code]int)}
}

// finish computes the contig set statistics.
func (r *Report) finish() {
	if len(r.Contigs) == 0 {
		return
	}
	lengths := make([]int, len(r.Contigs))
	for i, c := range r.Contigs {
		lengths[i] = len(c.Consensus)
	}
	r.Stats, _ = stats.FromLengths(lengths)
}

func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "bin %s: %d contigs, %d singlets, %d abandoned\n",
		r.Bin, len(r.Contigs), len(r.Singlets), r.Abandoned)
	for _, c := range r.Contigs {
		fmt.Fprintf(&b, "  %s: %d bp, %d reads, %d merged, %s\n",
			c.Name(), len(c.Consensus), len(c.Reads), c.Merged, c.Coverage)
	}
	if r.Stats != nil {
		fmt.Fprintf(&b, "  N50 %d, total %d bp\n", r.Stats.N50, r.Stats.TotalBases)
	}

	codes := make([]contig.Code, 0, len(r.Rejections))
	for code := range r.Rejections {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		fmt.Fprintf(&b, "  rejected %s: %d\n", code, r.Rejections[code])
	}
	return b.String()
}
