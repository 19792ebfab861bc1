// Package assembly drives contig construction for bins of reads. Each bin
// is assembled greedily: the longest unused read seeds a contig, and reads
// sharing k-mers with placed reads are offered to it until no candidate
// fits. Bins are independent and run in parallel.
package assembly

import (
	"fmt"

	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/quality"
	"github.com/aria-lang/contigflow/internal/readpool"
)

// Options tunes the assembly driver.
type Options struct {
	// Params is shared read-only by all bins.
	Params *contig.Params

	// KmerSize, MinSharedKmers and MaxKmerPostings configure the prefilter
	// that picks read pairs for overlap alignment.
	KmerSize        int
	MinSharedKmers  int
	MaxKmerPostings int

	// Clip derives clips from read qualities before assembly; nil keeps
	// the clips the reads came with.
	Clip *quality.Filter

	// Workers bounds the number of bins assembled at once; 0 lets the
	// runtime decide.
	Workers int
}

// DefaultOptions returns the driver defaults.
func DefaultOptions() Options {
	return Options{
		Params:          contig.DefaultParams(),
		KmerSize:        11,
		MinSharedKmers:  2,
		MaxKmerPostings: 200,
		Clip:            quality.DefaultFilter(),
	}
}

// Validate checks the options for values the driver cannot work with.
func (o Options) Validate() error {
	if o.Params == nil {
		return fmt.Errorf("contig parameters are required")
	}
	if o.KmerSize < 1 || o.KmerSize > 32 {
		return fmt.Errorf("k-mer size %d outside [1, 32]", o.KmerSize)
	}
	if o.MinSharedKmers < 1 {
		return fmt.Errorf("minimum shared k-mers must be positive")
	}
	if o.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	return nil
}

// Bin is a set of reads assembled independently of all other bins. The
// driver owns the pool for the duration of the assembly.
type Bin struct {
	Name string
	Pool *readpool.Pool
}
