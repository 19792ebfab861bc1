// Package contigflow provides a high-level API for building contigs from
// sequencing reads.
//
// Reads are loaded into bins, one bin per input file. Each bin is assembled
// independently and yields a report holding its contigs and their
// consensus sequences.
//
// Example usage:
//
//	bin, err := contigflow.ReadBin("reads.fa", contigflow.Sanger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	reports, err := contigflow.Assemble(ctx, []contigflow.Bin{bin}, contigflow.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = contigflow.WriteConsensusFASTA(os.Stdout, reports)
package contigflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aria-lang/contigflow/internal/alignment"
	"github.com/aria-lang/contigflow/internal/assembly"
	"github.com/aria-lang/contigflow/internal/contig"
	"github.com/aria-lang/contigflow/internal/kmer"
	"github.com/aria-lang/contigflow/internal/quality"
	"github.com/aria-lang/contigflow/internal/readpool"
	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/aria-lang/contigflow/internal/stats"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"
)

// Re-export types for convenience
type (
	Read           = readpool.Read
	Pool           = readpool.Pool
	SeqType        = readpool.SeqType
	Contig         = contig.Contig
	Params         = contig.Params
	Options        = assembly.Options
	Bin            = assembly.Bin
	Report         = assembly.Report
	ContigResult   = assembly.ContigResult
	Overlap        = alignment.Overlap
	Sequence       = sequence.Sequence
	ContigSetStats = stats.ContigSetStats
	Histogram      = stats.LengthHistogram
	KMerCounter    = kmer.Counter
	Filter         = quality.Filter
)

// Sequencing types
const (
	Sanger       = readpool.Sanger
	FourFiveFour = readpool.FourFiveFour
	IonTorrent   = readpool.IonTorrent
	PacBioHQ     = readpool.PacBioHQ
	PacBioLQ     = readpool.PacBioLQ
	Text         = readpool.Text
	Solexa       = readpool.Solexa
	SOLiD        = readpool.SOLiD
)

// FASTA line width of written consensus sequences.
const lineWidth = 60

// DefaultOptions returns the built-in assembly options.
func DefaultOptions() Options {
	return assembly.DefaultOptions()
}

// DefaultFilter returns the default quality clip settings.
func DefaultFilter() *Filter {
	return quality.DefaultFilter()
}

// ParseSeqType maps a sequencing type name such as "sanger" or "solexa" to
// its SeqType.
func ParseSeqType(name string) (SeqType, error) {
	return readpool.ParseSeqType(name)
}

// ParsePhred33 decodes a Phred+33 quality string into raw Phred values.
func ParsePhred33(encoded string) ([]byte, error) {
	scores, err := quality.FromPhred33(encoded)
	if err != nil {
		return nil, err
	}
	return scores.Bytes(), nil
}

// ClipRange returns the half-open range of a Phred+33 quality string that
// survives quality clipping. keep is false when the range is shorter than
// the filter's minimum length.
func ClipRange(encoded string, f *Filter) (left, right int, keep bool, err error) {
	scores, err := quality.FromPhred33(encoded)
	if err != nil {
		return 0, 0, false, err
	}
	left, right, keep = f.Clip(scores)
	return left, right, keep, nil
}

// NewBin creates an empty bin.
func NewBin(name string) Bin {
	return Bin{Name: name, Pool: readpool.New()}
}

// ParseFASTA adds the sequences of a FASTA stream to pool as reads of type
// st. It returns the number of reads added.
func ParseFASTA(r io.Reader, pool *Pool, st SeqType) (int, error) {
	t := linear.NewSeq("", nil, alphabet.DNA)
	sc := seqio.NewScanner(fasta.NewReader(r, t))

	n := 0
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		read := &Read{
			Name:    s.Name(),
			Bases:   alphabet.LettersToBytes(s.Seq),
			SeqType: st,
		}
		if _, err := pool.Add(read); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Error(); err != nil {
		return n, fmt.Errorf("reading FASTA: %w", err)
	}
	return n, nil
}

// ParseFASTQ adds the records of a Sanger-encoded FASTQ stream to pool as
// reads of type st, keeping their Phred qualities.
func ParseFASTQ(r io.Reader, pool *Pool, st SeqType) (int, error) {
	t := linear.NewQSeq("", nil, alphabet.DNA, alphabet.Sanger)
	sc := seqio.NewScanner(fastq.NewReader(r, t))

	n := 0
	for sc.Next() {
		s := sc.Seq().(*linear.QSeq)
		bases := make([]byte, len(s.Seq))
		quals := make([]byte, len(s.Seq))
		for i, ql := range s.Seq {
			bases[i] = byte(ql.L)
			quals[i] = byte(ql.Q)
		}
		read := &Read{Name: s.Name(), Bases: bases, Quals: quals, SeqType: st}
		if _, err := pool.Add(read); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Error(); err != nil {
		return n, fmt.Errorf("reading FASTQ: %w", err)
	}
	return n, nil
}

// IsFASTQ reports whether filename names a FASTQ file.
func IsFASTQ(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".fq", ".fastq":
		return true
	}
	return false
}

// ReadFASTA reads the sequences of a FASTA file into a new pool.
func ReadFASTA(filename string, st SeqType) (*Pool, error) {
	return readFile(filename, st, ParseFASTA)
}

// ReadFASTQ reads the records of a FASTQ file into a new pool.
func ReadFASTQ(filename string, st SeqType) (*Pool, error) {
	return readFile(filename, st, ParseFASTQ)
}

func readFile(filename string, st SeqType, parse func(io.Reader, *Pool, SeqType) (int, error)) (*Pool, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	pool := readpool.New()
	if _, err := parse(file, pool, st); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return pool, nil
}

// ReadBin loads a FASTA or FASTQ file, chosen by extension, as one bin named
// after the file.
func ReadBin(filename string, st SeqType) (Bin, error) {
	read := ReadFASTA
	if IsFASTQ(filename) {
		read = ReadFASTQ
	}
	pool, err := read(filename, st)
	if err != nil {
		return Bin{}, err
	}
	base := filepath.Base(filename)
	return Bin{Name: strings.TrimSuffix(base, filepath.Ext(base)), Pool: pool}, nil
}

// Assemble assembles the bins in parallel.
func Assemble(ctx context.Context, bins []Bin, opts Options) ([]*Report, error) {
	return assembly.AssembleBins(ctx, bins, opts)
}

// Consensus returns the consensus sequence of every contig in the reports.
func Consensus(reports []*Report) ([]*Sequence, error) {
	var out []*Sequence
	for _, r := range reports {
		for _, c := range r.Contigs {
			s, err := sequence.WithID(string(c.Consensus), c.Name())
			if err != nil {
				return nil, fmt.Errorf("contig %s: %w", c.Name(), err)
			}
			s.Description = fmt.Sprintf("reads=%d len=%d", len(c.Reads), len(c.Consensus))
			out = append(out, s)
		}
	}
	return out, nil
}

// ConsensusStats summarises the consensus sequences of all reports. It
// returns nil when no contig was built.
func ConsensusStats(reports []*Report) (*ContigSetStats, error) {
	seqs, err := Consensus(reports)
	if err != nil || len(seqs) == 0 {
		return nil, err
	}
	return stats.FromSequences(seqs)
}

// LengthHistogram bins the consensus lengths of all reports. It returns nil
// when no contig was built.
func LengthHistogram(reports []*Report, numBins int) (*Histogram, error) {
	var lengths []int
	for _, r := range reports {
		for _, c := range r.Contigs {
			lengths = append(lengths, len(c.Consensus))
		}
	}
	if len(lengths) == 0 {
		return nil, nil
	}
	return stats.NewLengthHistogram(lengths, numBins)
}

// WriteConsensusFASTA writes the consensus of every contig as FASTA.
func WriteConsensusFASTA(w io.Writer, reports []*Report) error {
	seqs, err := Consensus(reports)
	if err != nil {
		return err
	}
	fw := fasta.NewWriter(w, lineWidth)
	for _, s := range seqs {
		ls := linear.NewSeq(s.ID, alphabet.BytesToLetters([]byte(s.Bases)), alphabet.DNA)
		ls.Desc = s.Description
		if _, err := fw.Write(ls); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}
	return nil
}

// WriteFASTA writes the consensus sequences to a FASTA file.
func WriteFASTA(filename string, reports []*Report) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := WriteConsensusFASTA(file, reports); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// AlignOverlap computes the best overlap of seq2 against seq1 in either
// orientation. It returns nil when the sequences overlap by fewer than
// minOverlap positions or no overlap reaches a score ratio of minScoreRatio
// percent.
func AlignOverlap(seq1, seq2 string, minOverlap, minScoreRatio int) (*Overlap, error) {
	s1, err := sequence.New(seq1)
	if err != nil {
		return nil, fmt.Errorf("sequence1: %w", err)
	}
	s2, err := sequence.New(seq2)
	if err != nil {
		return nil, fmt.Errorf("sequence2: %w", err)
	}
	p := alignment.DefaultParams()
	p.MinOverlap = minOverlap
	p.MinScoreRatio = minScoreRatio
	return alignment.NewBanded().Overlap(p, []byte(s1.Bases), []byte(s2.Bases))
}

// KmerDistance calculates the Jaccard distance between the canonical k-mer
// sets of two sequences.
func KmerDistance(seq1, seq2 string, k int) (float64, error) {
	c1, err := kmer.CountKMers([]byte(seq1), k)
	if err != nil {
		return 0, err
	}
	c2, err := kmer.CountKMers([]byte(seq2), k)
	if err != nil {
		return 0, err
	}
	return kmer.JaccardDistance(c1, c2)
}

// CountKmers counts the canonical k-mers of all clipped reads in a pool.
func CountKmers(pool *Pool, k int) (*KMerCounter, error) {
	total, err := kmer.NewCounter(k)
	if err != nil {
		return nil, err
	}
	for _, r := range pool.Reads() {
		c, err := kmer.CountKMers(r.Clipped(), k)
		if err != nil {
			return nil, err
		}
		if err := total.Merge(c); err != nil {
			return nil, err
		}
	}
	return total, nil
}

// Version returns the contigflow version.
func Version() string {
	return "1.0.0"
}

// Info returns information about contigflow.
func Info() string {
	return fmt.Sprintf(`contigflow v%s - Incremental contig building and consensus

Features:
  - Banded ends-free overlap alignment
  - Incremental read placement with per-column coverage
  - Template (mate pair) distance and orientation checks
  - Short read merging into consensus counters
  - Reference rails for mapping assemblies
  - Consensus with IUPAC ambiguity codes
  - FASTA/FASTQ input, FASTA consensus output
`, Version())
}
