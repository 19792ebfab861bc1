package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aria-lang/contigflow/internal/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genome = "GATTACAGGCTTACGAATCCGTAGCATGCAAGTCCTGAGGTACCATTGGACTTCAGCGAT"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAssembleCommand(t *testing.T) {
	dir := t.TempDir()
	reads := filepath.Join(dir, "sample.fa")
	require.NoError(t, os.WriteFile(reads, []byte(
		">r0\n"+genome[0:30]+"\n"+
			">r1\n"+string(sequence.ReverseComplement([]byte(genome[15:45])))+"\n"+
			">r2\n"+genome[30:60]+"\n"), 0o644))
	cfg := filepath.Join(dir, "contigflow.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("types:\n  sanger:\n    min-overlap: 10\nassembly:\n  kmer-size: 8\n"), 0o644))

	out, summary, err := run(t, "assemble", "--config", cfg, "-i", reads, "--hist-bins", "2")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, ">sample_contig1 reads=3 len=60\n"), out)
	assert.Contains(t, out, genome)
	assert.Contains(t, summary, "bin sample: 1 contigs, 0 singlets")
	assert.Contains(t, summary, "Length Histogram")
}

func TestAlignCommand(t *testing.T) {
	out, _, err := run(t, "align", "--seq1", genome[0:30], "--seq2", genome[15:45], "--min-overlap", "10", "-k", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Overlap { dir: +1")
	assert.Contains(t, out, "Score ratio: 100%")
	assert.Contains(t, out, "K-mer distance (k=5)")

	out, _, err = run(t, "align", "--seq1", genome[0:20], "--seq2", genome[10:30], "--min-overlap", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "No overlap of at least 15 positions scoring 70%")

	_, _, err = run(t, "align", "--seq1", "ACGT", "--seq2", "AC?T")
	require.Error(t, err)
}

func TestKmerCommand(t *testing.T) {
	reads := filepath.Join(t.TempDir(), "k.fa")
	require.NoError(t, os.WriteFile(reads, []byte(">a\nACGTT\n>b\nACGTT\n"), 0o644))

	out, _, err := run(t, "kmer", "-i", reads, "-k", "5", "-n", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "2 reads")
	assert.Contains(t, out, "1. AACGT: 2")

	out, _, err = run(t, "kmer", "-i", reads, "-k", "5", "--count", "acgtt,GGGGG")
	require.NoError(t, err)
	assert.Contains(t, out, "acgtt: 2\n")
	assert.Contains(t, out, "GGGGG: 0\n")

	_, _, err = run(t, "kmer", "-i", reads, "-k", "5", "--count", "ACG")
	require.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "contigflow v1.0.0")
}
