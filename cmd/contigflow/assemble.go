package main

import (
	"fmt"
	"io"

	"github.com/aria-lang/contigflow/internal/config"
	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	inputPaths []string
	outputPath string
	readType   string
	histBins   int
)

// assembleCmd represents the assemble command
var assembleCmd = &cobra.Command{
	Use:   "assemble",
	Short: "Assemble reads into contigs and write their consensus",
	Long: `Assemble reads into contigs and write their consensus

Every input file is one bin. Bins are assembled independently and in
parallel; FASTQ files (.fq, .fastq) keep their qualities, which are used to
clip low quality read ends. The consensus of every contig is written as
FASTA, and a summary per bin goes to stderr.`,
	RunE: runAssemble,
}

func init() {
	rootCmd.AddCommand(assembleCmd)

	// Flags for specifying the paths to the input files and output file
	assembleCmd.Flags().StringSliceVarP(&inputPaths, "input", "i", nil, "FASTA or FASTQ file of reads, one per bin (repeatable)")
	assembleCmd.Flags().StringVarP(&outputPath, "output", "o", "", "consensus FASTA file (default stdout)")
	assembleCmd.Flags().StringVarP(&readType, "type", "t", "sanger", "sequencing type of the reads")
	assembleCmd.Flags().IntVar(&histBins, "hist-bins", 10, "bins of the contig length histogram")
	assembleCmd.Flags().IntP("workers", "w", 0, "bins assembled at once (0: one per CPU)")
	assembleCmd.Flags().IntP("kmer", "k", 0, "k-mer size of the overlap prefilter")
	assembleCmd.MarkFlagRequired("input")

	// Bind the parameters to viper
	viper.BindPFlag("assembly.workers", assembleCmd.Flags().Lookup("workers"))
	viper.BindPFlag("assembly.kmer-size", assembleCmd.Flags().Lookup("kmer"))
}

func runAssemble(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return err
	}
	st, err := contigflow.ParseSeqType(readType)
	if err != nil {
		return err
	}

	bins := make([]contigflow.Bin, len(inputPaths))
	for i, path := range inputPaths {
		if bins[i], err = contigflow.ReadBin(path, st); err != nil {
			return err
		}
		log.Printf("loaded %d reads from %s", bins[i].Pool.Len(), path)
	}

	reports, err := contigflow.Assemble(cmd.Context(), bins, cfg.AssemblyOptions())
	if err != nil {
		return fmt.Errorf("assembly failed: %w", err)
	}

	if err := writeConsensus(cmd.OutOrStdout(), reports); err != nil {
		return err
	}
	return summarize(cmd.ErrOrStderr(), reports)
}

func writeConsensus(stdout io.Writer, reports []*contigflow.Report) error {
	if outputPath == "" {
		return contigflow.WriteConsensusFASTA(stdout, reports)
	}
	if err := contigflow.WriteFASTA(outputPath, reports); err != nil {
		return err
	}
	log.Printf("wrote consensus to %s", outputPath)
	return nil
}

func summarize(w io.Writer, reports []*contigflow.Report) error {
	for _, r := range reports {
		fmt.Fprint(w, r)
	}

	st, err := contigflow.ConsensusStats(reports)
	if err != nil {
		return err
	}
	if st == nil {
		fmt.Fprintln(w, "no contigs built")
		return nil
	}
	fmt.Fprintln(w, st)

	h, err := contigflow.LengthHistogram(reports, histBins)
	if err != nil {
		return err
	}
	fmt.Fprint(w, h)
	return nil
}
