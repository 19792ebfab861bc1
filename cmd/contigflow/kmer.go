package main

import (
	"fmt"
	"strings"

	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/spf13/cobra"
)

var (
	kmerInput string
	kmerSize  int
	kmerTop   int
	kmerQuery []string
)

var kmerCmd = &cobra.Command{
	Use:   "kmer",
	Short: "Count canonical k-mers over the reads of a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		bin, err := contigflow.ReadBin(kmerInput, contigflow.Sanger)
		if err != nil {
			return err
		}
		counter, err := contigflow.CountKmers(bin.Pool, kmerSize)
		if err != nil {
			return err
		}
		top, err := counter.MostFrequent(kmerTop)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d reads, %s\n", bin.Pool.Len(), counter)
		for i, kc := range top {
			fmt.Fprintf(w, "  %d. %s: %d\n", i+1, kc.KMer, kc.Count)
		}
		for _, q := range kmerQuery {
			n, err := counter.GetCount(strings.ToUpper(q))
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s: %d\n", q, n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(kmerCmd)

	kmerCmd.Flags().StringVarP(&kmerInput, "input", "i", "", "FASTA or FASTQ file of reads")
	kmerCmd.Flags().IntVarP(&kmerSize, "kmer", "k", 11, "k-mer size")
	kmerCmd.Flags().IntVarP(&kmerTop, "top", "n", 10, "number of most frequent k-mers to show")
	kmerCmd.Flags().StringSliceVar(&kmerQuery, "count", nil, "k-mers whose counts to print")
	kmerCmd.MarkFlagRequired("input")
}
