package main

import (
	"fmt"

	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/spf13/cobra"
)

var (
	seq1       string
	seq2       string
	minOverlap int
	minRatio   int
	alignK     int
)

var alignCmd = &cobra.Command{
	Use:   "align",
	Short: "Compute the overlap of two sequences",
	Long: `Compute the overlap of two sequences

The second sequence is aligned against the first in both orientations and
the better overlap is printed along with the k-mer distance of the pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		o, err := contigflow.AlignOverlap(seq1, seq2, minOverlap, minRatio)
		if err != nil {
			return err
		}
		if o == nil {
			fmt.Fprintf(w, "No overlap of at least %d positions scoring %d%%\n", minOverlap, minRatio)
		} else {
			fmt.Fprintln(w, o)
			fmt.Fprintln(w, o.Format())
		}

		d, err := contigflow.KmerDistance(seq1, seq2, alignK)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "K-mer distance (k=%d): %.4f\n", alignK, d)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(alignCmd)

	alignCmd.Flags().StringVar(&seq1, "seq1", "", "first sequence")
	alignCmd.Flags().StringVar(&seq2, "seq2", "", "second sequence")
	alignCmd.Flags().IntVar(&minOverlap, "min-overlap", 15, "minimum number of overlapping positions")
	alignCmd.Flags().IntVar(&minRatio, "min-score-ratio", 70, "minimum score ratio in percent")
	alignCmd.Flags().IntVarP(&alignK, "kmer", "k", 11, "k-mer size of the distance")
	alignCmd.MarkFlagRequired("seq1")
	alignCmd.MarkFlagRequired("seq2")
}
