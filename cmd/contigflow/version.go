package main

import (
	"fmt"

	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), contigflow.Info())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
