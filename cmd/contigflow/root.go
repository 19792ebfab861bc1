package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/aria-lang/contigflow/pkg/contigflow"
	"github.com/grailbio/base/log"
	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "contigflow",
	Short: `Build contigs from sequencing reads.
Reads are placed one at a time and every placement is checked before it is kept`,
	Version:       contigflow.Version(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML settings file")
}
