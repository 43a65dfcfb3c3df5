// Command socialstats is the CLI external collaborator spec.md names in
// §1: it selects an input preset, runs the aggregation engine, and
// prints the three reports. Argument parsing, preset selection, and
// timing live here rather than in the engine, per spec.md's scope.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/LOOP115/social-media-analytics/internal/config"
	"github.com/LOOP115/social-media-analytics/internal/coordinator"
	"github.com/LOOP115/social-media-analytics/internal/rank"
	"github.com/LOOP115/social-media-analytics/internal/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "socialstats [tiny|small|big]",
		Short: "Aggregate Australian geotagged posts into author and region reports",
		Long: `socialstats partitions a large, pretty-printed JSON array of geotagged
posts across worker goroutines, streams each worker's share through a
suburb-to-region resolver, and prints three reports: the ten most
prolific authors, a per-region tweet count, and the ten authors who
posted from the most distinct Greater Capital Cities.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          run,
	}
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	preset := ""
	if len(args) == 1 {
		preset = args[0]
	}
	cfg := config.Default(preset)

	log, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer log.Sync()

	start := time.Now()

	global, err := coordinator.Run(cfg, log)
	if err != nil {
		return err
	}

	r := rank.Compute(global)
	return report.Print(cmd.OutOrStdout(), r, start)
}
