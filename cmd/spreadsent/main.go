// Package main provides the entry point for the spreadsent CLI tool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/spreadsent/cmd/spreadsent/commands"
	"github.com/Sumatoshi-tech/spreadsent/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCommand().ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var global commands.GlobalOptions

	rootCmd := &cobra.Command{
		Use:   "spreadsent",
		Short: "Sentiment scoring for news-spreader timelines",
		Long: `spreadsent scores the sentiment of social media timelines with a
SenticNet, SentiWordNet and VADER lexicon cascade over 1- to 4-grams, and
reduces each timeline to a sentiment intensity.

Commands:
  run         timelines -> ngrams, scores, aggregates in one pass
  preprocess  timelines -> ngrams
  score       ngrams -> scores
  aggregate   scores -> aggregates
  report      per-entity and per-label summaries`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	global.Register(rootCmd)

	rootCmd.AddCommand(commands.NewRunCommand(&global))
	rootCmd.AddCommand(commands.NewPreprocessCommand(&global))
	rootCmd.AddCommand(commands.NewScoreCommand(&global))
	rootCmd.AddCommand(commands.NewAggregateCommand(&global))
	rootCmd.AddCommand(commands.NewReportCommand(&global))
	rootCmd.AddCommand(commands.NewLexiconCommand(&global))
	rootCmd.AddCommand(commands.NewMCPCommand(&global))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "spreadsent %s\n", version.String())
		},
	}
}
