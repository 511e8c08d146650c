package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/JanikMartens/WiG/internal/log"
	"github.com/spf13/cobra"
)

var flagVerbose bool

var rootCmd = &cobra.Command{
	Use:          "wig [query...]",
	Short:        "wig: fuzzy search and install winget packages",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `wig indexes a snapshot of the winget community repository and lets you
fuzzy-search it from the terminal, then hands the chosen package to winget.

Run 'wig index' once to build the local store, then 'wig' to search.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if flagVerbose {
			log.SetLevel(slog.LevelDebug)
		}
	},
	RunE: runSearch,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print diagnostic output to stderr")
}

// Execute is called by main.go.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
