package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/JanikMartens/WiG/internal/config"
	"github.com/JanikMartens/WiG/internal/installer"
	"github.com/JanikMartens/WiG/internal/search"
	searchindex "github.com/JanikMartens/WiG/internal/search/index"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Interactively search the package store and install a result",
	Long: `Start the interactive search loop. Terms are matched against each
package's identifier and name; the best 20 matches are listed and any of
them can be installed with winget in a new console.

An initial query may be given as arguments.`,
	Args: cobra.ArbitraryArgs,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w\nRun 'wig init' first.", err)
	}
	dir, err := config.DataDir()
	if err != nil {
		return err
	}

	store, err := searchindex.Load(dir)
	if err != nil {
		if errors.Is(err, searchindex.ErrArtifactMissing) {
			return fmt.Errorf("%w\nRun 'wig index' to build the package store.", err)
		}
		return fmt.Errorf("cannot load package store: %w\nRun 'wig index --refresh' to rebuild it.", err)
	}

	engine := search.NewEngine(store, search.WithLimit(cfg.ResultLimit))
	dispatcher := installer.New(cfg.Installer, nil)
	s := newSession(engine, dispatcher, cmd.InOrStdin(), cmd.OutOrStdout())
	return s.Run(cmd.Context(), strings.Join(args, " "))
}
