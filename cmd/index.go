package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/JanikMartens/WiG/internal/archive"
	"github.com/JanikMartens/WiG/internal/config"
	searchindex "github.com/JanikMartens/WiG/internal/search/index"
	"github.com/spf13/cobra"
)

var (
	flagIndexRefresh bool
	flagIndexArchive string
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Download the winget-pkgs archive and build the package store",
	Long: `Build the local package store from a winget-pkgs snapshot.

The archive is downloaded once into the data directory and reused on later
runs; pass --refresh to download it again, or --archive to index a zip that
is already on disk. The previous store is replaced only when the new one has
been written completely.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagIndexRefresh, "refresh", false, "Download the archive even if a cached copy exists")
	indexCmd.Flags().StringVar(&flagIndexArchive, "archive", "", "Index this local zip instead of the cached download")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cannot load config: %w\nRun 'wig init' first.", err)
	}
	dir, err := config.DataDir()
	if err != nil {
		return err
	}

	unlock, err := searchindex.Lock(dir)
	if err != nil {
		if errors.Is(err, searchindex.ErrLocked) {
			return fmt.Errorf("%w\nAnother 'wig index' is running; wait for it to finish.", err)
		}
		return err
	}
	defer unlock()

	printSection("wig index")

	archivePath := cfg.ArchivePath
	if flagIndexArchive != "" {
		archivePath, err = config.ExpandPath(flagIndexArchive)
		if err != nil {
			return err
		}
		st, err := os.Stat(archivePath)
		if err != nil {
			return fmt.Errorf("cannot read archive: %w", err)
		}
		printSkip("", fmt.Sprintf("using local archive %s (%s)", archivePath, formatSize(st.Size())))
	} else {
		printInfo("", fmt.Sprintf("archive: %s", cfg.ArchiveURL))
		res, err := archive.Fetch(cmd.Context(), cfg.ArchiveURL, archivePath, archive.FetchOptions{
			Refresh:  flagIndexRefresh,
			Progress: os.Stderr,
		})
		if err != nil {
			return fmt.Errorf("cannot fetch archive: %w", err)
		}
		if res.Downloaded {
			printOK("", fmt.Sprintf("downloaded %s (%s)", res.Path, formatSize(res.Size)))
		} else {
			printSkip("", fmt.Sprintf("reusing cached archive %s (%s)", res.Path, formatSize(res.Size)))
		}
	}

	store, report, err := searchindex.BuildFromArchive(searchindex.BuildOptions{
		ArchivePath: archivePath,
		OutDir:      dir,
		Suffix:      cfg.DescriptorSuffix,
	})
	if err != nil {
		return fmt.Errorf("index build failed: %w", err)
	}

	if n := len(report.Skipped); n > 0 {
		printWarn("", fmt.Sprintf("%d descriptor(s) skipped (run with --verbose for details)", n))
		if flagVerbose {
			for _, e := range report.Skipped {
				printMiss("", e.Error())
			}
		}
	}
	printOK("", fmt.Sprintf("%d package(s) indexed", store.Len()))
	printOK("", fmt.Sprintf("store written: %s", dir))
	return nil
}
