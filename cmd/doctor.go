package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/JanikMartens/WiG/internal/config"
	searchindex "github.com/JanikMartens/WiG/internal/search/index"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run pre-flight environment checks",
	Long: `Check that wig's data directory, configuration, archive, package store
and installer are usable. Run this command when something seems wrong.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(_ *cobra.Command, _ []string) error {
	allOK := true
	failD := func(format string, args ...any) {
		printErr("", fmt.Sprintf(format, args...))
		allOK = false
	}

	printSection("wig doctor")
	fmt.Println()

	// ── Check 1: data directory ───────────────────────────────────────────────
	printCheck("data directory")
	dir, err := config.DataDir()
	if err != nil {
		failD("cannot determine data directory: %v", err)
	} else if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		failD("%s not found — run 'wig init' first", dir)
	} else {
		printOK("", dir)
	}
	fmt.Println()

	// ── Check 2: wig.yaml ─────────────────────────────────────────────────────
	printCheck("wig.yaml")
	cfgPath, _ := config.ConfigPath()
	cfg, loadErr := config.Load()
	switch {
	case loadErr != nil:
		failD("cannot parse wig.yaml: %v", loadErr)
	case !fileExists(cfgPath):
		printMiss("", "wig.yaml not found — using built-in defaults")
	default:
		printOK("", fmt.Sprintf("valid YAML: %s", cfgPath))
	}
	fmt.Println()

	// ── Check 3: cached archive ───────────────────────────────────────────────
	printCheck("archive")
	if loadErr == nil {
		if st, err := os.Stat(cfg.ArchivePath); err != nil {
			printMiss("", fmt.Sprintf("no cached archive at %s (downloaded by 'wig index')", cfg.ArchivePath))
		} else {
			printOK("", fmt.Sprintf("%s (%s)", cfg.ArchivePath, formatSize(st.Size())))
		}
	} else {
		printWarn("", "skipped (wig.yaml not loaded)")
	}
	fmt.Println()

	// ── Check 4: package store ────────────────────────────────────────────────
	printCheck("package store")
	if dir != "" {
		store, err := searchindex.Load(dir)
		switch {
		case errors.Is(err, searchindex.ErrArtifactMissing):
			failD("package store not built — run 'wig index'")
		case err != nil:
			failD("package store unreadable: %v\n     Run 'wig index --refresh' to rebuild it.", err)
		default:
			printOK("", fmt.Sprintf("%d package(s) in %s", store.Len(), filepath.Join(dir, searchindex.IndexFile)))
		}
	} else {
		printWarn("", "skipped (data directory unknown)")
	}
	fmt.Println()

	// ── Check 5: installer on PATH ────────────────────────────────────────────
	printCheck("installer")
	if loadErr == nil {
		if path, err := exec.LookPath(cfg.Installer.Command); err != nil {
			printWarn("", fmt.Sprintf("%q not found on PATH — installs will fail", cfg.Installer.Command))
		} else {
			printOK("", path)
		}
	} else {
		printWarn("", "skipped (wig.yaml not loaded)")
	}
	fmt.Println()

	// ── Summary ──────────────────────────────────────────────────────────────────
	fmt.Println("===================")
	if allOK {
		fmt.Println("✓  All checks passed. wig is ready to use.")
	} else {
		fmt.Fprintln(os.Stderr, "✗  One or more checks failed. See details above.")
		return fmt.Errorf("doctor found issues")
	}
	return nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
