package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/JanikMartens/WiG/internal/search"
	"github.com/mattn/go-runewidth"
)

const (
	searchPrompt  = "\nEnter search terms (or 'quit' to exit): "
	selectPrompt  = "\nEnter number to install, 's' to search again, or 'q' to quit: "
	notAvailable  = "N/A"
	nameWidth     = 30
	suggestLimit  = 3
	columnPadding = 2
	maxLineBytes  = 1 << 20
)

// packageInstaller is satisfied by *installer.Dispatcher.
type packageInstaller interface {
	Install(ctx context.Context, id string) (string, error)
}

// session is the interactive search-and-install loop.
type session struct {
	engine  *search.Engine
	install packageInstaller
	in      *bufio.Scanner
	out     io.Writer
}

func newSession(engine *search.Engine, inst packageInstaller, in io.Reader, out io.Writer) *session {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)
	return &session{engine: engine, install: inst, in: sc, out: out}
}

// readLine prints prompt and returns the trimmed reply. ok is false when
// input ended or could not be read; see inputErr.
func (s *session) readLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// inputErr returns the read error that stopped the scanner, nil at EOF.
func (s *session) inputErr() error {
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("cannot read input: %w", err)
	}
	return nil
}

// Run drives the loop until the user quits or input ends. A read error,
// such as a line longer than maxLineBytes, is returned. A non-empty initial
// query is used for the first search instead of prompting.
func (s *session) Run(ctx context.Context, initial string) error {
	query := strings.TrimSpace(initial)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if query == "" {
			line, ok := s.readLine(searchPrompt)
			if !ok {
				return s.inputErr()
			}
			query = line
		}
		switch strings.ToLower(query) {
		case "quit", "q":
			return nil
		case "":
			continue
		}

		if quit := s.handleQuery(ctx, query); quit {
			return s.inputErr()
		}
		query = ""
	}
}

// handleQuery searches, shows results and runs the selection prompt.
// It reports whether the user asked to quit.
func (s *session) handleQuery(ctx context.Context, query string) bool {
	results := s.engine.Search(query)
	if len(results) == 0 {
		fmt.Fprintf(s.out, "%s No packages found matching '%s'\n", iconMiss, query)
		if sugg := s.engine.Suggest(query, suggestLimit); len(sugg) > 0 {
			fmt.Fprintf(s.out, "   Did you mean: %s\n", strings.Join(sugg, ", "))
		}
		return false
	}

	fmt.Fprintf(s.out, "\nFound %d results for '%s':\n", len(results), query)
	writeResultTable(s.out, results)

	for {
		choice, ok := s.readLine(selectPrompt)
		if !ok {
			return true
		}
		switch strings.ToLower(choice) {
		case "q":
			return true
		case "s":
			return false
		}

		num, err := strconv.Atoi(choice)
		if err != nil || num < 0 {
			fmt.Fprintf(s.out, "%s Please enter a valid number\n", iconErr)
			continue
		}
		if num < 1 || num > len(results) {
			fmt.Fprintf(s.out, "%s Please enter a number between 1 and %d\n", iconErr, len(results))
			continue
		}

		id := results[num-1].Identifier
		confirm, ok := s.readLine(fmt.Sprintf("Install %s? (y/n): ", id))
		if !ok {
			return true
		}
		if strings.ToLower(confirm) == "y" {
			s.runInstall(ctx, id)
		}
		return false
	}
}

func (s *session) runInstall(ctx context.Context, id string) {
	canonical, err := s.install.Install(ctx, id)
	if err != nil {
		fmt.Fprintf(s.out, "%s Error launching installer: %v\n", iconErr, err)
		return
	}
	fmt.Fprintf(s.out, "%s Installation of %s started in a new window.\n", iconOK, canonical)
}

// writeResultTable prints results as a numbered table. Names are cut to a
// fixed display width; identifiers are printed in full.
func writeResultTable(w io.Writer, results []search.MatchResult) {
	idWidth := len("Package ID")
	for _, r := range results {
		idWidth = max(idWidth, runewidth.StringWidth(r.Identifier))
	}
	nameCol := nameWidth + columnPadding

	header := fmt.Sprintf("%s | %s | %s | %s",
		runewidth.FillRight("#", 3),
		runewidth.FillRight("Package Name", nameCol),
		runewidth.FillRight("Package ID", idWidth),
		"Version")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", runewidth.StringWidth(header)))

	for i, r := range results {
		name := r.Record.Name
		if name == "" {
			name = notAvailable
		}
		fmt.Fprintf(w, "%s | %s | %s | %s\n",
			runewidth.FillRight(strconv.Itoa(i+1), 3),
			runewidth.FillRight(runewidth.Truncate(name, nameWidth, ""), nameCol),
			runewidth.FillRight(r.Identifier, idWidth),
			notAvailable)
	}
}
