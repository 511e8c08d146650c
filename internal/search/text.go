package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fold lowercases s using Unicode case mapping. The index and query terms are
// both folded with it so substring checks compare like with like.
func Fold(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Terms splits a query into its distinct folded terms, in first-seen order.
func Terms(query string) []string {
	fields := strings.Fields(Fold(query))
	if len(fields) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
