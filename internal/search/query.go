package search

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// DefaultLimit is the maximum number of results returned by Search.
const DefaultLimit = 20

// Engine resolves free-text queries against a loaded corpus.
type Engine struct {
	corpus Corpus
	sim    Similarity
	limit  int
}

// Option configures an Engine.
type Option func(*Engine)

// WithSimilarity replaces the PartialRatio scorer.
func WithSimilarity(s Similarity) Option {
	return func(e *Engine) { e.sim = s }
}

// WithLimit sets the maximum number of results. n <= 0 keeps DefaultLimit.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// NewEngine returns an Engine over c.
func NewEngine(c Corpus, opts ...Option) *Engine {
	e := &Engine{corpus: c, sim: SimilarityFunc(PartialRatio), limit: DefaultLimit}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Search returns the best matches for query, highest score first.
//
// An entry is a candidate only when at least one query term occurs literally
// in its searchable text; its score is the best similarity over all terms.
// A nil result means nothing matched.
func (e *Engine) Search(query string) []MatchResult {
	terms := Terms(query)
	if len(terms) == 0 {
		return nil
	}

	var out []MatchResult
	for _, entry := range e.corpus.Entries() {
		if !containsAny(entry.Text, terms) {
			continue
		}
		score := 0
		for _, t := range terms {
			if s := e.sim.Score(t, entry.Text); s > score {
				score = s
			}
		}
		rec, _ := e.corpus.Record(entry.Identifier)
		out = append(out, MatchResult{Score: score, Identifier: entry.Identifier, Record: rec})
	}

	SortResults(out)
	if len(out) > e.limit {
		out = out[:e.limit]
	}
	return out
}

// Suggest returns up to n identifiers whose searchable text contains the
// query's characters in order. It is meant for queries Search found nothing
// for.
func (e *Engine) Suggest(query string, n int) []string {
	pattern := strings.Join(Terms(query), "")
	if pattern == "" || n <= 0 {
		return nil
	}
	entries := e.corpus.Entries()
	matches := fuzzy.FindFrom(pattern, entrySource(entries))
	out := make([]string, 0, min(n, len(matches)))
	for _, m := range matches {
		if len(out) == n {
			break
		}
		out = append(out, entries[m.Index].Identifier)
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}

// entrySource exposes index entries to the fuzzy matcher.
type entrySource []IndexEntry

func (s entrySource) String(i int) string { return s[i].Text }
func (s entrySource) Len() int            { return len(s) }
