// Package analysis normalizes raw token streams into index terms under
// configurable stopword-removal and stemming switches, and caches the
// result per (removeStopwords, stem) pair so the sweep preprocesses each
// pair exactly once.
package analysis

import (
	"strings"
	"sync"

	snowballeng "github.com/kljensen/snowball/english"
)

// Term is an opaque normalized token. Equality is exact match after
// preprocessing.
type Term = string

// Stemmer maps a token to its stem. It must be a pure function.
type Stemmer func(string) string

// SnowballStemmer is the default English stemmer.
func SnowballStemmer(w string) string {
	return snowballeng.Stem(w, true)
}

// Analyzer holds the external collaborators of preprocessing: the
// stopword set and the stemmer.
type Analyzer struct {
	Stopwords map[string]struct{}
	Stemmer   Stemmer
}

// NewAnalyzer creates an analyzer. A nil stemmer defaults to Snowball.
func NewAnalyzer(stopwords map[string]struct{}, stemmer Stemmer) Analyzer {
	if stemmer == nil {
		stemmer = SnowballStemmer
	}
	return Analyzer{Stopwords: stopwords, Stemmer: stemmer}
}

// Preprocess normalizes a raw token stream. Order is preserved and
// duplicates are retained; frequency information depends on this.
// Stopword matching is case-insensitive. Pure and deterministic.
func (a Analyzer) Preprocess(tokens []string, removeStopwords, stem bool) []Term {
	out := make([]Term, 0, len(tokens))
	for _, tok := range tokens {
		if removeStopwords {
			if _, bad := a.Stopwords[strings.ToLower(tok)]; bad {
				continue
			}
		}
		if stem {
			tok = a.Stemmer(tok)
		}
		out = append(out, tok)
	}
	return out
}

// Pair identifies one preprocessing configuration.
type Pair struct {
	RemoveStopwords bool
	Stem            bool
}

// Snapshot holds the preprocessed corpus and query streams for one Pair.
// Index-aligned with the source slices. Read-only once returned.
type Snapshot struct {
	Docs    [][]Term
	Queries [][]Term
}

// Cache computes and memoizes one Snapshot per Pair. Population happens
// at most once per pair under a single-writer discipline; afterwards the
// snapshot is shared read-only across sweep workers.
type Cache struct {
	analyzer Analyzer
	docs     [][]string
	queries  [][]string

	mu      sync.Mutex
	entries map[Pair]*Snapshot
}

// NewCache creates a cache over fixed source token streams.
func NewCache(analyzer Analyzer, docs, queries [][]string) *Cache {
	return &Cache{
		analyzer: analyzer,
		docs:     docs,
		queries:  queries,
		entries:  make(map[Pair]*Snapshot),
	}
}

// Get returns the snapshot for pair, computing it on first use.
func (c *Cache) Get(pair Pair) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	if snap, ok := c.entries[pair]; ok {
		return snap
	}

	snap := &Snapshot{
		Docs:    make([][]Term, len(c.docs)),
		Queries: make([][]Term, len(c.queries)),
	}
	for i, tokens := range c.docs {
		snap.Docs[i] = c.analyzer.Preprocess(tokens, pair.RemoveStopwords, pair.Stem)
	}
	for i, tokens := range c.queries {
		snap.Queries[i] = c.analyzer.Preprocess(tokens, pair.RemoveStopwords, pair.Stem)
	}

	c.entries[pair] = snap
	return snap
}
