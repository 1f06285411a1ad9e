// Package search ranks training modules against a free-text query. It is
// intentionally small and dependency-free:
//
//   - No logging in the library (callers decide how/what to log)
//   - Unicode-aware tokenization with optional stop-word removal
//   - Deterministic scoring and sorting (stable order for ties)
//
// Scoring uses Jaccard similarity between the query token set and each
// module's token set (title, description, and category combined):
// score = |Q ∩ M| / |Q ∪ M|. Modules with no token overlap are excluded.
package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/groweasy/groweasy-backend/internal/domain"
)

// Result is a ranked module with its similarity score.
type Result struct {
	Module domain.TrainingModule
	Score  float64
}

type Option func(*config)

type config struct {
	stopwords map[string]struct{}
	maxHits   int
}

func defaultConfig() config {
	return config{
		stopwords: nil,
		maxHits:   0,
	}
}

// WithStopwords excludes the given words from both query and module tokens.
func WithStopwords(words []string) Option {
	return func(c *config) {
		m := make(map[string]struct{}, len(words))
		for _, w := range words {
			w = strings.ToLower(strings.TrimSpace(w))
			if w != "" {
				m[w] = struct{}{}
			}
		}
		if len(m) > 0 {
			c.stopwords = m
		}
	}
}

// WithMaxHits caps the number of results. Zero means unlimited.
func WithMaxHits(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxHits = n
		}
	}
}

// Rank scores every module against the query and returns the matches in
// descending score order. Ties break on module ID so the order is stable
// across calls. An empty or token-free query returns nil.
func Rank(mods []domain.TrainingModule, query string, opts ...Option) []Result {
	cfg := defaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	if len(mods) == 0 || strings.TrimSpace(query) == "" {
		return nil
	}
	qTokens := tokenize(query, cfg.stopwords)
	if len(qTokens) == 0 {
		return nil
	}
	qLen := len(qTokens)

	hits := make([]Result, 0, len(mods))
	for _, m := range mods {
		mTokens := tokenize(m.Title+" "+m.Description+" "+m.Category, cfg.stopwords)
		over := overlap(qTokens, mTokens)
		if over == 0 {
			continue
		}
		union := float64(qLen + len(mTokens) - over)
		if union <= 0 {
			continue
		}
		hits = append(hits, Result{Module: m, Score: float64(over) / union})
	}
	if len(hits) == 0 {
		return nil
	}

	sort.SliceStable(hits, func(a, b int) bool {
		if hits[a].Score != hits[b].Score {
			return hits[a].Score > hits[b].Score
		}
		return hits[a].Module.ID < hits[b].Module.ID
	})

	if cfg.maxHits > 0 && len(hits) > cfg.maxHits {
		hits = hits[:cfg.maxHits]
	}
	return hits
}

var wordRE = regexp.MustCompile(`\p{L}+\p{N}*`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(strings.ToLower(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if stop != nil {
			if _, skip := stop[w]; skip {
				continue
			}
		}
		out[w] = struct{}{}
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n := 0
	if len(a) > len(b) {
		a, b = b, a
	}
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}
