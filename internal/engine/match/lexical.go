package match

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// LexicalIndexer builds token-count indexes. It needs no external backend
// and serves as the degraded mode of the semantic ranker.
type LexicalIndexer struct{}

// NewLexicalIndexer returns an indexer for pure lexical ranking.
func NewLexicalIndexer() *LexicalIndexer {
	return &LexicalIndexer{}
}

// Build implements Indexer.
func (i *LexicalIndexer) Build(_ context.Context, candidates []Candidate) Index {
	return newLexicalIndex(candidates)
}

type lexicalIndex struct {
	candidates []Candidate
	lowered    []string
}

func newLexicalIndex(candidates []Candidate) *lexicalIndex {
	idx := &lexicalIndex{candidates: candidates, lowered: make([]string, len(candidates))}
	for n, c := range candidates {
		idx.lowered[n] = strings.ToLower(c.Text)
	}
	return idx
}

// queryTokens lowers and whitespace-splits the query, keeping only tokens of
// at least two runes. Single-rune fragments match too promiscuously in both
// Korean and English text.
func queryTokens(query string) []string {
	var tokens []string
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if utf8.RuneCountInString(token) >= 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// Search implements Index. The score of a candidate is the total occurrence
// count of all query tokens in its lowered text; zero-score candidates are
// omitted. Ties keep candidate order, so results are deterministic.
func (idx *lexicalIndex) Search(_ context.Context, query string, topK int) []Hit {
	if query == "" || len(idx.candidates) == 0 || topK <= 0 {
		return nil
	}
	tokens := queryTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	var hits []Hit
	for n, lowered := range idx.lowered {
		score := 0
		for _, token := range tokens {
			score += strings.Count(lowered, token)
		}
		if score > 0 {
			hits = append(hits, Hit{Candidate: idx.candidates[n], Score: float64(score)})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}
