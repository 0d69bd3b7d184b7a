// Package match ranks candidate text spans against retrieval queries. The
// semantic path embeds candidates and queries through an external embedding
// backend; when no backend is configured or a call fails, ranking degrades
// to a lexical token-count match with the same interface.
package match

import "context"

// Candidate is one rankable span with an opaque position carried through to
// results.
type Candidate struct {
	Text  string
	Kind  string
	Index int
}

// Hit is a ranked candidate. Score is cosine similarity on the semantic
// path and a token occurrence count on the lexical path.
type Hit struct {
	Candidate Candidate
	Score     float64
}

// Embedder produces normalized embedding vectors for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Index ranks queries against a fixed candidate set.
type Index interface {
	// Search returns up to topK hits ordered by score descending. An empty
	// query or empty candidate set yields no hits.
	Search(ctx context.Context, query string, topK int) []Hit
}

// Indexer builds an Index over a candidate set.
type Indexer interface {
	Build(ctx context.Context, candidates []Candidate) Index
}
