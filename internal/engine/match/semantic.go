package match

import (
	"context"
	"sort"

	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

// SemanticIndexer embeds candidates once at build time and ranks queries by
// dot product against the stored vectors. Vectors are expected to be
// normalized by the embedding backend, making the dot product a cosine
// similarity.
type SemanticIndexer struct {
	embedder Embedder
	logger   logging.Logger

	// onDegrade is invoked each time a query falls back to lexical ranking.
	onDegrade func()
}

// NewSemanticIndexer wires an embedding backend. onDegrade may be nil.
func NewSemanticIndexer(embedder Embedder, logger logging.Logger, onDegrade func()) *SemanticIndexer {
	return &SemanticIndexer{
		embedder:  embedder,
		logger:    logger.Named("match.semantic"),
		onDegrade: onDegrade,
	}
}

// Build implements Indexer. If embedding the candidate set fails, the whole
// index runs in lexical mode; the candidate set is embedded exactly once.
func (s *SemanticIndexer) Build(ctx context.Context, candidates []Candidate) Index {
	fallback := newLexicalIndex(candidates)
	if len(candidates) == 0 {
		return fallback
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil || len(vectors) != len(candidates) {
		s.logger.Warn("candidate embedding failed, index degrades to lexical ranking",
			logging.Int("candidates", len(candidates)), logging.Err(err))
		s.degraded()
		return fallback
	}

	return &semanticIndex{
		parent:     s,
		candidates: candidates,
		vectors:    vectors,
		fallback:   fallback,
	}
}

func (s *SemanticIndexer) degraded() {
	if s.onDegrade != nil {
		s.onDegrade()
	}
}

type semanticIndex struct {
	parent     *SemanticIndexer
	candidates []Candidate
	vectors    [][]float32
	fallback   *lexicalIndex
}

// Search implements Index. A failed query embedding degrades that single
// query to the lexical fallback rather than failing the assessment.
func (idx *semanticIndex) Search(ctx context.Context, query string, topK int) []Hit {
	if query == "" || len(idx.candidates) == 0 || topK <= 0 {
		return nil
	}

	queryVecs, err := idx.parent.embedder.Embed(ctx, []string{query})
	if err != nil || len(queryVecs) != 1 {
		idx.parent.logger.Warn("query embedding failed, falling back to lexical ranking", logging.Err(err))
		idx.parent.degraded()
		return idx.fallback.Search(ctx, query, topK)
	}
	queryVec := queryVecs[0]

	hits := make([]Hit, 0, len(idx.candidates))
	for i, vec := range idx.vectors {
		hits = append(hits, Hit{Candidate: idx.candidates[i], Score: dot(vec, queryVec)})
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
