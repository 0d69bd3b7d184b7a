package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidatesFrom(texts ...string) []Candidate {
	out := make([]Candidate, len(texts))
	for i, text := range texts {
		out[i] = Candidate{Text: text, Kind: "sentence", Index: i}
	}
	return out
}

func TestLexicalSearchCountsOccurrences(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom(
		"작업발판 난간이 설치되어 있지 않다",
		"화학물질 보관 상태는 양호하다",
		"난간 난간 점검이 미흡하다",
	))

	hits := idx.Search(context.Background(), "발판 난간", 10)
	require.Len(t, hits, 2)
	// Double occurrence of 난간 outranks one 발판 plus one 난간... no:
	// candidate 0 scores 발판(1)+난간(1)=2, candidate 2 scores 난간(2)=2.
	// Equal scores keep candidate order.
	assert.Equal(t, 0, hits[0].Candidate.Index)
	assert.Equal(t, 2.0, hits[0].Score)
	assert.Equal(t, 2, hits[1].Candidate.Index)
	assert.Equal(t, 2.0, hits[1].Score)
}

func TestLexicalSearchScoresNonIncreasing(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom(
		"안전 점검 점검 점검",
		"안전 점검",
		"점검",
		"무관한 문장",
	))
	hits := idx.Search(context.Background(), "안전 점검", 10)
	require.NotEmpty(t, hits)
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
	for _, hit := range hits {
		assert.Greater(t, hit.Score, 0.0)
	}
}

func TestLexicalSearchDropsShortTokens(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom("a b c 문장"))
	// Every query token is a single rune, so nothing matches.
	assert.Empty(t, idx.Search(context.Background(), "a b c", 5))
}

func TestLexicalSearchEmptyInputs(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom("문장 하나"))
	assert.Empty(t, idx.Search(context.Background(), "", 5))
	assert.Empty(t, idx.Search(context.Background(), "문장", 0))

	empty := NewLexicalIndexer().Build(context.Background(), nil)
	assert.Empty(t, empty.Search(context.Background(), "문장", 5))
}

func TestLexicalSearchHonorsTopK(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom(
		"점검 점검 점검", "점검 점검", "점검", "점검 또 점검",
	))
	hits := idx.Search(context.Background(), "점검", 2)
	require.Len(t, hits, 2)
	assert.Equal(t, 3.0, hits[0].Score)
}

func TestLexicalSearchCaseInsensitive(t *testing.T) {
	idx := NewLexicalIndexer().Build(context.Background(), candidatesFrom("ISO14001 certified site"))
	hits := idx.Search(context.Background(), "iso14001", 5)
	require.Len(t, hits, 1)
	assert.Equal(t, 1.0, hits[0].Score)
}
