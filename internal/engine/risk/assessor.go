package risk

import (
	"context"
	"sort"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/engine/match"
	"github.com/turtacn/ESG-Sentinel/internal/engine/textseg"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

// Assessor runs hazard identification over assessment contexts.
type Assessor struct {
	indexer      match.Indexer
	logger       logging.Logger
	maxSentences int
	topK         int
	countUnits   func(n int)
}

// NewAssessor wires the retrieval indexer and identification bounds.
func NewAssessor(indexer match.Indexer, logger logging.Logger, maxSentences, topK int) *Assessor {
	return &Assessor{
		indexer:      indexer,
		logger:       logger.Named("risk.assessor"),
		maxSentences: maxSentences,
		topK:         topK,
	}
}

// SetUnitCounter registers a callback receiving the number of text units
// segmented out of each context. Used to feed metrics.
func (a *Assessor) SetUnitCounter(fn func(n int)) {
	a.countUnits = fn
}

// Identify retrieves evidence for every taxonomy hazard in context, scores
// each evidence sentence, and returns the finalized entries sorted by score
// descending. Hazards with no surviving evidence are omitted. Ties keep
// taxonomy definition order, so identical inputs always produce identical
// output.
func (a *Assessor) Identify(ctx context.Context, tax *taxonomy.Taxonomy, text string) ([]*Entry, error) {
	units := textseg.Segment(text, a.maxSentences)
	if a.countUnits != nil {
		a.countUnits(len(units))
	}
	candidates := make([]match.Candidate, len(units))
	for i, unit := range units {
		candidates[i] = match.Candidate{Text: unit.Text, Kind: string(unit.Kind), Index: unit.Index}
	}
	index := a.indexer.Build(ctx, candidates)

	entries := make(map[string]*Entry)
	order := make([]string, 0, len(tax.Hazards))

	for i := range tax.Hazards {
		hazard := &tax.Hazards[i]
		hits := index.Search(ctx, hazard.Query(), a.topK)
		for _, hit := range hits {
			if hit.Score < hazard.MinSimilarity {
				continue
			}
			sentence := hit.Candidate.Text
			negated := IsNegated(sentence, hazard, tax.NegationTokens)
			likelihood, impact, note := ScoreSentence(hazard, sentence, negated, tax)
			evidence := Evidence{
				Sentence:   strings.TrimSpace(sentence),
				Similarity: hit.Score,
				Negated:    negated,
				Notes:      note,
			}
			entry, ok := entries[hazard.ID]
			if !ok {
				entry = NewEntry(hazard)
				entries[hazard.ID] = entry
				order = append(order, hazard.ID)
			}
			if err := entry.RecordObservation(likelihood, impact, evidence); err != nil {
				return nil, err
			}
		}
	}

	results := make([]*Entry, 0, len(order))
	for _, id := range order {
		entry := entries[id]
		if err := entry.Finalize(tax); err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })

	a.logger.Debug("risk identification complete",
		logging.Int("units", len(units)),
		logging.Int("hazards", len(tax.Hazards)),
		logging.Int("identified", len(results)))
	return results, nil
}
