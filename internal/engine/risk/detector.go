// Package risk implements hazard identification and scoring over free-form
// context: evidence retrieval per hazard, negation and modifier adjustment,
// weighted aggregation, and rating classification.
package risk

import (
	"math"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
)

// IsNegated reports whether sentence carries mitigation phrasing for the
// hazard. Both conditions must hold: the sentence mentions one of the
// hazard's match terms, and one of the taxonomy's negation tokens appears.
func IsNegated(sentence string, hazard *taxonomy.Hazard, negationTokens []string) bool {
	if len(negationTokens) == 0 {
		return false
	}
	lowered := strings.ToLower(sentence)
	mentioned := false
	for _, term := range hazard.MatchTerms() {
		if term != "" && strings.Contains(lowered, strings.ToLower(term)) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return false
	}
	for _, token := range negationTokens {
		if token != "" && strings.Contains(lowered, token) {
			return true
		}
	}
	return false
}

// adjust applies modifier phrases to base: +0.5 for every matched increase
// phrase, -0.5 for every matched decrease phrase. The sentence is expected
// lowered already.
func adjust(base float64, vocab taxonomy.ModifierVocabulary, lowered string) float64 {
	for _, word := range vocab.Increase {
		if word != "" && strings.Contains(lowered, word) {
			base += 0.5
		}
	}
	for _, word := range vocab.Decrease {
		if word != "" && strings.Contains(lowered, word) {
			base -= 0.5
		}
	}
	return base
}

// MitigationNote is attached to evidence whose sentence negates the hazard.
const MitigationNote = "mitigation phrasing detected"

// ScoreSentence derives the likelihood and impact of one evidence sentence
// from the hazard defaults, the taxonomy modifier vocabularies, and the
// negation flag. Results are clamped to [1,5] and rounded to one decimal.
func ScoreSentence(hazard *taxonomy.Hazard, sentence string, negated bool, tax *taxonomy.Taxonomy) (likelihood, impact float64, note string) {
	lowered := strings.ToLower(sentence)
	likelihood = adjust(hazard.DefaultLikelihood, tax.LikelihoodModifiers, lowered)
	impact = adjust(hazard.DefaultImpact, tax.ImpactModifiers, lowered)
	if negated {
		likelihood -= 1.0
		impact -= 0.5
		note = MitigationNote
	}
	likelihood = round1(clamp15(likelihood))
	impact = round1(clamp15(impact))
	return likelihood, impact, note
}

func clamp15(v float64) float64 {
	return math.Max(1.0, math.Min(5.0, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
