package supplier

import (
	"context"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
)

// SignalHit is one matched template-wide signal.
type SignalHit struct {
	Keyword string
	Impact  float64
}

// SignalExtractor is an optional smarter extraction backend for template
// wide signals. Errors and empty results fall back to the dictionary scan.
type SignalExtractor interface {
	Extract(ctx context.Context, bundle *template.Bundle, text string) (positive, negative []SignalHit, err error)
}

// ScanGlobalSignals finds the template's global positive and negative
// signals in the lowered context. When an extractor is wired and produces
// at least one hit, its output wins; otherwise the dictionary scan applies.
// Each signal counts once regardless of repetition.
func ScanGlobalSignals(ctx context.Context, bundle *template.Bundle, loweredContext string, extractor SignalExtractor) (positive, negative []SignalHit) {
	if extractor != nil {
		pos, neg, err := extractor.Extract(ctx, bundle, loweredContext)
		if err == nil && (len(pos) > 0 || len(neg) > 0) {
			return pos, neg
		}
	}
	return scanDictionary(bundle.GlobalPositive, loweredContext), scanDictionary(bundle.GlobalNegative, loweredContext)
}

func scanDictionary(signals []template.Signal, loweredContext string) []SignalHit {
	var hits []SignalHit
	for _, signal := range signals {
		if signal.Keyword != "" && strings.Contains(loweredContext, signal.Keyword) {
			hits = append(hits, SignalHit{Keyword: signal.Keyword, Impact: signal.Impact})
		}
	}
	return hits
}
