package supplier

import "github.com/turtacn/ESG-Sentinel/internal/domain/template"

// GradeInfo is the outcome of grade classification.
type GradeInfo struct {
	Grade string
	Label string
	Ratio float64
	Note  string
}

const criticalNote = "critical violation detected, zero-tolerance grade applied"

// Grade classifies a weighted total against the template's thresholds.
// A critical trigger pins the evaluation to the worst grade regardless of
// ratio. Otherwise the first threshold (highest MinRatio first) the ratio
// reaches wins, falling back to the worst grade.
func Grade(bundle *template.Bundle, total, maxScore float64, critical bool) GradeInfo {
	ratio := 0.0
	if maxScore > 0 {
		ratio = total / maxScore
	}
	thresholds := bundle.Thresholds
	worst := thresholds[len(thresholds)-1]

	if critical {
		return GradeInfo{Grade: worst.Grade, Label: worst.Label, Ratio: ratio, Note: criticalNote}
	}
	for _, threshold := range thresholds {
		if ratio >= threshold.MinRatio {
			return GradeInfo{Grade: threshold.Grade, Label: threshold.Label, Ratio: ratio}
		}
	}
	return GradeInfo{Grade: worst.Grade, Label: worst.Label, Ratio: ratio}
}
