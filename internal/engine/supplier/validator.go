// Package supplier scores suppliers against evaluation templates: evidence
// retrieval per row, keyword signal scoring with zero-tolerance and metric
// behaviors, template-wide signal scanning, and grade classification.
package supplier

import (
	"context"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
)

// EvidenceMatch is the best retrieved sentence for an evaluation row.
type EvidenceMatch struct {
	Sentence string
	Score    float64
	Valid    bool
	Reason   string
}

// SecondaryValidator is an optional stronger validation backend. A non-nil
// error or an Unknown verdict falls back to the heuristic silently.
type SecondaryValidator interface {
	Validate(ctx context.Context, row template.EvaluationRow, sentence string) (Verdict, error)
}

// Verdict is a secondary validator's answer.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictValid
	VerdictInvalid
)

// Validator decides whether a retrieved sentence actually supports a row.
// The built-in heuristic accepts the sentence when it contains the row's
// item name, area name, or any evidence keyword or synonym.
type Validator struct {
	secondary SecondaryValidator
}

// NewValidator builds a validator; secondary may be nil.
func NewValidator(secondary SecondaryValidator) *Validator {
	return &Validator{secondary: secondary}
}

const heuristicReason = "heuristic"

// IsValid reports whether sentence supports row, with the reason recorded
// on the evidence.
func (v *Validator) IsValid(ctx context.Context, row template.EvaluationRow, sentence string) (bool, string) {
	if sentence == "" {
		return false, ""
	}
	lowered := strings.ToLower(sentence)
	heuristic := false
	terms := make([]string, 0, 2+len(row.EvidenceKeywords)+len(row.Synonyms))
	terms = append(terms, strings.ToLower(row.Item), strings.ToLower(row.Area))
	terms = append(terms, row.EvidenceKeywords...)
	terms = append(terms, row.Synonyms...)
	for _, term := range terms {
		if term != "" && strings.Contains(lowered, term) {
			heuristic = true
			break
		}
	}
	if v.secondary == nil {
		return heuristic, heuristicReason
	}

	verdict, err := v.secondary.Validate(ctx, row, sentence)
	if err != nil {
		return heuristic, heuristicReason
	}
	switch verdict {
	case VerdictValid:
		return true, "validated"
	case VerdictInvalid:
		return false, "rejected"
	default:
		return heuristic, heuristicReason
	}
}
