package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
	"github.com/turtacn/ESG-Sentinel/internal/engine/supplier"
)

// Messages returned instead of results when there is nothing to analyze.
const (
	MsgNoContext = "no context provided, risk analysis cannot run"
	MsgNoSignal  = "no meaningful risk signal found in the document, provide concrete evidence"
)

// EvidencePayload is one supporting sentence in a risk payload.
type EvidencePayload struct {
	Sentence   string  `json:"sentence"`
	Similarity float64 `json:"similarity"`
	Negated    bool    `json:"negated"`
	Notes      string  `json:"notes"`
}

// RiskItemPayload is one identified hazard in a risk payload.
type RiskItemPayload struct {
	ID                string            `json:"id"`
	Area              string            `json:"area"`
	Source            string            `json:"source"`
	Event             string            `json:"event"`
	Consequence       string            `json:"consequence"`
	Likelihood        float64           `json:"likelihood"`
	Impact            float64           `json:"impact"`
	Score             float64           `json:"score"`
	Rating            string            `json:"rating"`
	RatingDescription string            `json:"rating_description"`
	Acceptance        string            `json:"acceptance"`
	Treatment         string            `json:"treatment"`
	Controls          []string          `json:"controls"`
	Treatments        []string          `json:"treatments"`
	KPI               []string          `json:"kpi"`
	Evidences         []EvidencePayload `json:"evidences"`
}

// RiskPayload is the structured result of a risk assessment.
type RiskPayload struct {
	Version      string            `json:"version"`
	Question     string            `json:"question"`
	TotalRisks   int               `json:"total_risks"`
	Distribution map[string]int    `json:"distribution"`
	Risks        []RiskItemPayload `json:"risks"`
}

// BuildRiskPayload assembles the risk payload from finalized entries, in
// entry order. Distribution counts entries per rating label.
func BuildRiskPayload(version, question string, entries []*risk.Entry) *RiskPayload {
	payload := &RiskPayload{
		Version:      version,
		Question:     question,
		TotalRisks:   len(entries),
		Distribution: map[string]int{},
		Risks:        make([]RiskItemPayload, 0, len(entries)),
	}
	for _, entry := range entries {
		payload.Distribution[entry.Rating]++
		item := RiskItemPayload{
			ID:                entry.Hazard.ID,
			Area:              entry.Hazard.Area,
			Source:            entry.Hazard.Source,
			Event:             entry.Hazard.Event,
			Consequence:       entry.Hazard.Consequence,
			Likelihood:        entry.Likelihood,
			Impact:            entry.Impact,
			Score:             entry.Score,
			Rating:            entry.Rating,
			RatingDescription: entry.RatingDescription,
			Acceptance:        entry.Acceptance,
			Treatment:         entry.Treatment,
			Controls:          entry.Hazard.Controls,
			Treatments:        entry.Hazard.Treatments,
			KPI:               entry.DynamicKPIs,
		}
		for _, evidence := range entry.Evidences() {
			item.Evidences = append(item.Evidences, EvidencePayload{
				Sentence:   evidence.Sentence,
				Similarity: math.Round(evidence.Similarity*1000) / 1000,
				Negated:    evidence.Negated,
				Notes:      evidence.Notes,
			})
		}
		payload.Risks = append(payload.Risks, item)
	}
	return payload
}

var riskCSVHeaders = []string{"area", "risk event", "evidence", "likelihood", "impact", "score", "rating", "recommendation"}

// RiskCSV renders the entries as a CSV scorecard. Each row carries at most
// the first two evidence sentences.
func RiskCSV(entries []*risk.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		evidences := entry.Evidences()
		if len(evidences) > 2 {
			evidences = evidences[:2]
		}
		sentences := make([]string, len(evidences))
		for i, evidence := range evidences {
			sentences[i] = evidence.Sentence
		}
		rows = append(rows, []string{
			entry.Hazard.Area,
			fmt.Sprintf("%s (%s)", entry.Hazard.Event, entry.Hazard.Source),
			strings.Join(sentences, " | "),
			fmt.Sprintf("%.1f", entry.Likelihood),
			fmt.Sprintf("%.1f", entry.Impact),
			fmt.Sprintf("%.1f", entry.Score),
			entry.Rating,
			"action: " + entry.Treatment,
		})
	}
	return RenderCSV(riskCSVHeaders, rows)
}

// SupplierRowPayload is one scored template row in a supplier payload.
type SupplierRowPayload struct {
	Area           string  `json:"area"`
	Item           string  `json:"item"`
	Criterion      string  `json:"criterion"`
	Score          float64 `json:"score"`
	Weight         float64 `json:"weight"`
	Rationale      string  `json:"rationale"`
	Evidence       string  `json:"evidence"`
	EvidenceReason string  `json:"evidence_reason"`
}

// SupplierPayload is the structured result of a supplier evaluation.
type SupplierPayload struct {
	Supplier    string               `json:"supplier"`
	Industry    string               `json:"industry"`
	Template    string               `json:"template"`
	Version     string               `json:"version"`
	Summary     string               `json:"summary"`
	Grade       string               `json:"grade"`
	GradeLabel  string               `json:"grade_label"`
	GradeNote   string               `json:"grade_note"`
	Total       float64              `json:"total"`
	MaxScore    float64              `json:"max_score"`
	Rows        []SupplierRowPayload `json:"rows"`
	GlobalNotes []string             `json:"global_notes"`
	Risks       []string             `json:"risks"`
	Strengths   []string             `json:"strengths"`
}

// BuildSupplierPayload assembles the supplier payload from an evaluation
// result.
func BuildSupplierPayload(result *supplier.Result) *SupplierPayload {
	payload := &SupplierPayload{
		Supplier:    result.Supplier,
		Industry:    result.Industry,
		Template:    result.Template,
		Version:     result.Version,
		Summary:     result.Summary(),
		Grade:       result.Grade.Grade,
		GradeLabel:  result.Grade.Label,
		GradeNote:   result.Grade.Note,
		Total:       result.Total,
		MaxScore:    result.MaxScore,
		GlobalNotes: globalNotes(result),
		Risks:       result.Risks,
		Strengths:   result.Strengths,
	}
	for _, row := range result.Rows {
		payload.Rows = append(payload.Rows, SupplierRowPayload{
			Area:           row.Area,
			Item:           row.Item,
			Criterion:      row.Criterion,
			Score:          row.Score,
			Weight:         row.Weight,
			Rationale:      strings.Join(row.Rationale, " / "),
			Evidence:       row.Evidence,
			EvidenceReason: row.EvidenceReason,
		})
	}
	return payload
}

func globalNotes(result *supplier.Result) []string {
	var notes []string
	if len(result.PositiveSignals) > 0 {
		parts := make([]string, len(result.PositiveSignals))
		for i, hit := range result.PositiveSignals {
			parts[i] = fmt.Sprintf("%s (+%.1f)", hit.Keyword, hit.Impact)
		}
		notes = append(notes, "positive signals: "+strings.Join(parts, ", "))
	}
	if len(result.NegativeSignals) > 0 {
		parts := make([]string, len(result.NegativeSignals))
		for i, hit := range result.NegativeSignals {
			parts[i] = fmt.Sprintf("%s (-%.1f)", hit.Keyword, hit.Impact)
		}
		notes = append(notes, "negative signals: "+strings.Join(parts, ", "))
	}
	return notes
}

var supplierCSVHeaders = []string{"area", "item", "criterion", "score", "rationale"}

// SupplierCSV renders the scored rows as a CSV scorecard. Integral scores
// print without decimals, fractional scores with two.
func SupplierCSV(result *supplier.Result) string {
	rows := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, []string{
			row.Area,
			row.Item,
			row.Criterion,
			formatScore(row.Score),
			strings.Join(row.Rationale, " / "),
		})
	}
	return RenderCSV(supplierCSVHeaders, rows)
}

func formatScore(score float64) string {
	if score == math.Trunc(score) {
		return fmt.Sprintf("%d", int(score))
	}
	return fmt.Sprintf("%.2f", score)
}

var templateCSVHeaders = []string{"area", "item", "criterion", "scale", "notes"}

// TemplateCSV renders the blank evaluation template for a supplier and
// industry: a metadata line followed by one row per template line.
func TemplateCSV(bundle *template.Bundle, supplierName, industry string) string {
	meta := strings.Join([]string{
		"version", bundle.Version,
		"supplier", supplierName,
		"industry", industry,
		"template", bundle.Name,
	}, ",")
	rows := make([][]string, 0, len(bundle.Rows))
	for _, row := range bundle.Rows {
		note := ""
		if row.Weight != 1.0 {
			note = fmt.Sprintf("weight %.2f", row.Weight)
		}
		rows = append(rows, []string{row.Area, row.Item, row.Criterion, "0~5", note})
	}
	return meta + "\n" + RenderCSV(templateCSVHeaders, rows)
}
