// Package materiality classifies finalized risk entries on the double
// materiality axes (impact on people and environment versus financial
// exposure), extends them with the taxonomy's triple materiality narratives,
// and renders the combined trend report.
package materiality

import (
	"fmt"
	"sort"
	"strings"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/engine/report"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
)

// Financial materiality thresholds on the 1..25 risk score scale.
const (
	financialHighScore   = 16.0
	financialMediumScore = 9.0
)

// Trend vocabularies. The document context is scanned for these phrases to
// summarise whether the described risk situation is worsening or easing.
var (
	trendIncreaseTerms = []string{"증가", "악화", "빈번"}
	trendDecreaseTerms = []string{"감소", "개선", "완화"}
)

const noEvidenceMessage = "no explicit evidence sentence found in the document"

// Levels classifies one finalized entry on both materiality axes. Impact
// materiality follows the rating label; financial materiality follows the
// raw score thresholds.
func Levels(entry *risk.Entry) (impact, financial string) {
	switch entry.Rating {
	case "High", "Medium":
		impact = entry.Rating
	default:
		impact = "Low"
	}
	switch {
	case entry.Score >= financialHighScore:
		financial = "High"
	case entry.Score >= financialMediumScore:
		financial = "Medium"
	default:
		financial = "Low"
	}
	return impact, financial
}

// Trend summarises the direction of the risk situation, the drivers behind
// it, and the leading evidence sentence.
func Trend(entries []*risk.Entry, context string) (summary, drivers, evidence string) {
	lowered := strings.ToLower(context)
	switch {
	case containsAny(lowered, trendIncreaseTerms):
		summary = "increasing"
	case containsAny(lowered, trendDecreaseTerms):
		summary = "decreasing"
	default:
		summary = "stable"
	}

	var found []string
	if strings.Contains(lowered, "법") || strings.Contains(lowered, "규제") {
		found = append(found, "regulatory change")
	}
	for _, entry := range entries {
		if entry.Rating == "High" {
			found = append(found, "high-risk frequency")
			break
		}
	}
	if strings.Contains(lowered, "협력") || strings.Contains(lowered, "공급") {
		found = append(found, "supply chain exposure")
	}
	if len(found) == 0 {
		found = append(found, "general document estimate")
	}

	evidence = noEvidenceMessage
	if len(entries) > 0 {
		if sentences := entries[0].Evidences(); len(sentences) > 0 {
			evidence = sentences[0].Sentence
		}
	}
	return summary, strings.Join(found, ", "), evidence
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

var (
	doubleCSVHeaders = []string{"area", "risk factor", "impact materiality", "financial materiality", "evidence"}
	tripleCSVHeaders = []string{"area", "risk factor", "supply chain impact", "stakeholder impact", "systemic impact"}
)

// DoubleCSV renders the double materiality table, one row per entry.
func DoubleCSV(entries []*risk.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		impact, financial := Levels(entry)
		rows = append(rows, []string{
			entry.Hazard.Area,
			entry.Hazard.Event,
			impact,
			financial,
			firstEvidence(entry),
		})
	}
	return report.RenderCSV(doubleCSVHeaders, rows)
}

// TripleCSV renders the triple materiality table from the taxonomy's
// per-area narratives. Areas the taxonomy does not describe get empty cells.
func TripleCSV(tax *taxonomy.Taxonomy, entries []*risk.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		profile := tax.MaterialityFor(entry.Hazard.Area)
		rows = append(rows, []string{
			entry.Hazard.Area,
			entry.Hazard.Event,
			profile.SupplyChain,
			profile.Stakeholder,
			profile.Systemic,
		})
	}
	return report.RenderCSV(tripleCSVHeaders, rows)
}

func firstEvidence(entry *risk.Entry) string {
	if sentences := entry.Evidences(); len(sentences) > 0 {
		return sentences[0].Sentence
	}
	return ""
}

// BuildReport assembles the full materiality report: trend summary, double
// and triple materiality tables, the highest-scoring risks, and the standing
// action plan.
func BuildReport(tax *taxonomy.Taxonomy, entries []*risk.Entry, context string) string {
	summary, drivers, evidence := Trend(entries, context)

	top := make([]*risk.Entry, len(entries))
	copy(top, entries)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 5 {
		top = top[:5]
	}
	topLines := make([]string, 0, len(top))
	for _, entry := range top {
		topLines = append(topLines, fmt.Sprintf("- %s/%s: %s (score %.1f)",
			entry.Hazard.Area, entry.Hazard.Event, entry.Rating, entry.Score))
	}
	topBlock := "- no high-priority risks identified"
	if len(topLines) > 0 {
		topBlock = strings.Join(topLines, "\n")
	}

	sections := []string{
		"Trend Summary: " + summary,
		"Trend Drivers: " + drivers,
		"Evidence: " + evidence,
		"",
		"[Double Materiality]",
		DoubleCSV(entries),
		"",
		"[Triple Materiality]",
		TripleCSV(tax, entries),
		"",
		"Top Risks",
		topBlock,
		"",
		"Materiality Summary",
		"- impact and financial materiality combined to select the risks to manage first",
		"",
		"Action Plan",
		strings.Join([]string{
			"1) run periodic risk reviews on an ISO 31000 cycle",
			"2) strengthen ESG due diligence across supply chain partners",
			"3) operate KPI-linked monitoring dashboards",
		}, "\n"),
	}
	return strings.Join(sections, "\n")
}
