package materiality

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
)

const materialityTaxonomy = `{
  "version": "test-1",
  "risk_items": [
    {"id": "FALL-01", "area": "산업안전", "event": "추락 사고", "keywords": ["추락"]}
  ],
  "rating_matrix": [
    {"min_score": 15, "label": "High"},
    {"min_score": 8, "label": "Medium"},
    {"min_score": 1, "label": "Low"}
  ],
  "materiality_impacts": {
    "산업안전": {
      "supply_chain": "협력사 작업 중단 및 납기 지연",
      "stakeholder": "근로자 안전 신뢰 저하",
      "systemic": "산업 전반의 안전 규제 강화"
    }
  }
}`

func materialityTestTaxonomy(t *testing.T) *taxonomy.Taxonomy {
	t.Helper()
	tax, err := taxonomy.Parse([]byte(materialityTaxonomy))
	require.NoError(t, err)
	return tax
}

func entryWith(area, event, rating string, score float64, evidence string) *risk.Entry {
	entry := &risk.Entry{
		Hazard: &taxonomy.Hazard{ID: "T-" + event, Area: area, Event: event},
		Score:  score,
		Rating: rating,
	}
	if evidence != "" {
		entry.Observations = []risk.Observation{{Evidence: risk.Evidence{Sentence: evidence}}}
	}
	return entry
}

func TestLevelsFollowRatingAndScoreThresholds(t *testing.T) {
	cases := []struct {
		rating            string
		score             float64
		impact, financial string
	}{
		{"High", 20.0, "High", "High"},
		{"Medium", 16.0, "Medium", "High"},
		{"Medium", 9.0, "Medium", "Medium"},
		{"Low", 8.9, "Low", "Low"},
		{"", 3.0, "Low", "Low"},
	}
	for _, tc := range cases {
		impact, financial := Levels(entryWith("산업안전", "추락 사고", tc.rating, tc.score, ""))
		assert.Equal(t, tc.impact, impact, "rating=%s score=%v", tc.rating, tc.score)
		assert.Equal(t, tc.financial, financial, "rating=%s score=%v", tc.rating, tc.score)
	}
}

func TestTrendDirection(t *testing.T) {
	summary, _, _ := Trend(nil, "최근 추락 사고가 증가하고 있다.")
	assert.Equal(t, "increasing", summary)

	summary, _, _ = Trend(nil, "안전 관리가 개선되었다.")
	assert.Equal(t, "decreasing", summary)

	summary, _, _ = Trend(nil, "특이사항 없음.")
	assert.Equal(t, "stable", summary)
}

func TestTrendDriversAndEvidence(t *testing.T) {
	entries := []*risk.Entry{
		entryWith("산업안전", "추락 사고", "High", 18.0, "작업발판 난간이 설치되어 있지 않다."),
	}
	_, drivers, evidence := Trend(entries, "규제 강화와 공급망 점검이 진행 중이다.")
	assert.Equal(t, "regulatory change, high-risk frequency, supply chain exposure", drivers)
	assert.Equal(t, "작업발판 난간이 설치되어 있지 않다.", evidence)

	// Nothing matches: the generic driver and evidence fallbacks apply.
	_, drivers, evidence = Trend(nil, "특이사항 없음.")
	assert.Equal(t, "general document estimate", drivers)
	assert.Equal(t, noEvidenceMessage, evidence)
}

func TestDoubleCSVRows(t *testing.T) {
	entries := []*risk.Entry{
		entryWith("산업안전", "추락 사고", "High", 18.0, "난간 미설치 상태가 확인되었다."),
		entryWith("환경", "폐수 유출", "Medium", 10.0, ""),
	}
	csv := DoubleCSV(entries)
	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "area,risk factor,impact materiality,financial materiality,evidence", lines[0])
	assert.Equal(t, "산업안전,추락 사고,High,High,난간 미설치 상태가 확인되었다.", lines[1])
	assert.Equal(t, "환경,폐수 유출,Medium,Medium,", lines[2])
}

func TestTripleCSVUsesTaxonomyNarratives(t *testing.T) {
	tax := materialityTestTaxonomy(t)
	entries := []*risk.Entry{
		entryWith("산업안전", "추락 사고", "High", 18.0, ""),
		entryWith("환경", "폐수 유출", "Medium", 10.0, ""),
	}
	csv := TripleCSV(tax, entries)
	lines := strings.Split(csv, "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "협력사 작업 중단 및 납기 지연")
	assert.Contains(t, lines[1], "산업 전반의 안전 규제 강화")
	// Undescribed areas render empty narrative cells.
	assert.Equal(t, "환경,폐수 유출,,,", lines[2])
}

func TestBuildReportSections(t *testing.T) {
	tax := materialityTestTaxonomy(t)
	entries := []*risk.Entry{
		entryWith("산업안전", "추락 사고", "High", 18.0, "난간이 설치되어 있지 않다."),
		entryWith("환경", "폐수 유출", "Medium", 10.0, ""),
	}
	out := BuildReport(tax, entries, "추락 사고가 증가하고 있으며 규제가 강화되었다.")

	assert.Contains(t, out, "Trend Summary: increasing")
	assert.Contains(t, out, "Trend Drivers: regulatory change, high-risk frequency")
	assert.Contains(t, out, "Evidence: 난간이 설치되어 있지 않다.")
	assert.Contains(t, out, "[Double Materiality]")
	assert.Contains(t, out, "[Triple Materiality]")
	assert.Contains(t, out, "- 산업안전/추락 사고: High (score 18.0)")
	assert.Contains(t, out, "Action Plan")
}

func TestBuildReportCapsTopRisks(t *testing.T) {
	tax := materialityTestTaxonomy(t)
	var entries []*risk.Entry
	for i := 0; i < 7; i++ {
		entries = append(entries,
			entryWith("산업안전", fmt.Sprintf("사고유형%d", i), "Medium", float64(10+i), ""))
	}
	out := BuildReport(tax, entries, "현황 보고.")

	// The top risk block lists at most five entries, highest score first.
	assert.Equal(t, 5, strings.Count(out, "(score "))
	assert.Contains(t, out, "- 산업안전/사고유형6: Medium (score 16.0)")
	assert.NotContains(t, out, "사고유형1: Medium (score")
}

func TestBuildReportWithoutEntries(t *testing.T) {
	tax := materialityTestTaxonomy(t)
	out := BuildReport(tax, nil, "특이사항 없음.")
	assert.Contains(t, out, "- no high-priority risks identified")
	assert.Contains(t, out, "Evidence: "+noEvidenceMessage)
}
