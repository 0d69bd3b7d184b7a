// Package integration exercises the full assessment pipeline against the
// taxonomy and template files shipped under data/.
package integration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
	"github.com/turtacn/ESG-Sentinel/internal/engine/match"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
	"github.com/turtacn/ESG-Sentinel/internal/engine/supplier"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

func newService(t *testing.T) *assessment.Service {
	t.Helper()

	store, err := taxonomy.NewStore(filepath.Join("..", "..", "data", "esg_taxonomy.json"))
	require.NoError(t, err)
	templates, err := template.NewStore(filepath.Join("..", "..", "data", "supplier_templates"))
	require.NoError(t, err)

	logger := logging.NewNopLogger()
	indexer := match.NewLexicalIndexer()
	assessor := risk.NewAssessor(indexer, logger, 300, 4)
	engine := supplier.NewEngine(templates, indexer, supplier.NewValidator(nil), nil, logger, 250, 2)
	return assessment.NewService(store, assessor, engine, nil, nil, nil, nil, logger)
}

func TestShippedTaxonomyParses(t *testing.T) {
	tax, err := taxonomy.LoadFile(filepath.Join("..", "..", "data", "esg_taxonomy.json"))
	require.NoError(t, err)
	assert.NotEmpty(t, tax.Hazards)
	assert.NotEmpty(t, tax.Bands)
	for _, hazard := range tax.Hazards {
		assert.NotEmpty(t, hazard.Keywords, "hazard %s has no keywords", hazard.ID)
		assert.NotEmpty(t, hazard.Query())
	}
}

func TestShippedTemplatesParse(t *testing.T) {
	store, err := template.NewStore(filepath.Join("..", "..", "data", "supplier_templates"))
	require.NoError(t, err)
	require.Len(t, store.Bundles(), 2)

	// Tagged bundle wins for its industries, untagged default catches the rest.
	assert.Equal(t, "manufacturing", store.Select("전자부품 제조").Name)
	assert.Equal(t, "default", store.Select("물류").Name)
}

func TestRiskPipelineOnShippedTaxonomy(t *testing.T) {
	svc := newService(t)

	resp, err := svc.AssessRisk(context.Background(), assessment.RiskRequest{
		Context: "3층 비계에서 작업발판 난간이 설치되어 있지 않다. 용접 구역에 가연물이 방치되어 있다.",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Payload)
	assert.GreaterOrEqual(t, resp.Payload.TotalRisks, 2)
	assert.NotEmpty(t, resp.CSV)

	areas := make(map[string]bool)
	for _, item := range resp.Payload.Risks {
		areas[item.Area] = true
	}
	assert.True(t, areas["산업안전"])
}

func TestMaterialityPipelineOnShippedTaxonomy(t *testing.T) {
	svc := newService(t)

	resp, err := svc.AnalyzeMateriality(context.Background(), assessment.RiskRequest{
		Context: "작업발판 난간이 설치되어 있지 않다. 최근 추락 사고가 증가하고 있다.",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Message)
	assert.Contains(t, resp.Report, "Trend Summary: increasing")
	assert.Contains(t, resp.Report, "[Triple Materiality]")
	// Narratives from the shipped taxonomy flow into the triple table.
	assert.Contains(t, resp.Report, "산업 전반의 안전문화 저하")
}

func TestSupplierPipelineOnShippedTemplates(t *testing.T) {
	svc := newService(t)

	resp, err := svc.EvaluateSupplier(context.Background(), assessment.SupplierRequest{
		Supplier: "한빛테크",
		Industry: "제조",
		Context:  "iso45001 안전보건경영 인증을 보유하고 있다. 정기 위험성평가를 실시하고 개선 조치를 기록한다. 온실가스 배출량을 측정하고 감축 목표를 운영한다.",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Payload)
	assert.Equal(t, "한빛테크", resp.Payload.Supplier)
	assert.NotEmpty(t, resp.Payload.Grade)
	assert.NotEmpty(t, resp.CSV)
}

func TestTemplateSheetOnShippedTemplates(t *testing.T) {
	svc := newService(t)
	csv := svc.TemplateCSV("한빛테크", "제조")
	assert.Contains(t, csv, "중대재해 이력")
	assert.Contains(t, csv, "한빛테크")
}
