package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

const sampleTemplate = `{
  "name": "manufacturing-v1",
  "version": "2024.1",
  "industry_tags": ["제조", "manufacturing"],
  "areas": [
    {
      "name": "노동·인권",
      "weight": 1.5,
      "items": [
        {
          "name": "아동노동 금지",
          "criterion": "아동노동 관련 위반 이력이 없어야 한다",
          "weight": 2.0,
          "base_score": 5.0,
          "zero_tolerance_keywords": ["아동노동", "강제노동"],
          "critical": true
        },
        {
          "name": "산업재해 관리",
          "criterion": "재해율이 업계 평균 이하",
          "scoring_mode": "log_scale",
          "metric_pattern": "재해\\s*(\\d+)\\s*건",
          "negative_signals": [{"keyword": "중대재해", "impact": 1.5}],
          "signal_cap": 2,
          "penalty_cap": 3.0
        }
      ]
    },
    {
      "name": "환경",
      "items": [
        {
          "name": "환경경영 인증",
          "criterion": "ISO14001 등 인증 보유",
          "requires_evidence": true,
          "evidence_keywords": ["iso14001", "인증"],
          "positive_signals": [{"keyword": "iso14001", "impact": 1.0}],
          "area_overrides": {"화학": 2.0}
        }
      ]
    }
  ],
  "grade_thresholds": [
    {"grade": "C", "min_ratio": 0.0, "label": "개선 필요"},
    {"grade": "A", "min_ratio": 0.85, "label": "우수"},
    {"grade": "B", "min_ratio": 0.7, "label": "양호"}
  ],
  "global_positive_signals": {"탄소중립 선언": 0.5},
  "global_negative_signals": {"환경법 위반": 1.0}
}`

func TestParseSampleTemplate(t *testing.T) {
	bundle, err := Parse([]byte(sampleTemplate), "sample.json")
	require.NoError(t, err)

	assert.Equal(t, "manufacturing-v1", bundle.Name)
	assert.Equal(t, []string{"제조", "manufacturing"}, bundle.Tags)
	require.Len(t, bundle.Rows, 3)

	// Row weight is area weight times item weight.
	child := bundle.Rows[0]
	assert.Equal(t, 3.0, child.Weight)
	assert.Equal(t, 5.0, child.BaseScore)
	assert.True(t, child.Behavior.Critical)
	assert.Equal(t, []string{"아동노동", "강제노동"}, child.Behavior.ZeroTolerance)

	injury := bundle.Rows[1]
	assert.Equal(t, "log_scale", injury.Behavior.ScoringMode)
	assert.Equal(t, 2, injury.Behavior.SignalCap)
	require.NotNil(t, injury.Behavior.PenaltyCap)
	assert.Equal(t, 3.0, *injury.Behavior.PenaltyCap)

	cert := bundle.Rows[2]
	assert.True(t, cert.Behavior.RequiresEvidence)
	assert.Equal(t, 1.0, cert.Weight)

	// Thresholds sorted by min ratio descending.
	require.Len(t, bundle.Thresholds, 3)
	assert.Equal(t, "A", bundle.Thresholds[0].Grade)
	assert.Equal(t, "B", bundle.Thresholds[1].Grade)
	assert.Equal(t, "C", bundle.Thresholds[2].Grade)
}

func TestParseDefaults(t *testing.T) {
	bundle, err := Parse([]byte(`{"areas": [{"items": [{"name": "기본 항목"}]}]}`), "bare.json")
	require.NoError(t, err)

	assert.Equal(t, "bare.json", bundle.Name)
	assert.Equal(t, "Supplier Template", bundle.Version)
	require.Len(t, bundle.Rows, 1)
	row := bundle.Rows[0]
	assert.Equal(t, "Uncategorized", row.Area)
	assert.Equal(t, 1.0, row.Weight)
	assert.Equal(t, 3.0, row.BaseScore)
	assert.Equal(t, "additive", row.Behavior.ScoringMode)
	assert.Equal(t, 3, row.Behavior.SignalCap)

	// Missing thresholds fall back to a single catch-all grade.
	require.Len(t, bundle.Thresholds, 1)
	assert.Equal(t, "C", bundle.Thresholds[0].Grade)
	assert.Equal(t, 0.0, bundle.Thresholds[0].MinRatio)
}

func TestRowWeightIndustryOverride(t *testing.T) {
	bundle, err := Parse([]byte(sampleTemplate), "sample.json")
	require.NoError(t, err)

	cert := bundle.Rows[2]
	assert.Equal(t, 1.0, RowWeight(cert, Normalize("제조")))
	assert.Equal(t, 2.0, RowWeight(cert, Normalize("화학")))
}

func TestStoreSelectByTag(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_manufacturing.json"), []byte(sampleTemplate), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_default.json"),
		[]byte(`{"name": "fallback", "areas": [{"items": [{"name": "항목"}]}]}`), 0o600))

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.Len(t, store.Bundles(), 2)

	// Tag match is a substring test against the normalized industry.
	assert.Equal(t, "manufacturing-v1", store.Select("전자 제조업").Name)
	assert.Equal(t, "manufacturing-v1", store.Select("Precision Manufacturing").Name)

	// No tag matches: first bundle wins. Untagged bundles never match by tag.
	assert.Equal(t, "manufacturing-v1", store.Select("금융").Name)
	assert.Equal(t, "manufacturing-v1", store.Select("").Name)
}

func TestStoreRejectsEmptyDir(t *testing.T) {
	_, err := NewStore(t.TempDir())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeTemplateMissing))
}
