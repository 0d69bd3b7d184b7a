package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliTaxonomy = `{
  "version": "cli-1",
  "risk_items": [{
    "id": "FALL-01",
    "area": "산업안전",
    "risk_source": "고소 작업",
    "event": "추락 사고",
    "keywords": ["추락", "발판", "난간"],
    "default_likelihood": 3.0,
    "default_impact": 4.0,
    "min_similarity": 0.2
  }],
  "rating_matrix": [
    {"min_score": 15, "label": "High", "acceptance": "불허"},
    {"min_score": 8, "label": "Medium", "acceptance": "조건부 허용"},
    {"min_score": 1, "label": "Low", "acceptance": "허용"}
  ],
  "negation_tokens": ["조치 완료"],
  "likelihood_modifiers": {"increase": ["않다"], "decrease": []},
  "impact_modifiers": {"increase": [], "decrease": []}
}`

const cliTemplate = `{
  "name": "default",
  "industry_tags": ["제조"],
  "areas": [{"name": "환경", "items": [
    {"name": "환경경영 인증", "criterion": "iso14001 보유",
     "evidence_keywords": ["iso14001"],
     "positive_signals": [{"keyword": "iso14001", "impact": 1.0}]}
  ]}],
  "grade_thresholds": [
    {"grade": "A", "min_ratio": 0.8, "label": "excellent"},
    {"grade": "C", "min_ratio": 0.0, "label": "needs improvement"}
  ]
}`

// writeFixtures lays out a taxonomy, a template dir, and a config file in a
// temp dir, returning the config path.
func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	taxonomyPath := filepath.Join(dir, "taxonomy.json")
	require.NoError(t, os.WriteFile(taxonomyPath, []byte(cliTaxonomy), 0o600))

	templateDir := filepath.Join(dir, "templates")
	require.NoError(t, os.Mkdir(templateDir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "default.json"), []byte(cliTemplate), 0o600))

	cfg := fmt.Sprintf("engine:\n  taxonomy_path: %s\n  template_dir: %s\nlog:\n  level: error\n",
		taxonomyPath, templateDir)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand("test")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssessCommandCSV(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "작업발판 난간이 설치되어 있지 않다.",
		"assess", "--config", cfgPath, "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "area,risk event")
	assert.Contains(t, out, "추락 사고")
	assert.Contains(t, out, "Medium")
}

func TestAssessCommandJSON(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "",
		"assess", "--config", cfgPath, "--format", "json", "작업발판 난간이 설치되어 있지 않다.")
	require.NoError(t, err)
	assert.Contains(t, out, `"total_risks": 1`)
}

func TestAssessCommandNoSignal(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "오늘 날씨가 맑다.", "assess", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no meaningful risk signal")
}

func TestMaterialityCommand(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "작업발판 난간이 설치되어 있지 않다. 추락 사고가 증가하고 있다.",
		"materiality", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Trend Summary: increasing")
	assert.Contains(t, out, "[Double Materiality]")
	assert.Contains(t, out, "[Triple Materiality]")
	assert.Contains(t, out, "Action Plan")
}

func TestMaterialityCommandNoContext(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "   ", "materiality", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no context provided")
}

func TestSupplierCommand(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "iso14001 인증을 보유하고 있다.",
		"supplier", "--config", cfgPath, "--name", "한빛테크", "--industry", "제조", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"grade": "A"`)
}

func TestSupplierCommandRequiresName(t *testing.T) {
	cfgPath := writeFixtures(t)
	_, err := runCommand(t, "텍스트", "supplier", "--config", cfgPath)
	require.Error(t, err)
}

func TestTemplateCommand(t *testing.T) {
	cfgPath := writeFixtures(t)
	out, err := runCommand(t, "", "template", "--config", cfgPath, "--industry", "제조", "--supplier", "한빛테크")
	require.NoError(t, err)
	assert.Contains(t, out, "환경경영 인증")
	assert.Contains(t, out, "한빛테크")
}
