package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9191
  mode: debug
engine:
  taxonomy_path: testdata/taxonomy.json
  max_sentences: 100
embedding:
  endpoint: http://localhost:8001/v1/embeddings
  timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "testdata/taxonomy.json", cfg.Engine.TaxonomyPath)
	assert.Equal(t, 100, cfg.Engine.MaxSentences)
	assert.Equal(t, 5*time.Second, cfg.Embedding.Timeout)

	// Unset fields pick up defaults.
	assert.Equal(t, 250, cfg.Engine.MaxContextSentences)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadInvalidValues(t *testing.T) {
	path := writeTempConfig(t, `
server:
  mode: staging
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ESG_SERVER_PORT", "7070")
	t.Setenv("ESG_ENGINE_TAXONOMY_PATH", "/etc/esg/taxonomy.json")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "/etc/esg/taxonomy.json", cfg.Engine.TaxonomyPath)
}

func TestMustLoadPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "absent.yaml"))
	})
}
