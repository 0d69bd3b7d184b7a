package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "data/esg_taxonomy.json", cfg.Engine.TaxonomyPath)
	assert.Equal(t, 300, cfg.Engine.MaxSentences)
	assert.Equal(t, 250, cfg.Engine.MaxContextSentences)
	assert.Equal(t, 4, cfg.Engine.RiskTopK)
	assert.Equal(t, 2, cfg.Engine.EvidenceTopK)
	assert.Equal(t, 15*time.Minute, cfg.Redis.DefaultTTL)
	assert.Equal(t, "esg:", cfg.Redis.KeyPrefix)
}

func TestApplyDefaultsDoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9090
	cfg.Engine.MaxSentences = 50
	cfg.Log.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 50, cfg.Engine.MaxSentences)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }, "server.mode"},
		{"missing taxonomy", func(c *Config) { c.Engine.TaxonomyPath = "" }, "taxonomy_path"},
		{"zero sentences", func(c *Config) { c.Engine.MaxSentences = -1 }, "max_sentences"},
		{"zero top_k", func(c *Config) { c.Engine.RiskTopK = 0 }, "top_k"},
		{"db enabled without host", func(c *Config) { c.Database.Enabled = true; c.Database.Host = "" }, "database.host"},
		{"redis enabled without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"kafka enabled without brokers", func(c *Config) { c.Kafka.Enabled = true }, "kafka.brokers"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
