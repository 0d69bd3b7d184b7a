// Package config defines all configuration structures for the ESG-Sentinel
// engine.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// Server run modes, matching gin's mode names.
const (
	ModeDebug   = "debug"
	ModeRelease = "release"
	ModeTest    = "test"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// EngineConfig holds risk-identification and supplier-scoring tunables.
type EngineConfig struct {
	// TaxonomyPath points to the hazard taxonomy definition file (JSON).
	// Required; the engine cannot operate on an undefined hazard universe.
	TaxonomyPath string `mapstructure:"taxonomy_path"`

	// TemplateDir is scanned for supplier evaluation template bundles (*.json).
	TemplateDir string `mapstructure:"template_dir"`

	// MaxSentences bounds the number of sentence units extracted from a risk
	// context before matching.
	MaxSentences int `mapstructure:"max_sentences"`

	// MaxContextSentences bounds the supplier-evaluation context size.
	MaxContextSentences int `mapstructure:"max_context_sentences"`

	// RiskTopK / EvidenceTopK control how many candidate spans are retrieved
	// per hazard query and per checklist item respectively.
	RiskTopK     int `mapstructure:"risk_top_k"`
	EvidenceTopK int `mapstructure:"evidence_top_k"`

	// WatchTaxonomy enables hot-reloading of the taxonomy file.
	WatchTaxonomy bool `mapstructure:"watch_taxonomy"`
}

// EmbeddingConfig holds parameters for the optional semantic embedding
// backend.  An empty Endpoint disables the semantic path entirely; the engine
// then runs on the lexical matcher.
type EmbeddingConfig struct {
	Endpoint string        `mapstructure:"endpoint"`
	Model    string        `mapstructure:"model"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters for assessment
// result persistence.  Disabled means results are returned but not stored.
type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis connection parameters for the rendered-result cache.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Kafka producer parameters for assessment-completed events.
type KafkaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Brokers      []string      `mapstructure:"brokers"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

// LogConfig mirrors logging.LogConfig; kept separate so this package does not
// depend on the logging implementation.
type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Format      string   `mapstructure:"format"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// Config is the root configuration object.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Log       LogConfig       `mapstructure:"log"`
}

// Validate checks the configuration for internal consistency.  It is called
// by the loader after defaults are applied, so unset optional fields have
// already been filled.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case ModeDebug, ModeRelease, ModeTest:
	default:
		return fmt.Errorf("server.mode must be debug|release|test, got %q", c.Server.Mode)
	}
	if c.Engine.TaxonomyPath == "" {
		return fmt.Errorf("engine.taxonomy_path is required")
	}
	if c.Engine.MaxSentences <= 0 {
		return fmt.Errorf("engine.max_sentences must be positive, got %d", c.Engine.MaxSentences)
	}
	if c.Engine.MaxContextSentences <= 0 {
		return fmt.Errorf("engine.max_context_sentences must be positive, got %d", c.Engine.MaxContextSentences)
	}
	if c.Engine.RiskTopK <= 0 || c.Engine.EvidenceTopK <= 0 {
		return fmt.Errorf("engine top_k values must be positive")
	}
	if c.Database.Enabled {
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("database.host and database.db_name are required when database.enabled")
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers is required when kafka.enabled")
	}
	return nil
}
