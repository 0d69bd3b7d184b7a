// Command apiserver runs the ESG-Sentinel HTTP API: risk assessment,
// supplier evaluation, template rendering, health, and metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
	"github.com/turtacn/ESG-Sentinel/internal/engine/match"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
	"github.com/turtacn/ESG-Sentinel/internal/engine/supplier"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/database/postgres"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/database/redis"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/embedding"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
	apihttp "github.com/turtacn/ESG-Sentinel/internal/interfaces/http"
	"github.com/turtacn/ESG-Sentinel/internal/interfaces/http/handlers"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to config file (YAML); falls back to ESG_* env vars")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		return err
	}
	logger.Info("starting esg-sentinel api server", logging.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics()

	taxonomies, err := taxonomy.NewStore(cfg.Engine.TaxonomyPath)
	if err != nil {
		return err
	}
	if cfg.Engine.WatchTaxonomy {
		watcher, err := taxonomy.NewWatcher(taxonomies, logger)
		if err != nil {
			return err
		}
		defer watcher.Close()
		go watcher.Run(ctx)
	}

	templates, err := template.NewStore(cfg.Engine.TemplateDir)
	if err != nil {
		return err
	}

	var indexer match.Indexer = match.NewLexicalIndexer()
	if cfg.Embedding.Endpoint != "" {
		embedder := embedding.NewClient(embedding.Config{
			Endpoint: cfg.Embedding.Endpoint,
			Model:    cfg.Embedding.Model,
			APIKey:   cfg.Embedding.APIKey,
			Timeout:  cfg.Embedding.Timeout,
		}, logger)
		indexer = match.NewSemanticIndexer(embedder, logger, metrics.RankerDegradations.Inc)
		logger.Info("semantic matching enabled", logging.String("endpoint", cfg.Embedding.Endpoint))
	} else {
		logger.Info("semantic matching disabled, running on the lexical matcher")
	}

	var repo assessment.Repository
	var pgConn *postgres.Connection
	if cfg.Database.Enabled {
		pgConn, err = postgres.NewConnection(ctx, cfg.Database, logger)
		if err != nil {
			return err
		}
		defer pgConn.Close()
		repo = postgres.NewAssessmentRepository(pgConn, logger)
	}

	var cache assessment.ResultCache
	var redisCache *redis.Cache
	if cfg.Redis.Enabled {
		redisCache, err = redis.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		cache = redisCache
	}

	var publisher assessment.EventPublisher
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, metrics, logger)
		defer producer.Close()
		publisher = producer
	}

	countUnits := func(n int) { metrics.SentencesProcessed.Add(float64(n)) }
	assessor := risk.NewAssessor(indexer, logger, cfg.Engine.MaxSentences, cfg.Engine.RiskTopK)
	assessor.SetUnitCounter(countUnits)
	engine := supplier.NewEngine(templates, indexer, supplier.NewValidator(nil), nil,
		logger, cfg.Engine.MaxContextSentences, cfg.Engine.EvidenceTopK)
	engine.SetUnitCounter(countUnits)
	service := assessment.NewService(taxonomies, assessor, engine, repo, cache, publisher, metrics, logger)

	health := handlers.NewHealthHandler(version)
	if pgConn != nil {
		health.AddChecker("postgres", pgConn)
	}
	if redisCache != nil {
		health.AddChecker("redis", redisCache)
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		Health:  health,
		Mode:    cfg.Server.Mode,
	})
	server := apihttp.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return <-errCh
}
