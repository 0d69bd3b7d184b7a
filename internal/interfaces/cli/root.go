// Package cli implements the esgsentinel command line interface. It drives
// the same assessment service as the API server, without the optional
// persistence and messaging infrastructure.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/turtacn/ESG-Sentinel/internal/application/assessment"
	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/domain/template"
	"github.com/turtacn/ESG-Sentinel/internal/engine/match"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
	"github.com/turtacn/ESG-Sentinel/internal/engine/supplier"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/embedding"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
)

type rootOptions struct {
	configPath string
}

// NewRootCommand builds the esgsentinel root command with all subcommands
// attached.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "esgsentinel",
		Short:         "ESG risk identification and supplier scoring engine",
		Long:          "esgsentinel analyses workplace and supply-chain text against an ESG hazard taxonomy,\nscores the identified risks, and evaluates suppliers against checklist templates.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to config file (YAML)")

	cmd.AddCommand(newAssessCommand(opts))
	cmd.AddCommand(newMaterialityCommand(opts))
	cmd.AddCommand(newSupplierCommand(opts))
	cmd.AddCommand(newTemplateCommand(opts))

	return cmd
}

// runtime bundles the pieces a subcommand needs.
type runtime struct {
	cfg     *config.Config
	logger  logging.Logger
	service *assessment.Service
}

func newRuntime(opts *rootOptions) (*runtime, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	// CLI output goes to stdout, so logs move to stderr to keep the two
	// streams separable.
	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, err
	}

	taxonomies, err := taxonomy.NewStore(cfg.Engine.TaxonomyPath)
	if err != nil {
		return nil, err
	}
	templates, err := template.NewStore(cfg.Engine.TemplateDir)
	if err != nil {
		return nil, err
	}

	var indexer match.Indexer = match.NewLexicalIndexer()
	if cfg.Embedding.Endpoint != "" {
		embedder := embedding.NewClient(embedding.Config{
			Endpoint: cfg.Embedding.Endpoint,
			Model:    cfg.Embedding.Model,
			APIKey:   cfg.Embedding.APIKey,
			Timeout:  cfg.Embedding.Timeout,
		}, logger)
		indexer = match.NewSemanticIndexer(embedder, logger, nil)
	}

	assessor := risk.NewAssessor(indexer, logger, cfg.Engine.MaxSentences, cfg.Engine.RiskTopK)
	engine := supplier.NewEngine(templates, indexer, supplier.NewValidator(nil), nil,
		logger, cfg.Engine.MaxContextSentences, cfg.Engine.EvidenceTopK)

	svc := assessment.NewService(taxonomies, assessor, engine, nil, nil, nil, nil, logger)
	return &runtime{cfg: cfg, logger: logger, service: svc}, nil
}

// readContext resolves the analysis text: an explicit file wins, then inline
// args, then stdin.
func readContext(cmd *cobra.Command, file string, args []string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}
