// Package assessment orchestrates the risk and supplier engines behind the
// HTTP and CLI interfaces: caching, persistence, event publication, and
// metrics around the pure scoring cores.
package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/ESG-Sentinel/internal/domain/taxonomy"
	"github.com/turtacn/ESG-Sentinel/internal/engine/materiality"
	"github.com/turtacn/ESG-Sentinel/internal/engine/report"
	"github.com/turtacn/ESG-Sentinel/internal/engine/risk"
	"github.com/turtacn/ESG-Sentinel/internal/engine/supplier"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Repository persists completed assessments. Optional.
type Repository interface {
	SaveRiskAssessment(ctx context.Context, id string, payload *report.RiskPayload) error
	SaveSupplierEvaluation(ctx context.Context, id string, payload *report.SupplierPayload) error
}

// ResultCache caches rendered results keyed by request digest. Optional.
type ResultCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
}

// EventPublisher announces completed assessments. Optional.
type EventPublisher interface {
	PublishAssessmentCompleted(ctx context.Context, event kafka.AssessmentCompletedEvent) error
}

// RiskRequest is one risk assessment call.
type RiskRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

// RiskResponse is the rendered outcome of a risk assessment.
type RiskResponse struct {
	ID      string              `json:"id"`
	Message string              `json:"message,omitempty"`
	CSV     string              `json:"csv,omitempty"`
	Payload *report.RiskPayload `json:"payload,omitempty"`
}

// MaterialityResponse is the rendered outcome of a materiality analysis.
type MaterialityResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
	Report  string `json:"report,omitempty"`
}

// SupplierRequest is one supplier evaluation call.
type SupplierRequest struct {
	Supplier  string   `json:"supplier"`
	Industry  string   `json:"industry"`
	Context   string   `json:"context"`
	Documents []string `json:"documents,omitempty"`
}

// SupplierResponse is the rendered outcome of a supplier evaluation.
type SupplierResponse struct {
	ID      string                  `json:"id"`
	CSV     string                  `json:"csv"`
	Payload *report.SupplierPayload `json:"payload"`
}

// Service runs assessments end to end.
type Service struct {
	taxonomies *taxonomy.Store
	assessor   *risk.Assessor
	suppliers  *supplier.Engine

	repo      Repository
	cache     ResultCache
	publisher EventPublisher

	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewService wires the engines and optional infrastructure ports. repo,
// cache, and publisher may each be nil; the service then skips that concern.
func NewService(taxonomies *taxonomy.Store, assessor *risk.Assessor, suppliers *supplier.Engine,
	repo Repository, cache ResultCache, publisher EventPublisher,
	metrics *prometheus.Metrics, logger logging.Logger) *Service {
	return &Service{
		taxonomies: taxonomies,
		assessor:   assessor,
		suppliers:  suppliers,
		repo:       repo,
		cache:      cache,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger.Named("assessment.service"),
	}
}

func digest(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func trimmed(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// AssessRisk identifies and scores hazards in the request context. Empty
// contexts and contexts with no recognizable signal return a message
// response instead of an error, mirroring how analysts consume the report.
func (s *Service) AssessRisk(ctx context.Context, req RiskRequest) (*RiskResponse, error) {
	start := time.Now()
	if !trimmed(req.Context) {
		return &RiskResponse{Message: report.MsgNoContext}, nil
	}

	key := "risk:" + digest(req.Context, req.Question)
	if s.cache != nil {
		var cached RiskResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.countCacheHit(true)
			return &cached, nil
		}
		s.countCacheHit(false)
	}

	tax := s.taxonomies.Current()
	entries, err := s.assessor.Identify(ctx, tax, req.Context)
	if err != nil {
		s.observe("risk", start, false)
		return nil, apperrors.Wrap(err, apperrors.CodeRiskAssessmentFailed, "risk identification failed")
	}
	if len(entries) == 0 {
		s.observe("risk", start, true)
		return &RiskResponse{Message: report.MsgNoSignal}, nil
	}

	resp := &RiskResponse{
		ID:      uuid.NewString(),
		CSV:     report.RiskCSV(entries),
		Payload: report.BuildRiskPayload(tax.Version, req.Question, entries),
	}
	if s.metrics != nil {
		for _, entry := range entries {
			s.metrics.RatingDistribution.WithLabelValues(entry.Rating).Inc()
		}
	}

	s.persistRisk(ctx, resp, entries)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.logger.Warn("failed to cache risk result", logging.Err(err))
		}
	}
	s.observe("risk", start, true)
	return resp, nil
}

func (s *Service) persistRisk(ctx context.Context, resp *RiskResponse, entries []*risk.Entry) {
	if s.repo != nil {
		if err := s.repo.SaveRiskAssessment(ctx, resp.ID, resp.Payload); err != nil {
			s.logger.Warn("failed to persist risk assessment",
				logging.String("id", resp.ID), logging.Err(err))
		}
	}
	if s.publisher != nil {
		event := kafka.AssessmentCompletedEvent{
			ID:          resp.ID,
			Kind:        kafka.KindRiskAssessment,
			TotalRisks:  len(entries),
			TopRating:   entries[0].Rating,
			CompletedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishAssessmentCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish risk event",
				logging.String("id", resp.ID), logging.Err(err))
		}
	}
}

// AnalyzeMateriality runs a risk assessment over the request context and
// derives the materiality trend report from its finalized entries.
func (s *Service) AnalyzeMateriality(ctx context.Context, req RiskRequest) (*MaterialityResponse, error) {
	start := time.Now()
	if !trimmed(req.Context) {
		return &MaterialityResponse{Message: report.MsgNoContext}, nil
	}

	key := "materiality:" + digest(req.Context, req.Question)
	if s.cache != nil {
		var cached MaterialityResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.countCacheHit(true)
			return &cached, nil
		}
		s.countCacheHit(false)
	}

	tax := s.taxonomies.Current()
	entries, err := s.assessor.Identify(ctx, tax, req.Context)
	if err != nil {
		s.observe("materiality", start, false)
		return nil, apperrors.Wrap(err, apperrors.CodeRiskAssessmentFailed, "materiality analysis failed")
	}
	if len(entries) == 0 {
		s.observe("materiality", start, true)
		return &MaterialityResponse{Message: report.MsgNoSignal}, nil
	}

	resp := &MaterialityResponse{
		ID:     uuid.NewString(),
		Report: materiality.BuildReport(tax, entries, req.Context),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.logger.Warn("failed to cache materiality result", logging.Err(err))
		}
	}
	s.observe("materiality", start, true)
	return resp, nil
}

// EvaluateSupplier scores a supplier against its industry template.
func (s *Service) EvaluateSupplier(ctx context.Context, req SupplierRequest) (*SupplierResponse, error) {
	start := time.Now()
	if req.Supplier == "" {
		return nil, apperrors.NewValidationError("supplier", "supplier name is required")
	}

	key := "supplier:" + digest(req.Supplier, req.Industry, req.Context)
	if s.cache != nil && len(req.Documents) == 0 {
		var cached SupplierResponse
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			s.countCacheHit(true)
			return &cached, nil
		}
		s.countCacheHit(false)
	}

	result, err := s.suppliers.Evaluate(ctx, supplier.Request{
		Supplier:  req.Supplier,
		Industry:  req.Industry,
		Context:   req.Context,
		Documents: req.Documents,
	})
	if err != nil {
		s.observe("supplier", start, false)
		return nil, apperrors.Wrap(err, apperrors.CodeSupplierEvaluationFailed, "supplier evaluation failed")
	}

	resp := &SupplierResponse{
		ID:      uuid.NewString(),
		CSV:     report.SupplierCSV(result),
		Payload: report.BuildSupplierPayload(result),
	}
	if s.metrics != nil {
		s.metrics.GradeDistribution.WithLabelValues(result.Grade.Grade).Inc()
	}

	if s.repo != nil {
		if err := s.repo.SaveSupplierEvaluation(ctx, resp.ID, resp.Payload); err != nil {
			s.logger.Warn("failed to persist supplier evaluation",
				logging.String("id", resp.ID), logging.Err(err))
		}
	}
	if s.publisher != nil {
		event := kafka.AssessmentCompletedEvent{
			ID:          resp.ID,
			Kind:        kafka.KindSupplierEvaluation,
			Supplier:    result.Supplier,
			Industry:    result.Industry,
			Grade:       result.Grade.Grade,
			CompletedAt: time.Now().UTC(),
		}
		if err := s.publisher.PublishAssessmentCompleted(ctx, event); err != nil {
			s.logger.Warn("failed to publish supplier event",
				logging.String("id", resp.ID), logging.Err(err))
		}
	}
	if s.cache != nil && len(req.Documents) == 0 {
		if err := s.cache.Set(ctx, key, resp); err != nil {
			s.logger.Warn("failed to cache supplier result", logging.Err(err))
		}
	}
	s.observe("supplier", start, true)
	return resp, nil
}

// TemplateCSV renders the blank evaluation template for an industry.
func (s *Service) TemplateCSV(supplierName, industry string) string {
	bundle := s.suppliers.Template(industry)
	return report.TemplateCSV(bundle, supplierName, industry)
}

func (s *Service) observe(kind string, start time.Time, ok bool) {
	if s.metrics == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	s.metrics.AssessmentsTotal.WithLabelValues(kind, status).Inc()
	s.metrics.AssessmentDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (s *Service) countCacheHit(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.Inc()
	} else {
		s.metrics.CacheMissesTotal.Inc()
	}
}
