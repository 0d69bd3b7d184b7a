package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/ESG-Sentinel/internal/engine/report"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// AssessmentRepository stores completed assessment payloads as JSONB rows.
//
// Expected schema:
//
//	CREATE TABLE risk_assessments (
//	    id         UUID PRIMARY KEY,
//	    question   TEXT NOT NULL DEFAULT '',
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE TABLE supplier_evaluations (
//	    id         UUID PRIMARY KEY,
//	    supplier   TEXT NOT NULL,
//	    industry   TEXT NOT NULL DEFAULT '',
//	    grade      TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
type AssessmentRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewAssessmentRepository builds a repository on an open connection.
func NewAssessmentRepository(conn *Connection, logger logging.Logger) *AssessmentRepository {
	return &AssessmentRepository{pool: conn.Pool(), logger: logger.Named("postgres.assessments")}
}

// SaveRiskAssessment persists one risk assessment payload under id.
func (r *AssessmentRepository) SaveRiskAssessment(ctx context.Context, id string, payload *report.RiskPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "failed to encode risk payload")
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO risk_assessments (id, question, payload, created_at) VALUES ($1, $2, $3, $4)`,
		id, payload.Question, data, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to insert risk assessment")
	}
	r.logger.Debug("risk assessment persisted",
		logging.String("id", id), logging.Int("risks", payload.TotalRisks))
	return nil
}

// SaveSupplierEvaluation persists one supplier evaluation payload under id.
func (r *AssessmentRepository) SaveSupplierEvaluation(ctx context.Context, id string, payload *report.SupplierPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "failed to encode supplier payload")
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO supplier_evaluations (id, supplier, industry, grade, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, payload.Supplier, payload.Industry, payload.Grade, data, time.Now().UTC())
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to insert supplier evaluation")
	}
	r.logger.Debug("supplier evaluation persisted",
		logging.String("id", id), logging.String("grade", payload.Grade))
	return nil
}
