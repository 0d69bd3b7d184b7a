// Package kafka publishes assessment lifecycle events.
package kafka

import "time"

// Topics used by the engine.
const (
	TopicAssessmentCompleted = "esg.assessment.completed"
)

// Event kinds carried by assessment-completed events.
const (
	KindRiskAssessment     = "risk"
	KindSupplierEvaluation = "supplier"
)

// AssessmentCompletedEvent announces a finished assessment to downstream
// consumers (dashboards, audit pipelines). The full payload stays in the
// database; the event carries the summary fields.
type AssessmentCompletedEvent struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Supplier    string    `json:"supplier,omitempty"`
	Industry    string    `json:"industry,omitempty"`
	Grade       string    `json:"grade,omitempty"`
	TotalRisks  int       `json:"total_risks,omitempty"`
	TopRating   string    `json:"top_rating,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}
