package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentCompletedEventJSON(t *testing.T) {
	event := AssessmentCompletedEvent{
		ID:          "a1b2",
		Kind:        KindSupplierEvaluation,
		Supplier:    "한빛정밀",
		Industry:    "제조",
		Grade:       "B",
		CompletedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"kind":"supplier"`)
	// Risk-only fields stay out of supplier events.
	assert.NotContains(t, string(data), "total_risks")
	assert.NotContains(t, string(data), "top_rating")

	var decoded AssessmentCompletedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, event, decoded)
}

func TestRiskEventOmitsSupplierFields(t *testing.T) {
	event := AssessmentCompletedEvent{
		ID:         "r1",
		Kind:       KindRiskAssessment,
		TotalRisks: 3,
		TopRating:  "High",
	}
	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "supplier")
	assert.Contains(t, string(data), `"total_risks":3`)
}
