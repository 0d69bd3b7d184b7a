package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

func TestPublishFailureCountsErrorEvent(t *testing.T) {
	metrics := prometheus.NewMetrics()
	// Nothing listens on this port, so the write fails fast.
	producer := NewProducer(config.KafkaConfig{
		Brokers:      []string{"127.0.0.1:1"},
		WriteTimeout: 100 * time.Millisecond,
		MaxRetries:   1,
	}, metrics, logging.NewNopLogger())
	defer producer.Close()

	err := producer.PublishAssessmentCompleted(context.Background(), AssessmentCompletedEvent{
		ID:          "ev-1",
		Kind:        KindRiskAssessment,
		CompletedAt: time.Now(),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeExternalService, apperrors.GetCode(err))

	counted := testutil.ToFloat64(
		metrics.EventsPublished.WithLabelValues(TopicAssessmentCompleted, "error"))
	assert.Equal(t, 1.0, counted)
}

func TestPublishWithoutMetricsDoesNotPanic(t *testing.T) {
	producer := NewProducer(config.KafkaConfig{
		Brokers:      []string{"127.0.0.1:1"},
		WriteTimeout: 100 * time.Millisecond,
		MaxRetries:   1,
	}, nil, logging.NewNopLogger())
	defer producer.Close()

	err := producer.PublishAssessmentCompleted(context.Background(), AssessmentCompletedEvent{
		ID:   "ev-2",
		Kind: KindSupplierEvaluation,
	})
	require.Error(t, err)
}
