package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/turtacn/ESG-Sentinel/internal/config"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ESG-Sentinel/internal/infrastructure/monitoring/prometheus"
	apperrors "github.com/turtacn/ESG-Sentinel/pkg/errors"
)

// Producer writes assessment events to Kafka.
type Producer struct {
	writer  *kafkago.Writer
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewProducer configures a writer for the assessment-completed topic.
// metrics may be nil.
func NewProducer(cfg config.KafkaConfig, metrics *prometheus.Metrics, logger logging.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        TopicAssessmentCompleted,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxAttempts:  cfg.MaxRetries,
		RequiredAcks: kafkago.RequireOne,
	}
	return &Producer{writer: writer, metrics: metrics, logger: logger.Named("kafka.producer")}
}

func (p *Producer) countPublished(status string) {
	if p.metrics != nil {
		p.metrics.EventsPublished.WithLabelValues(TopicAssessmentCompleted, status).Inc()
	}
}

// PublishAssessmentCompleted emits one event keyed by assessment id, so
// events for the same assessment land in one partition.
func (p *Producer) PublishAssessmentCompleted(ctx context.Context, event AssessmentCompletedEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeSerialization, "failed to encode assessment event")
	}
	msg := kafkago.Message{
		Key:   []byte(event.ID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.countPublished("error")
		return apperrors.Wrap(err, apperrors.CodeExternalService, "failed to publish assessment event")
	}
	p.countPublished("ok")
	p.logger.Debug("assessment event published",
		logging.String("id", event.ID), logging.String("kind", event.Kind))
	return nil
}

// Close flushes and closes the writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}
