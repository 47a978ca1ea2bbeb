package repository

import (
	"context"

	"AstroChart/internal/domain/models"
	domrepo "AstroChart/internal/domain/repository"
	pkgkafka "AstroChart/pkg/kafka"
)

// KafkaChartPublisher implements EventPublisher for Kafka. Events are keyed by
// chart id.
type KafkaChartPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaChartPublisher creates a publisher over a shared producer.
func NewKafkaChartPublisher(producer *pkgkafka.Producer, topic string) domrepo.EventPublisher {
	return &KafkaChartPublisher{producer: producer, topic: topic}
}

func (p *KafkaChartPublisher) PublishChart(ctx context.Context, ev *models.ChartEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(ev.Record.ID), ev)
}

func (p *KafkaChartPublisher) Close() error {
	return nil // producer is shared with the log collector and closed by the app
}
