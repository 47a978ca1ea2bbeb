package repository

import (
	"context"
	"time"

	"AstroChart/internal/domain/models"
)

// ChartArchive stores summaries of computed charts.
type ChartArchive interface {
	Init(ctx context.Context) error // ensure tables
	Store(ctx context.Context, r *models.ChartRecord) error
	Recent(ctx context.Context, limit int, since time.Time) ([]*models.ChartRecord, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// EventPublisher emits chart lifecycle events.
type EventPublisher interface {
	PublishChart(ctx context.Context, ev *models.ChartEvent) error
	Close() error
}

type Metrics interface {
	RecordChart(system string)
	RecordError(kind string)
	RecordCache(result string)
	RecordLatency(op string, seconds float64)
}
