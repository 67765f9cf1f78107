package repository

import (
	"context"
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
	"github.com/xisxz/agente-vendas/pkg/pg"
)

// AnalyticsRepository is an append-only event log. Events are never
// updated or deleted.
type AnalyticsRepository struct {
	*pg.DB
}

func NewAnalyticsRepository(db *pg.DB) *AnalyticsRepository {
	return &AnalyticsRepository{
		db,
	}
}

func (r *AnalyticsRepository) Create(ctx context.Context, event *model.AnalyticsEvent) (*model.AnalyticsEvent, error) {
	entity := toAnalyticsEventEntity(event)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAnalyticsEventModel(entity), nil
}

// SumSince totals a metric's values recorded after the given cutoff.
func (r *AnalyticsRepository) SumSince(ctx context.Context, metricName string, since time.Time) (float64, error) {
	var total *float64
	err := r.Read(ctx).WithContext(ctx).
		Model(&AnalyticsEventEntity{}).
		Select("SUM(value)").
		Where("metric_name = ? AND created_at >= ?", metricName, since).
		Scan(&total).
		Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
