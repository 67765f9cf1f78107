package repository

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

type AnalyticsEventEntity struct {
	ID         int64     `db:"id"          gorm:"primaryKey;autoIncrement;column:id"`
	MetricName string    `db:"metric_name" gorm:"column:metric_name;not null;index"`
	Value      float64   `db:"value"       gorm:"column:value;not null"`
	MetricType string    `db:"metric_type" gorm:"column:metric_type;not null"`
	Channel    string    `db:"channel"     gorm:"column:channel"`
	Category   string    `db:"category"    gorm:"column:category"`
	Metadata   string    `db:"metadata"    gorm:"column:metadata"`
	CreatedAt  time.Time `db:"created_at"  gorm:"column:created_at;autoCreateTime;index"`
}

func (AnalyticsEventEntity) TableName() string {
	return "analytics_events"
}

func toAnalyticsEventEntity(m *model.AnalyticsEvent) *AnalyticsEventEntity {
	if m == nil {
		return nil
	}
	return &AnalyticsEventEntity{
		ID:         m.ID,
		MetricName: m.MetricName,
		Value:      m.Value,
		MetricType: m.MetricType,
		Channel:    m.Channel,
		Category:   m.Category,
		Metadata:   m.Metadata,
		CreatedAt:  m.CreatedAt,
	}
}

func toAnalyticsEventModel(e *AnalyticsEventEntity) *model.AnalyticsEvent {
	if e == nil {
		return nil
	}
	return &model.AnalyticsEvent{
		ID:         e.ID,
		MetricName: e.MetricName,
		Value:      e.Value,
		MetricType: e.MetricType,
		Channel:    e.Channel,
		Category:   e.Category,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}
