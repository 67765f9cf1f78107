package model

import "time"

// AnalyticsEvent is one append-only metric row. Metadata is a
// JSON-encoded bag of event-specific dimensions.
type AnalyticsEvent struct {
	ID         int64     `json:"id"`
	MetricName string    `json:"metric_name"`
	Value      float64   `json:"metric_value"`
	MetricType string    `json:"metric_type"` // counter | gauge
	Channel    string    `json:"channel"`
	Category   string    `json:"category"`
	Metadata   string    `json:"metadata"`
	CreatedAt  time.Time `json:"created_at"`
}

func (AnalyticsEvent) TableName() string { return "analytics_events" }
