package dispatcher

import (
	"sync"
	"time"
)

// Metrics tracks dispatch outcomes in-process, with a per-type
// breakdown on top of the totals. Prometheus gets the same numbers via
// pkg/prom; this copy feeds the periodic log report.
type Metrics struct {
	mu              sync.Mutex
	totalDispatched int64
	totalFailed     int64
	totalDuration   time.Duration
	byChannel       map[string]int64
	startedAt       time.Time
}

// Stats is a point-in-time snapshot.
type Stats struct {
	TotalDispatched int64
	TotalFailed     int64
	RatePerSecond   float64
	AvgDurationMs   int64
	UptimeSeconds   float64
	ByChannel       map[string]int64
}

func NewMetrics() *Metrics {
	return &Metrics{
		byChannel: make(map[string]int64),
		startedAt: time.Now(),
	}
}

func (m *Metrics) RecordSuccess(notificationType string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalDispatched++
	m.totalDuration += duration
	if notificationType != "" {
		m.byChannel[notificationType]++
	}
}

func (m *Metrics) RecordFailure(notificationType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalFailed++
	if notificationType != "" {
		m.byChannel[notificationType+"_failed"]++
	}
}

func (m *Metrics) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	elapsed := time.Since(m.startedAt).Seconds()

	rate := 0.0
	if elapsed > 0 {
		rate = float64(m.totalDispatched) / elapsed
	}

	avg := time.Duration(0)
	if m.totalDispatched > 0 {
		avg = m.totalDuration / time.Duration(m.totalDispatched)
	}

	byChannel := make(map[string]int64, len(m.byChannel))
	for k, v := range m.byChannel {
		byChannel[k] = v
	}

	return Stats{
		TotalDispatched: m.totalDispatched,
		TotalFailed:     m.totalFailed,
		RatePerSecond:   rate,
		AvgDurationMs:   avg.Milliseconds(),
		UptimeSeconds:   elapsed,
		ByChannel:       byChannel,
	}
}
