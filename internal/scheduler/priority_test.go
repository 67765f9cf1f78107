package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/xisxz/agente-vendas/internal/model"
)

func TestPriorityFor_Thresholds(t *testing.T) {
	assert.Equal(t, model.PriorityLow, PriorityFor(0.0))
	assert.Equal(t, model.PriorityLow, PriorityFor(0.39))
	assert.Equal(t, model.PriorityMedium, PriorityFor(0.4))
	assert.Equal(t, model.PriorityMedium, PriorityFor(0.59))
	assert.Equal(t, model.PriorityHigh, PriorityFor(0.6))
	assert.Equal(t, model.PriorityHigh, PriorityFor(0.79))
	assert.Equal(t, model.PriorityUrgent, PriorityFor(0.8))
	assert.Equal(t, model.PriorityUrgent, PriorityFor(1.0))
}

func TestPriorityScore(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("hot referral lead", func(t *testing.T) {
		last := now.Add(-10 * time.Hour)
		lead := &model.Lead{
			QualificationScore: 8,
			InteractionCount:   12,
			SentimentScore:     0.5,
			LastInteraction:    &last,
			Source:             "referral",
		}
		// 0.24 qual + 0.21875 engagement + 0.02778 time + 0.135 intent + 0.09 source
		score := PriorityScore(lead, "demo_request", now)
		assert.InDelta(t, 0.7115, score, 0.001)
		assert.Equal(t, model.PriorityHigh, PriorityFor(score))
	})

	t.Run("hot referral lead gone quiet scores urgent", func(t *testing.T) {
		last := now.Add(-80 * time.Hour)
		lead := &model.Lead{
			QualificationScore: 8,
			InteractionCount:   12,
			SentimentScore:     0.5,
			LastInteraction:    &last,
			Source:             "referral",
		}
		score := PriorityScore(lead, "demo_request", now)
		assert.GreaterOrEqual(t, score, 0.8)
		assert.Equal(t, model.PriorityUrgent, PriorityFor(score))
	})

	t.Run("cold lead scores low", func(t *testing.T) {
		last := now.Add(-1 * time.Hour)
		lead := &model.Lead{
			QualificationScore: 0,
			InteractionCount:   0,
			SentimentScore:     0,
			LastInteraction:    &last,
			Source:             "unknown",
		}
		score := PriorityScore(lead, "goodbye", now)
		assert.Equal(t, model.PriorityLow, PriorityFor(score))
	})

	t.Run("never contacted lead has max time urgency", func(t *testing.T) {
		lead := &model.Lead{}
		assert.InDelta(t, 1.0, timeUrgency(lead, now), 1e-9)
	})

	t.Run("time urgency saturates at 72h", func(t *testing.T) {
		old := now.Add(-200 * time.Hour)
		lead := &model.Lead{LastInteraction: &old}
		assert.InDelta(t, 1.0, timeUrgency(lead, now), 1e-9)
	})

	t.Run("engagement is zero without interactions", func(t *testing.T) {
		lead := &model.Lead{InteractionCount: 0, SentimentScore: 1.0}
		assert.Zero(t, engagementLevel(lead))
	})

	t.Run("unknown intent and source default to 0.5", func(t *testing.T) {
		assert.InDelta(t, 0.5, intentUrgencyFor("something_else"), 1e-9)
		assert.InDelta(t, 0.5, intentUrgencyFor(""), 1e-9)
		assert.InDelta(t, 0.5, sourceQualityFor("carrier_pigeon"), 1e-9)
	})
}
