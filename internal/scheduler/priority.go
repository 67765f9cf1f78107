package scheduler

import (
	"time"

	"github.com/xisxz/agente-vendas/internal/model"
)

// Weights of the composite priority score. They sum to 1.0.
const (
	weightQualification = 0.30
	weightEngagement    = 0.25
	weightTimeUrgency   = 0.20
	weightIntentUrgency = 0.15
	weightSourceQuality = 0.10
)

// Score→tier thresholds, inclusive lower bounds.
const (
	urgentThreshold = 0.8
	highThreshold   = 0.6
	mediumThreshold = 0.4
)

var intentUrgency = map[string]float64{
	"demo_request":    0.9,
	"complaint":       0.9,
	"pricing_inquiry": 0.8,
	"product_inquiry": 0.7,
	"support_request": 0.6,
	"general":         0.4,
	"greeting":        0.3,
	"goodbye":         0.1,
}

var sourceQuality = map[string]float64{
	"referral":       0.9,
	"website":        0.8,
	"linkedin":       0.7,
	"whatsapp":       0.6,
	"facebook":       0.5,
	"instagram":      0.5,
	"email_campaign": 0.4,
	"cold_call":      0.3,
	"unknown":        0.2,
}

// PriorityScore combines five engagement signals into a [0,1] composite.
// lastIntent is the intent of the lead's most recent conversation, empty
// when there is none.
func PriorityScore(lead *model.Lead, lastIntent string, now time.Time) float64 {
	score := (lead.QualificationScore / 10.0) * weightQualification
	score += engagementLevel(lead) * weightEngagement
	score += timeUrgency(lead, now) * weightTimeUrgency
	score += intentUrgencyFor(lastIntent) * weightIntentUrgency
	score += sourceQualityFor(lead.Source) * weightSourceQuality
	return score
}

// PriorityFor maps a composite score onto the 4-tier enumeration.
func PriorityFor(score float64) model.Priority {
	switch {
	case score >= urgentThreshold:
		return model.PriorityUrgent
	case score >= highThreshold:
		return model.PriorityHigh
	case score >= mediumThreshold:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}

// engagementLevel averages normalized interaction count and normalized
// running sentiment. A lead that never interacted scores zero.
func engagementLevel(lead *model.Lead) float64 {
	if lead.InteractionCount == 0 {
		return 0.0
	}
	interactionScore := float64(lead.InteractionCount) / 10.0
	if interactionScore > 1.0 {
		interactionScore = 1.0
	}
	sentimentScore := (lead.SentimentScore + 1) / 2
	return (interactionScore + sentimentScore) / 2
}

// timeUrgency grows with silence and saturates at 72 hours. A lead that
// was never contacted is maximally urgent.
func timeUrgency(lead *model.Lead, now time.Time) float64 {
	if lead.LastInteraction == nil {
		return 1.0
	}
	hoursSince := now.Sub(*lead.LastInteraction).Hours()
	urgency := hoursSince / 72.0
	if urgency > 1.0 {
		urgency = 1.0
	}
	if urgency < 0 {
		urgency = 0
	}
	return urgency
}

func intentUrgencyFor(intent string) float64 {
	if intent == "" {
		return 0.5
	}
	if v, ok := intentUrgency[intent]; ok {
		return v
	}
	return 0.5
}

func sourceQualityFor(source string) float64 {
	if v, ok := sourceQuality[source]; ok {
		return v
	}
	return 0.5
}
