package nlp

import "github.com/xisxz/agente-vendas/internal/model"

// Escalation reason strings surfaced to the caller.
const (
	ReasonLowConfidence   = "low confidence"
	ReasonSevereComplaint = "severe complaint"
	ReasonComplexSupport  = "complex support request"
	ReasonUnclearIntent   = "repeated unclear intent"
)

// ShouldEscalate evaluates all hand-off rules; rules are additive and
// never short-circuit, so several reasons can co-occur. History is
// ordered most-recent-last and only consulted once it is longer than
// five entries.
func ShouldEscalate(intent string, sentiment model.Sentiment, confidence float64, history []model.HistoryEntry) model.EscalationVerdict {
	verdict := model.EscalationVerdict{Priority: "medium"}

	if confidence < 0.3 {
		verdict.ShouldEscalate = true
		verdict.Reasons = append(verdict.Reasons, ReasonLowConfidence)
	}

	if intent == IntentComplaint && sentiment.Polarity < -0.5 {
		verdict.ShouldEscalate = true
		verdict.Reasons = append(verdict.Reasons, ReasonSevereComplaint)
	}

	if intent == IntentSupportRequest && confidence < 0.5 {
		verdict.ShouldEscalate = true
		verdict.Reasons = append(verdict.Reasons, ReasonComplexSupport)
	}

	if len(history) > 5 {
		generalCount := 0
		for _, h := range history[len(history)-5:] {
			if h.Intent == IntentGeneral {
				generalCount++
			}
		}
		if generalCount >= 3 {
			verdict.ShouldEscalate = true
			verdict.Reasons = append(verdict.Reasons, ReasonUnclearIntent)
		}
	}

	if sentiment.Polarity < -0.5 {
		verdict.Priority = "high"
	}
	return verdict
}
