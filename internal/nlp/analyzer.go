package nlp

import "github.com/xisxz/agente-vendas/internal/model"

// Analyzer runs the full understanding pipeline over one inbound
// message: normalize, classify intent, extract entities, score
// sentiment, estimate confidence. It holds no mutable state and is safe
// for concurrent use.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Analyze(text string) model.MessageAnalysis {
	normalized := Normalize(text)

	intent := ClassifyIntent(normalized)
	entities := ExtractEntities(text)
	sentiment := AnalyzeSentiment(normalized)

	return model.MessageAnalysis{
		Raw:        text,
		Normalized: normalized,
		Intent:     intent,
		Entities:   entities,
		Sentiment:  sentiment,
		Confidence: EstimateConfidence(intent, entities, sentiment),
	}
}

// EstimateConfidence combines classifier certainty signals. Base 0.5,
// +0.2 for a non-general intent, +0.2 when any entity was found, +0.1
// for strong polarity, capped at 1.0.
func EstimateConfidence(intent string, entities model.EntityMap, sentiment model.Sentiment) float64 {
	confidence := 0.5

	if intent != IntentGeneral {
		confidence += 0.2
	}
	if !entities.Empty() {
		confidence += 0.2
	}
	if sentiment.Polarity > 0.3 || sentiment.Polarity < -0.3 {
		confidence += 0.1
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	return confidence
}
