package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xisxz/agente-vendas/internal/model"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hello!", Normalize("HELLO!!!"))
	assert.Equal(t, "what?", Normalize("What????"))
	assert.Equal(t, "wait...", Normalize("wait......"))
	assert.Equal(t, "a b c", Normalize("  a   b\t c  "))
}

func TestClassifyIntent(t *testing.T) {
	t.Run("keyword match", func(t *testing.T) {
		assert.Equal(t, IntentGreeting, ClassifyIntent("hello, how are you?"))
		assert.Equal(t, IntentDemoRequest, ClassifyIntent("can i get a demo of the platform"))
		assert.Equal(t, IntentComplaint, ClassifyIntent("i am very dissatisfied and want a refund"))
	})

	t.Run("no match falls back to general", func(t *testing.T) {
		assert.Equal(t, IntentGeneral, ClassifyIntent("xyzzy plugh"))
		assert.Equal(t, IntentGeneral, ClassifyIntent(""))
	})

	t.Run("standalone word outweighs substring", func(t *testing.T) {
		// "pricing" scores pricing_inquiry standalone, product_inquiry
		// only via the "price" substring.
		assert.Equal(t, IntentPricingInquiry, ClassifyIntent("pricing please"))
	})

	t.Run("deterministic", func(t *testing.T) {
		text := "hello, i have a problem with the product price"
		first := ClassifyIntent(text)
		for i := 0; i < 50; i++ {
			assert.Equal(t, first, ClassifyIntent(text))
		}
	})
}

func TestAnalyzeSentiment(t *testing.T) {
	t.Run("positive", func(t *testing.T) {
		s := AnalyzeSentiment("this is excellent, i loved it")
		assert.Equal(t, model.SentimentPositive, s.Label)
		assert.Greater(t, s.Polarity, 0.1)
	})

	t.Run("negative", func(t *testing.T) {
		s := AnalyzeSentiment("terrible service, i am very disappointed")
		assert.Equal(t, model.SentimentNegative, s.Label)
		assert.Less(t, s.Polarity, -0.1)
	})

	t.Run("neutral on no lexicon hits", func(t *testing.T) {
		s := AnalyzeSentiment("meeting at three tomorrow")
		assert.Equal(t, model.SentimentNeutral, s.Label)
		assert.Zero(t, s.Polarity)
		assert.Zero(t, s.Subjectivity)
	})

	t.Run("negation flips polarity", func(t *testing.T) {
		pos := AnalyzeSentiment("the product is good")
		neg := AnalyzeSentiment("the product is not good")
		assert.Greater(t, pos.Polarity, 0.0)
		assert.Less(t, neg.Polarity, 0.0)
	})

	t.Run("bounds hold for arbitrary input", func(t *testing.T) {
		inputs := []string{
			"", "!!!", "excellent excellent excellent perfect amazing",
			"worst horrible awful terrible useless hate",
			"very extremely really perfect",
		}
		for _, in := range inputs {
			s := AnalyzeSentiment(in)
			assert.GreaterOrEqual(t, s.Polarity, -1.0, in)
			assert.LessOrEqual(t, s.Polarity, 1.0, in)
			assert.GreaterOrEqual(t, s.Subjectivity, 0.0, in)
			assert.LessOrEqual(t, s.Subjectivity, 1.0, in)
		}
	})
}

func TestEstimateConfidence(t *testing.T) {
	noEntities := model.EntityMap{}
	withEntities := model.EntityMap{Custom: map[string][]string{"email": {"a@b.co"}}}
	flat := model.Sentiment{Polarity: 0}
	strong := model.Sentiment{Polarity: 0.5}

	t.Run("base", func(t *testing.T) {
		assert.InDelta(t, 0.5, EstimateConfidence(IntentGeneral, noEntities, flat), 1e-9)
	})

	t.Run("signals add up and cap at one", func(t *testing.T) {
		assert.InDelta(t, 0.7, EstimateConfidence(IntentGreeting, noEntities, flat), 1e-9)
		assert.InDelta(t, 0.9, EstimateConfidence(IntentGreeting, withEntities, flat), 1e-9)
		assert.InDelta(t, 1.0, EstimateConfidence(IntentGreeting, withEntities, strong), 1e-9)
	})

	t.Run("monotone in signal richness", func(t *testing.T) {
		base := EstimateConfidence(IntentGeneral, noEntities, flat)
		richer := EstimateConfidence(IntentGreeting, noEntities, flat)
		richest := EstimateConfidence(IntentGreeting, withEntities, strong)
		assert.LessOrEqual(t, base, richer)
		assert.LessOrEqual(t, richer, richest)
	})
}

func TestAnalyzer_Analyze(t *testing.T) {
	a := NewAnalyzer()

	res := a.Analyze("I want a demo and a trial, my email is joao@empresa.com.br")

	assert.Equal(t, IntentDemoRequest, res.Intent)
	assert.Contains(t, res.Entities.Custom["email"], "joao@empresa.com.br")
	assert.GreaterOrEqual(t, res.Confidence, 0.0)
	assert.LessOrEqual(t, res.Confidence, 1.0)
	assert.Equal(t, Normalize(res.Raw), res.Normalized)
}
