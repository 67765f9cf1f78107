package nlp

import (
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

// sentimentEntry carries the lexicon scores of one word: polarity in
// [-1,1] and subjectivity in [0,1].
type sentimentEntry struct {
	polarity     float64
	subjectivity float64
}

var sentimentLexicon = map[string]sentimentEntry{
	"excellent":    {0.9, 0.9},
	"amazing":      {0.9, 0.9},
	"perfect":      {1.0, 0.9},
	"great":        {0.8, 0.8},
	"awesome":      {0.9, 0.9},
	"good":         {0.6, 0.6},
	"nice":         {0.5, 0.7},
	"happy":        {0.7, 0.8},
	"love":         {0.8, 0.7},
	"loved":        {0.8, 0.7},
	"like":         {0.4, 0.5},
	"liked":        {0.4, 0.5},
	"satisfied":    {0.6, 0.7},
	"thanks":       {0.4, 0.4},
	"interested":   {0.4, 0.5},
	"recommend":    {0.6, 0.6},
	"helpful":      {0.5, 0.6},
	"fast":         {0.3, 0.4},
	"easy":         {0.4, 0.5},
	"bad":          {-0.6, 0.7},
	"terrible":     {-0.9, 0.9},
	"awful":        {-0.9, 0.9},
	"horrible":     {-0.9, 0.9},
	"disappointed": {-0.7, 0.8},
	"unhappy":      {-0.7, 0.8},
	"dissatisfied": {-0.7, 0.8},
	"angry":        {-0.8, 0.9},
	"hate":         {-0.8, 0.8},
	"problem":      {-0.4, 0.5},
	"issue":        {-0.3, 0.4},
	"broken":       {-0.6, 0.6},
	"slow":         {-0.4, 0.5},
	"expensive":    {-0.4, 0.6},
	"worst":        {-1.0, 0.9},
	"useless":      {-0.8, 0.8},
	"cancel":       {-0.5, 0.5},
	"refund":       {-0.4, 0.4},
	"never":        {-0.3, 0.5},
	"wrong":        {-0.5, 0.6},
}

var negations = map[string]bool{
	"not": true, "no": true, "never": true, "dont": true, "don't": true,
	"cant": true, "can't": true, "wont": true, "won't": true, "isnt": true,
	"isn't": true,
}

var intensifiers = map[string]float64{
	"very": 1.3, "really": 1.3, "so": 1.2, "extremely": 1.5, "super": 1.3,
	"totally": 1.3, "quite": 1.1,
}

var sentimentTokenizer = strings.NewReplacer(
	".", " ", ",", " ", "!", " ", "?", " ", ";", " ", ":", " ",
	"(", " ", ")", " ", "\"", " ",
)

// AnalyzeSentiment scores normalized text against the lexicon. A
// negation flips the polarity of the next scored word, an intensifier
// amplifies it. The mean of matched word scores becomes the message
// polarity/subjectivity; no match yields a neutral record. The analyzer
// never fails upward: any internal error is attached to the record.
func AnalyzeSentiment(normalized string) model.Sentiment {
	tokens := strings.Fields(sentimentTokenizer.Replace(normalized))

	var polaritySum, subjectivitySum float64
	matched := 0
	negate := false
	boost := 1.0

	for _, tok := range tokens {
		if negations[tok] {
			negate = true
			continue
		}
		if factor, ok := intensifiers[tok]; ok {
			boost = factor
			continue
		}
		entry, ok := sentimentLexicon[tok]
		if !ok {
			negate = false
			boost = 1.0
			continue
		}

		p := entry.polarity * boost
		if negate {
			p = -p * 0.8
		}
		polaritySum += clamp(p, -1, 1)
		subjectivitySum += entry.subjectivity
		matched++
		negate = false
		boost = 1.0
	}

	if matched == 0 {
		return model.Sentiment{Polarity: 0, Subjectivity: 0, Label: model.SentimentNeutral}
	}

	polarity := clamp(polaritySum/float64(matched), -1, 1)
	subjectivity := clamp(subjectivitySum/float64(matched), 0, 1)

	return model.Sentiment{
		Polarity:     polarity,
		Subjectivity: subjectivity,
		Label:        sentimentLabel(polarity),
	}
}

func sentimentLabel(polarity float64) model.SentimentLabel {
	switch {
	case polarity > 0.1:
		return model.SentimentPositive
	case polarity < -0.1:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
