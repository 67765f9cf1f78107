package nlp

import "strings"

// Intent labels. IntentGeneral is the fallback when nothing scores.
const (
	IntentGreeting       = "greeting"
	IntentProductInquiry = "product_inquiry"
	IntentDemoRequest    = "demo_request"
	IntentPricingInquiry = "pricing_inquiry"
	IntentSupportRequest = "support_request"
	IntentComplaint      = "complaint"
	IntentCompliment     = "compliment"
	IntentGoodbye        = "goodbye"
	IntentContactInfo    = "contact_info"
	IntentAvailability   = "availability"
	IntentGeneral        = "general"
	// Outbound-only markers, never classified.
	IntentFollowUp = "followup"
	IntentResponse = "response" // auto-generated reply
)

type intentPattern struct {
	label    string
	keywords []string
}

// intentPatterns is ordered: ties between equal scores resolve to the
// first label listed here.
var intentPatterns = []intentPattern{
	{IntentGreeting, []string{
		"hello", "hi", "hey", "good morning", "good afternoon", "good evening",
		"how are you", "nice to meet", "whats up",
	}},
	{IntentProductInquiry, []string{
		"product", "service", "offer", "sale", "buy", "purchase", "price", "cost",
		"how much", "information", "details", "specification", "catalog",
		"available", "in stock",
	}},
	{IntentDemoRequest, []string{
		"demo", "demonstration", "trial", "test", "try it", "see it working",
		"presentation", "show me", "example", "walkthrough",
	}},
	{IntentPricingInquiry, []string{
		"price", "pricing", "cost", "how much", "budget", "quote", "quotation",
		"investment", "plan", "package", "price list",
	}},
	{IntentSupportRequest, []string{
		"help", "support", "problem", "question", "doubt", "difficulty", "error",
		"not working", "bug", "assistance", "broken",
	}},
	{IntentComplaint, []string{
		"complaint", "problem", "dissatisfied", "unhappy", "bad", "terrible",
		"awful", "disappointed", "cancel", "refund",
	}},
	{IntentCompliment, []string{
		"congratulations", "excellent", "great", "very good", "perfect",
		"loved", "liked", "satisfied", "recommend", "amazing",
	}},
	{IntentGoodbye, []string{
		"bye", "goodbye", "see you", "see ya", "farewell", "later",
		"thanks", "thank you",
	}},
	{IntentContactInfo, []string{
		"contact", "phone", "email", "address", "location", "where are you",
		"how to reach", "whatsapp",
	}},
	{IntentAvailability, []string{
		"available", "availability", "schedule", "hours", "when", "deadline",
		"delivery", "open", "closed",
	}},
}

// ClassifyIntent scores every intent over the normalized text. A keyword
// standing alone as a word counts 2, a substring hit counts 1. Highest
// score wins; ties resolve to the first intent in the pattern order; a
// zero score everywhere yields general.
func ClassifyIntent(normalized string) string {
	padded := " " + normalized + " "

	best := IntentGeneral
	bestScore := 0
	for _, p := range intentPatterns {
		score := 0
		for _, kw := range p.keywords {
			if !strings.Contains(normalized, kw) {
				continue
			}
			if strings.Contains(padded, " "+kw+" ") {
				score += 2
			} else {
				score += 1
			}
		}
		if score > bestScore {
			best = p.label
			bestScore = score
		}
	}
	return best
}

// IntentLabels returns the closed label set, fallback last.
func IntentLabels() []string {
	labels := make([]string, 0, len(intentPatterns)+1)
	for _, p := range intentPatterns {
		labels = append(labels, p.label)
	}
	return append(labels, IntentGeneral)
}
