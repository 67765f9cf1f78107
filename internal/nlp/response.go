package nlp

import (
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

// responseTemplates holds the per-intent reply families. {name}
// expands to " <lead name>" when a name is supplied, otherwise to "".
// Selection is deterministic: always the first template of the family.
var responseTemplates = map[string][]string{
	IntentGreeting: {
		"Hello{name}! How can I help you today?",
		"Hi{name}! Great to hear from you. What can I do for you?",
		"Good day{name}! I'm here to help. What would you like to know?",
	},
	IntentProductInquiry: {
		"Glad to hear about your interest! We have solutions that can fit your needs. What kind of product or service are you looking for?",
		"Great! I'd love to walk you through our products. Can you tell me a bit more about what you need?",
		"Perfect! We have several options that could work for you. What is your main goal?",
	},
	IntentDemoRequest: {
		"Of course! It would be a pleasure to show you how our solution works. When would be a good time for you?",
		"Excellent idea! A demo is the best way to get to know the product. Do you have a preferred time?",
		"Perfect! I'll set up a personalized demo for you. What day and time work best?",
	},
	IntentPricingInquiry: {
		"Happy to talk numbers! We have flexible options for different needs. Can I prepare a personalized quote for you?",
		"Good question! Pricing depends on the package and your specific needs. Shall we go over them so I can suggest the best option?",
		"Absolutely! To give you the best price I need to understand your project a little better. Can you tell me about it?",
	},
	IntentSupportRequest: {
		"Of course, I'm here to help! Can you explain what difficulty you are running into?",
		"No problem! Let's sort this out together. Can you give me more details about what's happening?",
		"I understand. I'm here to give you all the support you need. What exactly is the problem?",
	},
	IntentComplaint: {
		"I'm really sorry you had this experience. Your satisfaction matters a lot to us. Can you tell me what happened so I can help?",
		"Apologies for the inconvenience. We'll resolve this the best way possible. Can you walk me through the situation?",
		"I'm sorry about that. Your feedback is valuable and we want to improve. Can you give me more details?",
	},
	IntentCompliment: {
		"Thank you so much for the positive feedback! It's great to know you're satisfied — that's what keeps us improving!",
		"What a joy to get this feedback! Thanks for sharing your experience with us!",
		"Your comment made my day! It's very rewarding to know we met your expectations!",
	},
	IntentGoodbye: {
		"It was a pleasure talking to you{name}! I'll be right here if you need anything. Have a great day!",
		"Thanks for the chat{name}! See you soon, and count on me whenever you need!",
		"Bye{name}! Great talking to you. I'm always available to help!",
	},
	IntentContactInfo: {
		"Sure! You can reach us on WhatsApp, email or phone. Which do you prefer?",
		"No problem! We have several support channels available. How would you like to stay in touch?",
		"Perfect! We're always available to talk. What's the best contact channel for you?",
	},
	IntentAvailability: {
		"We're available Monday to Friday, 9am to 6pm. On WhatsApp we often reply outside hours too!",
		"Our team works Monday to Friday, 9am to 6pm. I can help you right now!",
		"We're here for you! Business hours: Monday to Friday, 9am to 6pm. What do you need?",
	},
	IntentGeneral: {
		"Got it! How can I best help you?",
		"Interesting! Tell me more so I can help you better.",
		"Alright! I'm here to help. What would you like to know?",
	},
}

// empatheticResponses replace the intent template when the message reads
// negative and the intent family is not already apologetic.
var empatheticResponses = []string{
	"I understand your concern. I'm here to help in the best way I can.",
	"It sounds like something may be bothering you. Let's work it out together!",
	"I hear you. Let me help you clear everything up.",
}

// GenerateResponse picks the reply for one analyzed message. A negative
// sentiment overrides the intent template with an empathetic reply,
// except for complaint and support requests whose own templates already
// carry the apology.
func GenerateResponse(intent string, sentiment model.Sentiment, leadName string) string {
	if sentiment.Label == model.SentimentNegative &&
		intent != IntentComplaint && intent != IntentSupportRequest {
		return empatheticResponses[0]
	}

	templates, ok := responseTemplates[intent]
	if !ok {
		templates = responseTemplates[IntentGeneral]
	}
	return interpolateName(templates[0], leadName)
}

func interpolateName(template, leadName string) string {
	name := ""
	if leadName != "" {
		name = " " + leadName
	}
	return strings.ReplaceAll(template, "{name}", name)
}
