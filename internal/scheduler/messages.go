package scheduler

import (
	"strings"

	"github.com/xisxz/agente-vendas/internal/model"
)

// followupTemplates holds the per-type message families. Selection is
// deterministic first-element; {name} expands to the lead's name.
var followupTemplates = map[model.FollowUpType][]string{
	model.FollowUpWelcome: {
		"Hello {name}! Thanks for your interest. How can I help you find the best solution?",
		"Hi {name}! Great to have you with us. Any questions I can answer?",
		"Welcome {name}! I'm here to help with any information you need.",
	},
	model.FollowUpNurturing: {
		"Hi {name}! How are you? I'd like to share some news that might interest you.",
		"Hello {name}! Hope you're doing well. Any project in mind I can help with?",
		"Hi {name}! I was thinking of you and brought some information that could be useful.",
	},
	model.FollowUpQualification: {
		"Hello {name}! To prepare the best proposal, can you tell me a bit more about your needs?",
		"Hi {name}! I'd like to understand your project better so I can offer the ideal solution.",
		"Hello {name}! How about we talk through your goals so I can help the best way?",
	},
	model.FollowUpProposal: {
		"Hi {name}! I've prepared a personalized proposal for you. When can we talk?",
		"Hello {name}! I have an interesting proposal based on what we discussed. Can I present it?",
		"Hi {name}! Your proposal is ready. Shall we schedule a conversation?",
	},
	model.FollowUpClosing: {
		"Hello {name}! Have you reached a decision on our proposal? Can I clarify anything?",
		"Hi {name}! I'd like to know if you need any more information to decide.",
		"Hello {name}! I'm here to help with any questions about our proposal.",
	},
	model.FollowUpReactivation: {
		"Hi {name}! It's been a while since we talked. How are you? Can I help with anything?",
		"Hello {name}! Long time no see! How are your projects going? Anything I can support?",
		"Hi {name}! I was thinking of you. How can I help today?",
	},
	model.FollowUpFeedback: {
		"Hello {name}! How was your experience with us? Your feedback matters a lot!",
		"Hi {name}! I'd like to hear your opinion on our service. How was it for you?",
		"Hello {name}! Would you share your experience? We always want to improve!",
	},
}

// SelectMessage picks the follow-up message for the given type and lead.
func SelectMessage(followupType model.FollowUpType, leadName string) string {
	templates, ok := followupTemplates[followupType]
	if !ok {
		templates = followupTemplates[model.FollowUpNurturing]
	}
	return strings.ReplaceAll(templates[0], "{name}", leadName)
}
